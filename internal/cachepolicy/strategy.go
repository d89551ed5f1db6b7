package cachepolicy

import (
	"fmt"
	"strings"
	"time"
)

// Kind 描述一个路径绑定的浏览器缓存策略。
type Kind string

const (
	KindNoCache      Kind = "no-cache"
	KindExpires      Kind = "expires"
	KindMaxAge       Kind = "max-age"
	KindLastModified Kind = "last-modified"
	KindETag         Kind = "etag"
)

const supportedKindList = "no-cache|expires|max-age|last-modified|etag"

// Strategy 是策略种类与其参数的组合，Expires 仅对 expires 生效，MaxAge 仅对 max-age 生效。
type Strategy struct {
	Kind    Kind
	Expires time.Time
	MaxAge  time.Duration
}

// NoCache 返回兜底策略：显式标记不可缓存。
func NoCache() Strategy {
	return Strategy{Kind: KindNoCache}
}

// AbsoluteExpiry 返回固定过期时间策略。
func AbsoluteExpiry(at time.Time) Strategy {
	return Strategy{Kind: KindExpires, Expires: at}
}

// RelativeMaxAge 返回相对客户端接收时间的新鲜度窗口策略。
func RelativeMaxAge(age time.Duration) Strategy {
	return Strategy{Kind: KindMaxAge, MaxAge: age}
}

// LastModifiedValidation 返回基于修改时间的协商缓存策略。
func LastModifiedValidation() Strategy {
	return Strategy{Kind: KindLastModified}
}

// ETagValidation 返回基于内容哈希的协商缓存策略。
func ETagValidation() Strategy {
	return Strategy{Kind: KindETag}
}

// ParseKind 将配置中的策略名称标准化。
func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case KindNoCache, KindExpires, KindMaxAge, KindLastModified, KindETag:
		return kind, nil
	default:
		return "", fmt.Errorf("unsupported strategy %q, want %s", raw, supportedKindList)
	}
}

func (k Kind) String() string {
	return string(k)
}

// Validates 表示该策略是否需要服务端比对验证器。
func (k Kind) Validates() bool {
	return k == KindLastModified || k == KindETag
}

// Describe 输出便于日志与诊断展示的策略摘要，例如 max-age=5。
func (s Strategy) Describe() string {
	switch s.Kind {
	case KindExpires:
		return fmt.Sprintf("%s=%s", s.Kind, FormatHTTPDate(s.Expires))
	case KindMaxAge:
		return fmt.Sprintf("%s=%d", s.Kind, maxAgeSeconds(s.MaxAge))
	default:
		return s.Kind.String()
	}
}

func maxAgeSeconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
