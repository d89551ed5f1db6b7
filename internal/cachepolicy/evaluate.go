package cachepolicy

import (
	"net/http"
	"strconv"
	"time"

	"github.com/any-hub/cache-demo/internal/resource"
)

// Status 是一次缓存判定的结果。
type Status int

const (
	StatusFresh Status = iota
	StatusNotModified
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusNotModified:
		return "not_modified"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// HTTPStatus 将判定结果映射为响应状态码。
func (s Status) HTTPStatus() int {
	switch s {
	case StatusNotModified:
		return http.StatusNotModified
	case StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}

const (
	HeaderCacheControl = "Cache-Control"
	HeaderExpires      = "Expires"
	HeaderLastModified = "Last-Modified"
	HeaderETag         = "ETag"
)

// Header 是一个待写出的响应头，按追加顺序输出。
type Header struct {
	Name  string
	Value string
}

// Validators 携带请求中的条件头，缺失时为空串。
type Validators struct {
	IfModifiedSince string
	IfNoneMatch     string
}

// Decision 描述是否返回正文以及需要附加的响应头。NotModified/NotFound 不带正文。
type Decision struct {
	Status Status
	Header []Header
}

// Get 返回指定响应头的值，主要用于测试与日志。
func (d Decision) Get(name string) string {
	for _, h := range d.Header {
		if http.CanonicalHeaderKey(h.Name) == http.CanonicalHeaderKey(name) {
			return h.Value
		}
	}
	return ""
}

// HasBody 表示响应是否需要写出资源正文。
func (d Decision) HasBody() bool {
	return d.Status == StatusFresh
}

// Evaluate 根据资源快照、请求验证器与路径策略给出缓存判定。res 为 nil 视为资源不存在。
// 验证器比较均为大小写敏感的精确字符串匹配，缺失的验证器永远不命中。
func Evaluate(res *resource.Resource, v Validators, s Strategy) Decision {
	if res == nil {
		return Decision{Status: StatusNotFound}
	}

	switch s.Kind {
	case KindExpires:
		// 依赖客户端时钟与服务端一致，时钟偏差不做校正。
		return fresh(Header{HeaderExpires, FormatHTTPDate(s.Expires)})
	case KindMaxAge:
		return fresh(Header{HeaderCacheControl, "max-age=" + strconv.FormatInt(maxAgeSeconds(s.MaxAge), 10)})
	case KindLastModified:
		lastModified := FormatHTTPDate(res.LastModified)
		if v.IfModifiedSince != "" && v.IfModifiedSince == lastModified {
			return Decision{Status: StatusNotModified}
		}
		return fresh(
			Header{HeaderLastModified, lastModified},
			Header{HeaderCacheControl, "no-cache"},
		)
	case KindETag:
		tag := ETag(res.Content)
		if v.IfNoneMatch != "" && v.IfNoneMatch == tag {
			return Decision{Status: StatusNotModified}
		}
		return fresh(
			Header{HeaderETag, tag},
			Header{HeaderCacheControl, "no-cache"},
		)
	default:
		return fresh(Header{HeaderCacheControl, "no-store"})
	}
}

// FormatHTTPDate 以秒级精度输出 RFC 7231 HTTP-date（GMT）。
func FormatHTTPDate(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

func fresh(headers ...Header) Decision {
	return Decision{Status: StatusFresh, Header: headers}
}
