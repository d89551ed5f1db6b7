package config

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/any-hub/cache-demo/internal/cachepolicy"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "5s"、"1m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// GlobalConfig 描述全局运行时行为。
type GlobalConfig struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	RootDir       string `mapstructure:"RootDir"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}

// RouteConfig 将一个请求路径绑定到 RootDir 下的文件与缓存策略。
type RouteConfig struct {
	Path     string   `mapstructure:"Path" validate:"required,startswith=/"`
	File     string   `mapstructure:"File" validate:"required"`
	Strategy string   `mapstructure:"Strategy" validate:"required"`
	Expires  string   `mapstructure:"Expires"`
	MaxAge   Duration `mapstructure:"MaxAge"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig  `mapstructure:",squash"`
	Routes []RouteConfig `mapstructure:"Route"`
}

// DefaultExpires 是 expires 示例路由的固定过期时间。
const DefaultExpires = "2030-12-21T23:59:59Z"

// DefaultRoutes 返回内置的演示路由表：首页不缓存，四张图片各演示一种策略。
func DefaultRoutes() []RouteConfig {
	return []RouteConfig{
		{Path: "/", File: "index.html", Strategy: string(cachepolicy.KindNoCache)},
		{Path: "/image/hexobg.png", File: "image/hexobg.png", Strategy: string(cachepolicy.KindExpires), Expires: DefaultExpires},
		{Path: "/image/01.jpg", File: "image/01.jpg", Strategy: string(cachepolicy.KindMaxAge), MaxAge: Duration(5 * time.Second)},
		{Path: "/image/02.jpg", File: "image/02.jpg", Strategy: string(cachepolicy.KindLastModified)},
		{Path: "/image/03.jpg", File: "image/03.jpg", Strategy: string(cachepolicy.KindETag)},
	}
}

// ExpiresAt 解析 Expires 字段，支持 RFC3339 与 HTTP-date 两种写法。
func (r RouteConfig) ExpiresAt() (time.Time, error) {
	raw := strings.TrimSpace(r.Expires)
	if raw == "" {
		return time.Time{}, fmt.Errorf("expires is empty")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := http.ParseTime(raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid expires value: %s", raw)
}

// CacheStrategy 将路由配置转换为策略值（假定 Validate 已经通过）。
func (r RouteConfig) CacheStrategy() (cachepolicy.Strategy, error) {
	kind, err := cachepolicy.ParseKind(r.Strategy)
	if err != nil {
		return cachepolicy.Strategy{}, err
	}
	switch kind {
	case cachepolicy.KindExpires:
		at, err := r.ExpiresAt()
		if err != nil {
			return cachepolicy.Strategy{}, err
		}
		return cachepolicy.AbsoluteExpiry(at), nil
	case cachepolicy.KindMaxAge:
		return cachepolicy.RelativeMaxAge(r.MaxAge.DurationValue()), nil
	default:
		return cachepolicy.Strategy{Kind: kind}, nil
	}
}

// StrategyNames 返回所有路由的策略摘要，例如 /image/01.jpg:max-age，供日志字段使用。
func StrategyNames(routes []RouteConfig) []string {
	if len(routes) == 0 {
		return nil
	}
	result := make([]string, len(routes))
	for i, route := range routes {
		result[i] = fmt.Sprintf("%s:%s", route.Path, route.Strategy)
	}
	return result
}
