package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/cache-demo/internal/cachepolicy"
)

// diagnosticsPrefix 保留给 /-/routes、/-/metrics 等诊断接口，演示路由不可占用。
const diagnosticsPrefix = "/-/"

var routeValidator = validator.New()

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if strings.TrimSpace(g.RootDir) == "" {
		return newFieldError("Global.RootDir", "不能为空")
	}
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError("Global.LogLevel", fmt.Sprintf("无法解析: %s", g.LogLevel))
	}
	if g.LogMaxSize < 0 {
		return newFieldError("Global.LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxBackups", "不能为负数")
	}

	if len(c.Routes) == 0 {
		return errors.New("至少需要配置一个 Route")
	}

	seenPaths := map[string]struct{}{}
	for i := range c.Routes {
		route := &c.Routes[i]
		if err := validateRouteShape(*route); err != nil {
			return err
		}
		if strings.ContainsAny(route.Path, " \t") {
			return newFieldError(routeField(route.Path, "Path"), "不允许包含空白")
		}
		if strings.HasPrefix(route.Path, diagnosticsPrefix) {
			return newFieldError(routeField(route.Path, "Path"), "前缀 /-/ 保留给诊断接口")
		}
		if _, exists := seenPaths[route.Path]; exists {
			return newFieldError(routeField(route.Path, "Path"), "重复")
		}
		seenPaths[route.Path] = struct{}{}

		kind, err := cachepolicy.ParseKind(route.Strategy)
		if err != nil {
			return newFieldError(routeField(route.Path, "Strategy"), err.Error())
		}
		route.Strategy = string(kind)

		switch kind {
		case cachepolicy.KindExpires:
			if _, err := route.ExpiresAt(); err != nil {
				return newFieldError(routeField(route.Path, "Expires"), err.Error())
			}
		case cachepolicy.KindMaxAge:
			if route.MaxAge.DurationValue() <= 0 {
				return newFieldError(routeField(route.Path, "MaxAge"), "必须大于 0")
			}
		}
	}

	return nil
}

// validateRouteShape 使用结构体标签检查必填字段，并把第一个错误转换为 FieldError。
func validateRouteShape(route RouteConfig) error {
	err := routeValidator.Struct(route)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return newFieldError(routeField(route.Path, first.Field()), describeTag(first))
	}
	return err
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "startswith":
		return fmt.Sprintf("必须以 %s 开头", fe.Param())
	default:
		return fmt.Sprintf("校验失败: %s", fe.Tag())
	}
}
