package routes

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"github.com/any-hub/cache-demo/internal/cachepolicy"
	"github.com/any-hub/cache-demo/internal/metrics"
	"github.com/any-hub/cache-demo/internal/server"
)

// RegisterDiagnosticsRoutes 暴露 /-/routes 与 /-/metrics 诊断接口。m 为 nil 时不注册指标端点。
func RegisterDiagnosticsRoutes(app *fiber.App, table *server.RouteTable, m *metrics.Metrics) {
	if app == nil || table == nil {
		return
	}

	app.Get("/-/routes", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"routes": encodeRoutes(table.List()),
		})
	})

	if m != nil {
		app.Get("/-/metrics", adaptor.HTTPHandler(m.Handler()))
	}
}

type routePayload struct {
	Path          string `json:"path"`
	File          string `json:"file"`
	Strategy      string `json:"strategy"`
	Summary       string `json:"summary"`
	Validates     bool   `json:"validates"`
	Expires       string `json:"expires,omitempty"`
	MaxAgeSeconds int64  `json:"max_age_seconds,omitempty"`

	// Configured 原样回显配置文件中的写法，便于核对解析结果。
	Configured configuredPayload `json:"configured"`
}

type configuredPayload struct {
	Strategy string `json:"strategy"`
	Expires  string `json:"expires,omitempty"`
	MaxAge   string `json:"max_age,omitempty"`
}

func encodeRoutes(routes []server.Route) []routePayload {
	if len(routes) == 0 {
		return nil
	}
	result := make([]routePayload, 0, len(routes))
	for _, route := range routes {
		result = append(result, encodeRoute(route))
	}
	return result
}

func encodeRoute(route server.Route) routePayload {
	strategy := route.Strategy
	payload := routePayload{
		Path:      route.Path,
		File:      route.File,
		Strategy:  strategy.Kind.String(),
		Summary:   strategy.Describe(),
		Validates: strategy.Kind.Validates(),
	}
	payload.Configured = configuredPayload{
		Strategy: route.Config.Strategy,
		Expires:  route.Config.Expires,
	}
	if raw := route.Config.MaxAge.DurationValue(); raw > 0 {
		payload.Configured.MaxAge = raw.String()
	}
	switch strategy.Kind {
	case cachepolicy.KindExpires:
		payload.Expires = cachepolicy.FormatHTTPDate(strategy.Expires)
	case cachepolicy.KindMaxAge:
		payload.MaxAgeSeconds = int64(strategy.MaxAge / time.Second)
	}
	return payload
}
