package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RouteHandler serves a request that matched an entry of the route table. It
// allows injecting fake handlers during tests.
type RouteHandler interface {
	Handle(fiber.Ctx, *Route) error
}

// RouteHandlerFunc adapts a function to the RouteHandler interface.
type RouteHandlerFunc func(fiber.Ctx, *Route) error

// Handle makes RouteHandlerFunc satisfy RouteHandler.
func (f RouteHandlerFunc) Handle(c fiber.Ctx, route *Route) error {
	return f(c, route)
}

// AppOptions controls how the Fiber application should behave.
type AppOptions struct {
	Logger     *logrus.Logger
	Table      *RouteTable
	Handler    RouteHandler
	ListenPort int
}

const (
	contextKeyRoute     = "_cachedemo_route"
	contextKeyRequestID = "_cachedemo_request_id"
)

// NewApp builds a Fiber application with request-id and route lookup
// middleware. Unknown paths and transport errors produce empty bodies.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Table == nil {
		return nil, errors.New("route table is required")
	}
	if opts.Handler == nil {
		return nil, errors.New("route handler is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		ErrorHandler:  emptyBodyErrorHandler(opts.Logger),
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts))

	app.All("/*", func(c fiber.Ctx) error {
		if isDiagnosticsPath(requestPath(c)) {
			return c.Next()
		}
		route, _ := getRouteFromContext(c)
		if route == nil {
			return renderNotFound(c, opts.Logger)
		}
		if c.Method() != fiber.MethodGet && c.Method() != fiber.MethodHead {
			c.Set(fiber.HeaderAllow, "GET, HEAD")
			return c.Status(fiber.StatusMethodNotAllowed).Send(nil)
		}
		return opts.Handler.Handle(c, route)
	})

	return app, nil
}

// requestContextMiddleware 负责生成请求 ID，并按请求路径查找 Route。
func requestContextMiddleware(opts AppOptions) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		path := requestPath(c)
		if isDiagnosticsPath(path) {
			return c.Next()
		}

		if route, ok := opts.Table.Lookup(path); ok {
			c.Locals(contextKeyRoute, route)
		}
		return c.Next()
	}
}

func renderNotFound(c fiber.Ctx, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"action":     "route_lookup",
		"path":       requestPath(c),
		"method":     c.Method(),
		"request_id": RequestID(c),
	}).Debug("route unmapped")

	return c.Status(fiber.StatusNotFound).Send(nil)
}

// emptyBodyErrorHandler 替换 Fiber 默认的文本错误页：只保留状态码，正文为空。
func emptyBodyErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"action":     "request_error",
				"path":       requestPath(c),
				"request_id": RequestID(c),
			}).Error("request failed")
		}
		return c.Status(code).Send(nil)
	}
}

func requestPath(c fiber.Ctx) string {
	return string(c.Request().URI().Path())
}

func getRouteFromContext(c fiber.Ctx) (*Route, bool) {
	if value := c.Locals(contextKeyRoute); value != nil {
		if route, ok := value.(*Route); ok {
			return route, true
		}
	}
	return nil, false
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
