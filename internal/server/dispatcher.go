package server

import (
	"context"
	"errors"
	"path"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/cache-demo/internal/cachepolicy"
	"github.com/any-hub/cache-demo/internal/logging"
	"github.com/any-hub/cache-demo/internal/metrics"
	"github.com/any-hub/cache-demo/internal/resource"
)

// Dispatcher 负责“读取资源 → 缓存判定 → 写出响应”的全流程，
// 每个请求在自己的 goroutine 内同步读取文件，不共享可变状态。
type Dispatcher struct {
	store   resource.Store
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// NewDispatcher constructs a dispatcher with shared store/logger/metrics.
// metrics may be nil.
func NewDispatcher(store resource.Store, logger *logrus.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// Handle 读取路由绑定的文件并根据策略输出 200/304/404；非 ErrNotFound 的读取错误返回 500。
func (d *Dispatcher) Handle(c fiber.Ctx, route *Route) error {
	started := time.Now()

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := d.store.Fetch(ctx, route.File)
	switch {
	case err == nil:
	case errors.Is(err, resource.ErrNotFound):
		res = nil
	default:
		d.metrics.ObserveFault()
		d.logger.WithError(err).
			WithFields(logging.RequestFields(route.Path, route.File, route.Strategy.Kind.String(), "io_fault", fiber.StatusInternalServerError)).
			WithField("request_id", RequestID(c)).
			Error("resource_read_failed")
		return c.Status(fiber.StatusInternalServerError).Send(nil)
	}

	decision := cachepolicy.Evaluate(res, cachepolicy.Validators{
		IfModifiedSince: c.Get(fiber.HeaderIfModifiedSince),
		IfNoneMatch:     c.Get(fiber.HeaderIfNoneMatch),
	}, route.Strategy)

	status := decision.Status.HTTPStatus()
	bodySize := 0
	if decision.HasBody() {
		for _, h := range decision.Header {
			c.Set(h.Name, h.Value)
		}
		if ext := path.Ext(route.File); ext != "" {
			c.Type(ext)
		}
		// HEAD 由 fasthttp 丢弃正文，只统计真正写出的字节。
		if c.Method() != fiber.MethodHead {
			bodySize = len(res.Content)
		}
		err = c.Status(status).Send(res.Content)
	} else {
		err = c.Status(status).Send(nil)
	}

	d.metrics.ObserveDecision(route.Strategy.Kind.String(), decision.Status.String(), bodySize)
	entry := d.logger.WithFields(logging.RequestFields(route.Path, route.File, route.Strategy.Kind.String(), decision.Status.String(), status)).
		WithFields(logrus.Fields{
			"action":      "serve",
			"method":      c.Method(),
			"request_id":  RequestID(c),
			"body_bytes":  bodySize,
			"duration_ms": time.Since(started).Milliseconds(),
		})
	if res != nil {
		entry = entry.WithField("file_path", res.FilePath)
	}
	entry.Info("request served")

	return err
}
