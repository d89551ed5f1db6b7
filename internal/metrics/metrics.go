package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 汇总缓存判定相关的 Prometheus 指标，每个实例持有独立的 Registry。
type Metrics struct {
	Requests         *prometheus.CounterVec
	StoreFaults      prometheus.Counter
	ResponseBodySize prometheus.Histogram

	registry *prometheus.Registry
}

// New 创建指标集合，并注册 Go 运行时与进程采集器。
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_demo_requests_total",
			Help: "Requests served, by cache strategy and decision",
		}, []string{"strategy", "decision"}),
		StoreFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_demo_store_faults_total",
			Help: "Resource reads that failed with an I/O error other than not found",
		}),
		ResponseBodySize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_demo_response_body_bytes",
			Help:    "Size of response bodies written for fresh decisions",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}),
		registry: reg,
	}
	reg.MustRegister(
		m.Requests,
		m.StoreFaults,
		m.ResponseBodySize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveDecision 记录一次判定；bodySize 仅在写出正文时累计。
func (m *Metrics) ObserveDecision(strategy, decision string, bodySize int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(strategy, decision).Inc()
	if bodySize > 0 {
		m.ResponseBodySize.Observe(float64(bodySize))
	}
}

// ObserveFault 记录一次资源读取故障。
func (m *Metrics) ObserveFault() {
	if m == nil {
		return
	}
	m.StoreFaults.Inc()
}

// Handler 暴露 Prometheus 文本格式。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
