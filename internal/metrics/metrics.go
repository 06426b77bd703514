// Package metrics 提供变量解析相关的 Prometheus 指标。
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
)

// 解析结果分类，用作 outcome 标签。
const (
	OutcomeOK      = "ok"
	OutcomeMissing = "missing"
	OutcomeCycle   = "cycle"
	OutcomeSource  = "source"
	OutcomeError   = "error"
)

// 来源查询结果，用作 result 标签。
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// Metrics 持有独立的 registry，不污染全局默认 registry。
type Metrics struct {
	registry *prometheus.Registry

	resolves       *prometheus.CounterVec
	resolveSeconds *prometheus.HistogramVec
	lookups        *prometheus.CounterVec
	reloads        *prometheus.CounterVec
}

// New 创建指标集合，namespace 为空时使用 "varres"。
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "varres"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolves_total",
				Help:      "Total number of resolve operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		resolveSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolve_duration_seconds",
				Help:      "Duration of resolve operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"op"},
		),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_lookups_total",
				Help:      "Total number of source lookups by result",
			},
			[]string{"source", "result"},
		),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_reloads_total",
				Help:      "Total number of source reload notifications",
			},
			[]string{"source"},
		),
	}

	m.registry.MustRegister(
		m.resolves,
		m.resolveSeconds,
		m.lookups,
		m.reloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry 返回内部 registry，便于测试读取指标。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 /metrics 端点。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveResolve 记录一次解析操作。
func (m *Metrics) ObserveResolve(op string, err error, dur time.Duration) {
	m.resolves.WithLabelValues(op, Outcome(err)).Inc()
	m.resolveSeconds.WithLabelValues(op).Observe(dur.Seconds())
}

// Outcome 将解析错误归类为 outcome 标签值。
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, varres.ErrMissingVariable):
		return OutcomeMissing
	case errors.Is(err, varres.ErrCircularSubstitution):
		return OutcomeCycle
	case errors.Is(err, varres.ErrSourceLookup):
		return OutcomeSource
	default:
		return OutcomeError
	}
}

// Instrument 包装来源，按 name 统计查询结果。
//
// 被包装来源的初始化与变更通知会原样转发。
func (m *Metrics) Instrument(name string, src varres.Source) varres.Source {
	return &instrumented{name: name, src: src, metrics: m}
}

type instrumented struct {
	name    string
	src     varres.Source
	metrics *Metrics
}

func (s *instrumented) Lookup(name string) (string, bool, error) {
	v, ok, err := s.src.Lookup(name)

	result := LookupMiss
	switch {
	case err != nil:
		result = LookupError
	case ok:
		result = LookupHit
	}
	s.metrics.lookups.WithLabelValues(s.name, result).Inc()

	return v, ok, err
}

func (s *instrumented) Init(r *varres.Resolver) error {
	if initer, ok := s.src.(varres.Initializer); ok {
		return initer.Init(r)
	}

	return nil
}

func (s *instrumented) OnChange(fn func()) {
	n, ok := s.src.(varres.ChangeNotifier)
	if !ok {
		return
	}
	n.OnChange(func() {
		s.metrics.reloads.WithLabelValues(s.name).Inc()
		fn()
	})
}
