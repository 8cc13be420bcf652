package telemetry

import (
	"github.com/modaworks/clothestore/internal/infrastructure/observability/prometrics"
	"github.com/modaworks/clothestore/internal/observability"
)

type provider struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics *instrumentSet
}

// New assembles an Observability provider from a tracer, a logger and a
// prometheus registry. The known instruments are registered up front so a
// typo'd metric key surfaces as a nop, not a panic at record time.
func New(tracer observability.Tracer, logger observability.Logger, reg prometrics.Registry) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	set := &instrumentSet{
		counters:   map[observability.MetricKey]observability.Counter{},
		histograms: map[observability.MetricKey]observability.Histogram{},
	}
	if reg != nil {
		set.counters[observability.MUsecaseRequests] = reg.Counter(
			string(observability.MUsecaseRequests),
			"Total number of use case invocations.",
			"use_case", "outcome",
		)
		set.histograms[observability.MUsecaseDuration] = reg.Histogram(
			string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.",
			nil,
			"use_case",
		)
		set.counters[observability.MExternalRequests] = reg.Counter(
			string(observability.MExternalRequests),
			"Total number of calls to external peers.",
			"peer", "endpoint", "outcome",
		)
		set.histograms[observability.MExternalRequestDuration] = reg.Histogram(
			string(observability.MExternalRequestDuration),
			"Duration of external peer calls in seconds.",
			nil,
			"peer", "endpoint",
		)
		set.counters[observability.MHTTPRequests] = reg.Counter(
			string(observability.MHTTPRequests),
			"Total number of HTTP requests served.",
			"method", "path", "status",
		)
		set.histograms[observability.MHTTPRequestDuration] = reg.Histogram(
			string(observability.MHTTPRequestDuration),
			"Duration of HTTP request handling in seconds.",
			nil,
			"method", "path",
		)
	}

	return &provider{tracer: tracer, logger: logger, metrics: set}
}

func (p *provider) Tracer() observability.Tracer   { return p.tracer }
func (p *provider) Logger() observability.Logger   { return p.logger }
func (p *provider) Metrics() observability.Metrics { return p.metrics }

type instrumentSet struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (s *instrumentSet) Counter(name observability.MetricKey) observability.Counter {
	if c, ok := s.counters[name]; ok {
		return c
	}
	return observability.NopMetrics().Counter(name)
}

func (s *instrumentSet) Histogram(name observability.MetricKey) observability.Histogram {
	if h, ok := s.histograms[name]; ok {
		return h
	}
	return observability.NopMetrics().Histogram(name)
}
