package crate

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xraph/go-utils/errs"
	"github.com/xraph/go-utils/metrics"
)

// Resolution outcomes recorded by MetricsMiddleware.
const (
	OutcomeCreated = "created"
	OutcomeCached  = "cached"
	OutcomeError   = "error"
)

// Metric names, shared by both backends.
const (
	MetricResolutions      = "crate_resolutions_total"
	MetricResolutionErrors = "crate_resolution_errors_total"
	MetricInstancesCreated = "crate_instances_created_total"
)

// MetricsMiddleware records resolver frames to a metrics.Metrics collector,
// to Prometheus, or to both.
type MetricsMiddleware struct {
	collector metrics.Metrics

	resolutions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	instances   prometheus.Counter
}

// NewMetricsMiddleware creates the middleware. Frames are recorded to
// collector when it is non-nil. The Prometheus collectors are always kept
// and registered with reg when reg is non-nil.
func NewMetricsMiddleware(collector metrics.Metrics, reg prometheus.Registerer) (*MetricsMiddleware, error) {
	m := &MetricsMiddleware{
		collector: collector,
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricResolutions,
			Help: "Resolver frames by outcome.",
		}, []string{"outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricResolutionErrors,
			Help: "Failed resolver frames by error code.",
		}, []string{"code"}),
		instances: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricInstancesCreated,
			Help: "Instances built by the resolver.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.resolutions, m.errors, m.instances} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// BeforeResolve implements Middleware.
func (m *MetricsMiddleware) BeforeResolve(ServiceName, int) error {
	return nil
}

// AfterResolve implements Middleware.
func (m *MetricsMiddleware) AfterResolve(event ResolveEvent) error {
	switch {
	case event.Err != nil:
		code := errorCode(event.Err)
		m.resolved(OutcomeError)
		m.errors.WithLabelValues(code).Inc()

		if m.collector != nil {
			m.collector.Counter(MetricResolutionErrors).WithLabels(map[string]string{"code": code}).Inc()
		}
	case event.Cached:
		m.resolved(OutcomeCached)
	default:
		m.resolved(OutcomeCreated)
		m.instances.Inc()

		if m.collector != nil {
			m.collector.Counter(MetricInstancesCreated).Inc()
		}
	}

	return nil
}

func (m *MetricsMiddleware) resolved(outcome string) {
	m.resolutions.WithLabelValues(outcome).Inc()

	if m.collector != nil {
		m.collector.Counter(MetricResolutions).WithLabels(map[string]string{"outcome": outcome}).Inc()
	}
}

// errorCode returns the code of a structured error, "UNKNOWN" otherwise.
func errorCode(err error) string {
	var e *errs.Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}

	return "UNKNOWN"
}
