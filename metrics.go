package di

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics contains the collectors registered with WithMetrics.
// A nil *metrics records nothing.
type metrics struct {
	createdTotal     *prometheus.CounterVec
	failuresTotal    *prometheus.CounterVec
	unavailableTotal prometheus.Counter
	invocationsTotal *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "di",
			Name:      "components_created_total",
			Help:      "Number of objects built, by scope.",
		}, []string{"scope"}),
		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "di",
			Name:      "component_creation_failures_total",
			Help:      "Number of Build functions that returned an error or panicked, by scope.",
		}, []string{"scope"}),
		unavailableTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "di",
			Name:      "components_unavailable_total",
			Help:      "Number of resolutions rejected by a condition.",
		}),
		invocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "di",
			Name:      "invocations_total",
			Help:      "Number of method calls through a proxy.",
		}, []string{"component", "method"}),
	}

	for _, c := range []prometheus.Collector{
		m.createdTotal, m.failuresTotal, m.unavailableTotal, m.invocationsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *metrics) created(scope string) {
	if m != nil {
		m.createdTotal.WithLabelValues(scope).Inc()
	}
}

func (m *metrics) creationFailed(scope string) {
	if m != nil {
		m.failuresTotal.WithLabelValues(scope).Inc()
	}
}

func (m *metrics) unavailable() {
	if m != nil {
		m.unavailableTotal.Inc()
	}
}

func (m *metrics) invoked(component, method string) {
	if m != nil {
		m.invocationsTotal.WithLabelValues(component, method).Inc()
	}
}
