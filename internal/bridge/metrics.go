package bridge

import (
	stderrors "errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "sodiumbridge"

type metrics struct {
	reg      prometheus.Registerer
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	busy     prometheus.Collector
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		reg: reg,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invocations_total",
			Help:      "Invocations by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "invocation_duration_seconds",
			Help:      "Invocation latency by operation.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"op"}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.calls, err = register(reg, m.calls); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if stderrors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// trackBusy exports the number of busy workers. The gauge reads from the
// newest bridge sharing the registry.
func (m *metrics) trackBusy(running func() int) error {
	if m.reg == nil {
		return nil
	}
	busy := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "workers_busy",
		Help:      "Workers currently running an invocation.",
	}, func() float64 { return float64(running()) })
	if err := m.reg.Register(busy); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !stderrors.As(err, &are) {
			return err
		}
		m.reg.Unregister(are.ExistingCollector)
		if err := m.reg.Register(busy); err != nil {
			return err
		}
	}
	m.busy = busy
	return nil
}

func (m *metrics) close() {
	if m.reg != nil && m.busy != nil {
		m.reg.Unregister(m.busy)
	}
}

func (m *metrics) observe(op, outcome string, elapsed time.Duration) {
	m.calls.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
