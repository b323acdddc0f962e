// Package metrics exposes Prometheus instrumentation for the document
// engine and the session server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/specialistvlad/propgraph/internal/docmodel"
)

const namespace = "propgraph"

// Metrics holds every collector. It implements docmodel.Observer.
type Metrics struct {
	propsCalculated *prometheus.CounterVec
	invertFailures  *prometheus.CounterVec
	leavesWritten   prometheus.Counter
	actions         *prometheus.CounterVec
	actionDuration  *prometheus.HistogramVec
	sessions        prometheus.Gauge
}

var _ docmodel.Observer = (*Metrics)(nil)

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Labels: component_type, changed (true, false)
		propsCalculated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "props_calculated_total",
			Help:      "Prop recalculations by component type and whether the value changed",
		}, []string{"component_type", "changed"}),

		invertFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "invert_failures_total",
			Help:      "Requested prop values that could not be inverted",
		}, []string{"component_type", "prop"}),

		leavesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "leaves_written_total",
			Help:      "State and text leaves written by actions",
		}),

		// Labels: action, status (ok, error)
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "actions_total",
			Help:      "Dispatched actions by name and outcome",
		}, []string{"action", "status"}),

		actionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "action_duration_seconds",
			Help:      "Time to settle an action and render its updates",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"action"}),

		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of open sessions",
		}),
	}
}

// PropCalculated implements docmodel.Observer.
func (m *Metrics) PropCalculated(componentType, _ string, changed bool) {
	m.propsCalculated.WithLabelValues(componentType, strconv.FormatBool(changed)).Inc()
}

// InvertFailed implements docmodel.Observer.
func (m *Metrics) InvertFailed(componentType, prop string, _ error) {
	m.invertFailures.WithLabelValues(componentType, prop).Inc()
}

// LeavesWritten implements docmodel.Observer.
func (m *Metrics) LeavesWritten(n int) {
	m.leavesWritten.Add(float64(n))
}

// ObserveAction records one settled or failed action.
func (m *Metrics) ObserveAction(action string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.actions.WithLabelValues(action, status).Inc()
	m.actionDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// SessionOpened increments the open session gauge.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed decrements the open session gauge.
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
