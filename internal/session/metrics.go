package session

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pipeline activity. A nil *Metrics records nothing.
type Metrics struct {
	renewals          *prometheus.CounterVec
	renewalDuration   prometheus.Histogram
	renewalInProgress prometheus.Gauge
	waiters           prometheus.Counter
	replays           prometheus.Counter
	terminations      *prometheus.CounterVec
}

// NewMetrics creates the pipeline collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renewals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "session",
			Name:      "renewals_total",
			Help:      "Credential renewal calls by result.",
		}, []string{"result"}),
		renewalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rollcall",
			Subsystem: "session",
			Name:      "renewal_duration_seconds",
			Help:      "Duration of credential renewal calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		renewalInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rollcall",
			Subsystem: "session",
			Name:      "renewal_in_progress",
			Help:      "1 while a credential renewal is in flight.",
		}),
		waiters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "session",
			Name:      "renewal_waiters_total",
			Help:      "Requests that joined an in-flight renewal instead of starting one.",
		}),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "session",
			Name:      "replays_total",
			Help:      "Requests replayed after a successful renewal.",
		}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "session",
			Name:      "terminations_total",
			Help:      "Forced session terminations by reason.",
		}, []string{"reason"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.renewals,
			m.renewalDuration,
			m.renewalInProgress,
			m.waiters,
			m.replays,
			m.terminations,
		)
	}
	return m
}

func (m *Metrics) renewalStarted() {
	if m == nil {
		return
	}
	m.renewalInProgress.Set(1)
}

func (m *Metrics) renewalFinished(start time.Time, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.renewals.WithLabelValues(result).Inc()
	m.renewalDuration.Observe(time.Since(start).Seconds())
	m.renewalInProgress.Set(0)
}

func (m *Metrics) waiterJoined() {
	if m == nil {
		return
	}
	m.waiters.Inc()
}

func (m *Metrics) replayed() {
	if m == nil {
		return
	}
	m.replays.Inc()
}

func (m *Metrics) terminated(reason Reason) {
	if m == nil {
		return
	}
	m.terminations.WithLabelValues(string(reason)).Inc()
}
