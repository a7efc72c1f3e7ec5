package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters/histograms for the API and the chart flow.
type ClinicMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	toothUpdates   *prometheus.CounterVec
	ledgerEntries  prometheus.Counter
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		toothUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "odontogram",
			Name:      "tooth_updates_total",
			Help:      "Total tooth chart updates by resulting status",
		}, []string{"status", "billed"}),
		ledgerEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "odontogram",
			Name:      "ledger_entries_total",
			Help:      "Total pending income entries created from the chart",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestLatency, m.toothUpdates, m.ledgerEntries)
	return m
}

func (m *ClinicMetrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(seconds)
}

func (m *ClinicMetrics) ObserveToothUpdate(status string, billed bool) {
	if m == nil {
		return
	}
	label := "false"
	if billed {
		label = "true"
	}
	m.toothUpdates.WithLabelValues(status, label).Inc()
	if billed {
		m.ledgerEntries.Inc()
	}
}
