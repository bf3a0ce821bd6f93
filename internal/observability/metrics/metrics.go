package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for webhook ingestion.
type IntakeMetrics struct {
	receivedTotal  *prometheus.CounterVec
	rejectedTotal  *prometheus.CounterVec
	processedTotal *prometheus.CounterVec
	webhookLatency prometheus.Histogram
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		receivedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "webhook",
			Name:      "received_total",
			Help:      "Total inbound provider webhooks",
		}, []string{"kind"}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "webhook",
			Name:      "rejected_total",
			Help:      "Webhooks rejected before extraction",
		}, []string{"reason"}),
		processedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Subsystem: "submissions",
			Name:      "processed_total",
			Help:      "Submissions written, by status and emergency flag",
		}, []string{"status", "emergency"}),
		webhookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intake",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of webhook processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.receivedTotal, m.rejectedTotal, m.processedTotal, m.webhookLatency)
	return m
}

func (m *IntakeMetrics) ObserveReceived(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.receivedTotal.WithLabelValues(kind).Inc()
}

func (m *IntakeMetrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

func (m *IntakeMetrics) ObserveProcessed(status string, emergency bool) {
	if m == nil {
		return
	}
	label := "false"
	if emergency {
		label = "true"
	}
	m.processedTotal.WithLabelValues(status, label).Inc()
}

func (m *IntakeMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.Observe(seconds)
}
