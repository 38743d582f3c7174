package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the service.
type Metrics struct {
	InquiriesSubmitted *prometheus.CounterVec
	ReferralLookups    *prometheus.CounterVec
	Logins             *prometheus.CounterVec
	EmailsSent         *prometheus.CounterVec
	DashboardLatency   *prometheus.HistogramVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			InquiriesSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inquiries_submitted_total",
				Help:      "Total inquiry submissions by outcome (created, merged, error).",
			}, []string{"outcome"}),
			ReferralLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "referral_lookups_total",
				Help:      "Total referral key validations by result.",
			}, []string{"result"}),
			Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Total login attempts by status.",
			}, []string{"status"}),
			EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emails_sent_total",
				Help:      "Total transactional emails by status.",
			}, []string{"status"}),
			DashboardLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "agent_dashboard_duration_seconds",
				Help:      "Latency distribution for agent dashboard computation.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"status"}),
		}

		prometheus.MustRegister(
			metricsInstance.InquiriesSubmitted,
			metricsInstance.ReferralLookups,
			metricsInstance.Logins,
			metricsInstance.EmailsSent,
			metricsInstance.DashboardLatency,
		)
	})
	return metricsInstance
}
