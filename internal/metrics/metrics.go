package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "penquan_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	smsSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "penquan_sms_sends_total",
		Help: "Number of verification-code send attempts grouped by status.",
	}, []string{"status"})

	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "penquan_upstream_requests_total",
		Help: "Outbound backend calls grouped by resource and outcome.",
	}, []string{"resource", "outcome"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "penquan_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncSMS increments the verification-code send counter.
func IncSMS(status string) {
	smsSends.WithLabelValues(status).Inc()
}

// IncUpstream increments the outbound request counter.
func IncUpstream(resource, outcome string) {
	upstreamRequests.WithLabelValues(resource, outcome).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
