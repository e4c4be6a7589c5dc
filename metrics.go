package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for login and access metrics.
const (
	ResultSuccess = "success"
	ResultGranted = "granted"
)

// LoginAttempts counts login calls by outcome. Failed outcomes use the ErrorKind value.
// Use RegisterMetrics to register this with a Prometheus registry.
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authentik_login_attempts_total",
		Help: "Total number of login attempts",
	},
	[]string{"result"},
)

// LoginDuration is the histogram for login duration, signing included.
var LoginDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "authentik_login_duration_seconds",
		Help:    "Login duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"result"},
)

// AccessDecisions counts access guard decisions by outcome.
var AccessDecisions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authentik_access_decisions_total",
		Help: "Total number of access guard decisions",
	},
	[]string{"result"},
)

// RegisterMetrics registers package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(LoginDuration)
	reg.MustRegister(AccessDecisions)
}

// RecordLogin records the outcome and duration of a login call.
func RecordLogin(result string, duration time.Duration) {
	LoginAttempts.WithLabelValues(result).Inc()
	LoginDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordAccessDecision increments the access decision counter.
func RecordAccessDecision(result string) {
	AccessDecisions.WithLabelValues(result).Inc()
}

func resultLabel(err error, success string) string {
	if err == nil {
		return success
	}
	return string(KindOf(err))
}
