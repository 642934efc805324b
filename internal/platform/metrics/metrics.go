package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	UsersRegistered prometheus.Counter
	Logins          *prometheus.CounterVec
	Logouts         prometheus.Counter
	AuthRejections  *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
}

// NewWithRegisterer registers collectors on reg. main passes its own registry;
// tests pass a fresh one so repeated construction does not panic on duplicate
// registration.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "stellariq_users_registered_total",
			Help: "Total number of user accounts registered",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stellariq_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		Logouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "stellariq_logouts_total",
			Help: "Total number of logout acknowledgements",
		}),
		AuthRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stellariq_auth_rejections_total",
			Help: "Requests rejected by the session middleware, by reason",
		}, []string{"reason"}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stellariq_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// IncrementUsersRegistered increments the registration counter by 1.
func (m *Metrics) IncrementUsersRegistered() {
	m.UsersRegistered.Inc()
}

// ObserveLogin records a login attempt outcome ("success", "invalid_credentials", "locked").
func (m *Metrics) ObserveLogin(result string) {
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementLogouts() {
	m.Logouts.Inc()
}

// IncrementAuthRejection records a middleware rejection reason.
func (m *Metrics) IncrementAuthRejection(reason string) {
	m.AuthRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	m.RequestLatency.WithLabelValues(method, route, status).Observe(seconds)
}
