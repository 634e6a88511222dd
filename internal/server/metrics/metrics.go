// Package metrics exposes the service's Prometheus instruments. A nil
// *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "userauth"

	resultLabel = "result"
	reasonLabel = "reason"
)

// Label values.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultError    = "error"
	ReasonLogout   = "logout"
	ReasonDeletion = "account_deletion"
)

type Collector struct {
	registry *prometheus.Registry

	logins        *prometheus.CounterVec
	verifications *prometheus.CounterVec
	revocations   *prometheus.CounterVec
	usersCreated  prometheus.Counter
	httpDuration  *prometheus.HistogramVec
}

// New builds a Collector on its own registry, including the Go runtime and
// process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result",
		}, []string{resultLabel}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_verifications_total",
			Help:      "Access token verifications by result",
		}, []string{resultLabel}),
		revocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_revoked_total",
			Help:      "Tokens added to the revocation list, by reason",
		}, []string{reasonLabel}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Number of registered users",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request latency by method, route and status code",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}

	c.registry.MustRegister(
		c.logins, c.verifications, c.revocations, c.usersCreated, c.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) LoginAttempt(result string) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) TokenVerification(result string) {
	if c == nil {
		return
	}
	c.verifications.WithLabelValues(result).Inc()
}

func (c *Collector) TokenRevoked(reason string) {
	if c == nil {
		return
	}
	c.revocations.WithLabelValues(reason).Inc()
}

func (c *Collector) UserCreated() {
	if c == nil {
		return
	}
	c.usersCreated.Inc()
}

func (c *Collector) ObserveHTTP(method, route string, code int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
