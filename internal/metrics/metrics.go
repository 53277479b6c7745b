package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one registry. A nil *Metrics is valid and
// records nothing, which keeps services usable without instrumentation.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LoginAttempts       *prometheus.CounterVec
	LeadsCaptured       prometheus.Counter
	PlanTransitions     *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		LoginAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_login_attempts_total",
				Help: "Admin login attempts by result",
			},
			[]string{"result"},
		),
		LeadsCaptured: f.NewCounter(prometheus.CounterOpts{
			Name: "crm_leads_captured_total",
			Help: "Leads created through the API",
		}),
		PlanTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_goal_plan_transitions_total",
				Help: "Goal-plan state changes by target state",
			},
			[]string{"state"},
		),
		NotificationsFailed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_notifications_failed_total",
				Help: "Lead notifications that could not be delivered",
			},
			[]string{"channel"},
		),
	}
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) LeadCaptured() {
	if m == nil {
		return
	}
	m.LeadsCaptured.Inc()
}

func (m *Metrics) PlanTransition(state string) {
	if m == nil {
		return
	}
	m.PlanTransitions.WithLabelValues(state).Inc()
}

func (m *Metrics) NotificationFailed(channel string) {
	if m == nil {
		return
	}
	m.NotificationsFailed.WithLabelValues(channel).Inc()
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
