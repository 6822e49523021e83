package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/climacrux/cdr-platform/internal/model"
)

const namespace = "cdr"

// Outcome labels shared by the quote and purchase counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics groups the Prometheus collectors for the pricing and purchase flow
// and for HTTP traffic. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Quotes      *prometheus.CounterVec
	Purchases   *prometheus.CounterVec
	RemovalCost *prometheus.CounterVec
	ReqTotal    *prometheus.CounterVec
	ReqDur      *prometheus.HistogramVec
	InFlight    prometheus.Gauge
}

// New registers the collectors on reg, reusing any that are already
// registered. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Basket quotes by requested currency and outcome.",
		}, []string{"currency", "outcome"}),
		Purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Removal purchases by requested currency and outcome.",
		}, []string{"currency", "outcome"}),
		RemovalCost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removal_cost_minor_total",
			Help:      "Removal cost of recorded purchases in minor currency units.",
		}, []string{"currency"}),
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	m.Quotes = register(reg, m.Quotes)
	m.Purchases = register(reg, m.Purchases)
	m.RemovalCost = register(reg, m.RemovalCost)
	m.ReqTotal = register(reg, m.ReqTotal)
	m.ReqDur = register(reg, m.ReqDur)
	m.InFlight = register(reg, m.InFlight)
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}

func (m *Metrics) ObserveQuote(currency model.Currency, outcome string) {
	if m == nil {
		return
	}
	m.Quotes.WithLabelValues(currency.Wire(), outcome).Inc()
}

// ObservePurchase counts a purchase attempt. removalCost is only added for
// successful purchases.
func (m *Metrics) ObservePurchase(currency model.Currency, outcome string, removalCost int64) {
	if m == nil {
		return
	}
	m.Purchases.WithLabelValues(currency.Wire(), outcome).Inc()
	if outcome == OutcomeSuccess && removalCost > 0 {
		m.RemovalCost.WithLabelValues(currency.Wire()).Add(float64(removalCost))
	}
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ReqTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.ReqDur.WithLabelValues(c.Request.Method, route).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	}
}
