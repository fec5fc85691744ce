// Package metrics exposes application-level rating counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// Module provides the metrics registry and instruments.
var Module = fx.Module("observability.metrics",
	fx.Provide(NewRegistry),
	fx.Provide(New),
)

// Metrics counts rating outcomes and degraded-mode data loads.
type Metrics struct {
	quotesGenerated *prometheus.CounterVec
	quotesDeclined  *prometheus.CounterVec
	refdataFallback *prometheus.CounterVec
	vinDecodeFailed prometheus.Counter
}

// NewRegistry returns a registry pre-loaded with process and Go collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// New registers the rating instruments on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		quotesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "covara_quotes_generated_total",
			Help: "Quotes generated, labelled by pricing method.",
		}, []string{"pricing_method"}),
		quotesDeclined: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "covara_quotes_declined_total",
			Help: "Rating requests declined, labelled by reason.",
		}, []string{"reason"}),
		refdataFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "covara_refdata_fallback_total",
			Help: "Reference table loads served from hardcoded fallbacks.",
		}, []string{"table"}),
		vinDecodeFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "covara_vin_decode_failures_total",
			Help: "VIN decode attempts that fell back to caller-supplied fields.",
		}),
	}
	reg.MustRegister(m.quotesGenerated, m.quotesDeclined, m.refdataFallback, m.vinDecodeFailed)
	return m
}

// QuoteGenerated records a priced quote. Nil receivers are no-ops so
// components can run without metrics wired.
func (m *Metrics) QuoteGenerated(pricingMethod string) {
	if m == nil {
		return
	}
	m.quotesGenerated.WithLabelValues(pricingMethod).Inc()
}

// QuoteDeclined records a declined rating request.
func (m *Metrics) QuoteDeclined(reason string) {
	if m == nil {
		return
	}
	m.quotesDeclined.WithLabelValues(reason).Inc()
}

// RefdataFallback records a table load served from hardcoded defaults.
func (m *Metrics) RefdataFallback(table string) {
	if m == nil {
		return
	}
	m.refdataFallback.WithLabelValues(table).Inc()
}

// VINDecodeFailed records a soft-failed VIN decode.
func (m *Metrics) VINDecodeFailed() {
	if m == nil {
		return
	}
	m.vinDecodeFailed.Inc()
}
