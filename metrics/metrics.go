// Package metrics provides Prometheus metrics for the exchange boundary.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wippyai/wasm-exchange/errors"
)

// Collector counts decode fallbacks and guest calls. It implements
// codec.Observer.
type Collector struct {
	fallbacks *prometheus.CounterVec
	calls     *prometheus.CounterVec
}

// New registers the collector's metrics with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		// Documents replaced by their default, by document and error kind.
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wasm_exchange_decode_fallbacks_total",
			Help: "Total number of malformed documents replaced with the default, by document and error kind.",
		}, []string{"document", "kind"}),
		// Guest export invocations, by export and result.
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "wasm_exchange_guest_calls_total",
			Help: "Total number of guest export calls, by export and result (ok/error).",
		}, []string{"export", "result"}),
	}
}

// DecodeFallback implements codec.Observer.
func (c *Collector) DecodeFallback(document string, err error) {
	c.fallbacks.WithLabelValues(document, kindOf(err)).Inc()
}

// ObserveCall records one call into a guest export.
func (c *Collector) ObserveCall(export string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.calls.WithLabelValues(export, result).Inc()
}

func kindOf(err error) string {
	var e *errors.Error
	if errors.As(err, &e) {
		return string(e.Kind)
	}
	return "unknown"
}
