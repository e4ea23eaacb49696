package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/wippyai/wasm-exchange/codec"
	wxerrors "github.com/wippyai/wasm-exchange/errors"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCollector_DecodeFallback(t *testing.T) {
	c := New(prometheus.NewRegistry())

	var obs codec.Observer = c
	obs.DecodeFallback(codec.DocumentConfig, wxerrors.FieldMissing(wxerrors.PhaseDecode, nil, "params"))
	obs.DecodeFallback(codec.DocumentConfig, wxerrors.FieldMissing(wxerrors.PhaseDecode, nil, "params"))
	obs.DecodeFallback(codec.DocumentFormat, errors.New("plain"))

	if got := counterValue(t, c.fallbacks, codec.DocumentConfig, string(wxerrors.KindFieldMissing)); got != 2 {
		t.Errorf("config/field_missing = %v, want 2", got)
	}
	if got := counterValue(t, c.fallbacks, codec.DocumentFormat, "unknown"); got != 1 {
		t.Errorf("format/unknown = %v, want 1", got)
	}
}

func TestCollector_ObserveCall(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.ObserveCall("render", nil)
	c.ObserveCall("render", nil)
	c.ObserveCall("render", errors.New("trap"))

	if got := counterValue(t, c.calls, "render", "ok"); got != 2 {
		t.Errorf("render/ok = %v, want 2", got)
	}
	if got := counterValue(t, c.calls, "render", "error"); got != 1 {
		t.Errorf("render/error = %v, want 1", got)
	}
}

func TestCollector_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	New(reg)
}
