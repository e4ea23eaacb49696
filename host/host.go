package host

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	wasmexchange "github.com/wippyai/wasm-exchange"
	"github.com/wippyai/wasm-exchange/boundary"
	"github.com/wippyai/wasm-exchange/codec"
	"github.com/wippyai/wasm-exchange/errors"
	"github.com/wippyai/wasm-exchange/metrics"
	"github.com/wippyai/wasm-exchange/schema"
)

// Config holds configuration for host creation
type Config struct {
	// Observer is notified when a returned document is replaced by its
	// default. Ignored when Strict is set.
	Observer codec.Observer

	// Metrics, when set, counts guest calls and decode fallbacks.
	Metrics *metrics.Collector

	// Logger overrides the package logger.
	Logger *zap.Logger

	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// Strict makes CurrentConfig and Render fail on malformed documents
	// instead of returning the default.
	Strict bool
}

// Host is a loaded guest. Calls are serialized; a Host is safe for
// concurrent use.
type Host struct {
	runtime   wazero.Runtime
	mem       wasmexchange.Memory
	alloc     api.Function
	dealloc   api.Function
	setConfig api.Function
	getConfig api.Function
	render    api.Function
	diag      api.Function
	configs   *codec.Decoder[schema.ExchangeableConfig]
	frames    *codec.Decoder[schema.ExchangeFormat]
	metrics   *metrics.Collector
	logger    *zap.Logger
	strict    bool
	mu        sync.Mutex
}

// New compiles and instantiates wasm. A nil cfg uses defaults.
func New(ctx context.Context, wasm []byte, cfg *Config) (*Host, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	h, err := instantiate(ctx, r, wasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, err
	}

	var observers codec.Observers
	if cfg.Observer != nil {
		observers = append(observers, cfg.Observer)
	}
	if cfg.Metrics != nil {
		observers = append(observers, cfg.Metrics)
	}
	h.configs = codec.NewDecoder[schema.ExchangeableConfig](codec.WithObserver(observers), codec.WithLogger(log))
	h.frames = codec.NewDecoder[schema.ExchangeFormat](codec.WithObserver(observers), codec.WithLogger(log))
	h.metrics = cfg.Metrics
	h.logger = log
	h.strict = cfg.Strict

	log.Debug("guest instantiated",
		zap.Uint32("memory_bytes", h.mem.Size()),
		zap.Bool("strict", h.strict),
	)
	return h, nil
}

func instantiate(ctx context.Context, r wazero.Runtime, wasm []byte) (*Host, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return nil, errors.Instantiation(err)
	}

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile guest", err)
	}

	// Reactors must not run _start; _initialize is called explicitly below.
	modCfg := wazero.NewModuleConfig().WithName("guest").WithStartFunctions()
	mod, err := r.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	if initFn := mod.ExportedFunction(boundary.ExportInitialize); initFn != nil {
		if _, err := initFn.Call(ctx); err != nil {
			return nil, errors.Call(boundary.ExportInitialize, err)
		}
	}

	for _, name := range boundary.RequiredExports {
		if mod.ExportedFunction(name) == nil {
			return nil, errors.NotFound(errors.PhaseLoad, "export", name)
		}
	}
	mem := WrapMemory(mod.ExportedMemory(boundary.ExportMemory))
	if mem == nil {
		return nil, errors.NotFound(errors.PhaseLoad, "export", boundary.ExportMemory)
	}

	return &Host{
		runtime:   r,
		mem:       mem,
		alloc:     mod.ExportedFunction(boundary.ExportAlloc),
		dealloc:   mod.ExportedFunction(boundary.ExportDealloc),
		setConfig: mod.ExportedFunction(boundary.ExportSetCurrentConfig),
		getConfig: mod.ExportedFunction(boundary.ExportGetCurrentConfig),
		render:    mod.ExportedFunction(boundary.ExportRender),
		diag:      mod.ExportedFunction(boundary.ExportDiagnostics),
	}, nil
}

// SetConfig delivers cfg to the guest. Ownership of the buffer passes to
// the guest once set_current_config is called.
func (h *Host) SetConfig(ctx context.Context, cfg schema.ExchangeableConfig) error {
	data, err := codec.Encode(cfg)
	if err != nil {
		return err
	}
	text, err := boundary.CString(data)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	buf, err := boundary.Allocate(h.allocator(ctx), uint32(len(text)))
	if err != nil {
		return err
	}
	if err := buf.Write(h.mem, text); err != nil {
		if relErr := buf.Release(); relErr != nil {
			h.logger.Warn("release after failed write", zap.Error(relErr))
		}
		return err
	}
	ptr, err := buf.Transfer()
	if err != nil {
		return err
	}
	_, err = h.call(ctx, boundary.ExportSetCurrentConfig, h.setConfig, uint64(ptr))
	if err != nil {
		return err
	}
	h.logger.Debug("config delivered",
		zap.Object("config", cfg),
		zap.Int("bytes", len(text)),
	)
	return nil
}

// CurrentConfig fetches the guest's active configuration.
func (h *Host) CurrentConfig(ctx context.Context) (schema.ExchangeableConfig, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.fetch(ctx, boundary.ExportGetCurrentConfig, h.getConfig)
	if err != nil {
		return schema.ExchangeableConfig{}, err
	}
	if h.strict {
		return codec.DecodeStrict[schema.ExchangeableConfig](data)
	}
	return h.configs.Decode(data), nil
}

// Render asks the guest for its current frame.
func (h *Host) Render(ctx context.Context) (schema.ExchangeFormat, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.fetch(ctx, boundary.ExportRender, h.render)
	if err != nil {
		return schema.ExchangeFormat{}, err
	}
	if h.strict {
		return codec.DecodeStrict[schema.ExchangeFormat](data)
	}
	frame := h.frames.Decode(data)
	h.logger.Debug("frame rendered", zap.Object("frame", frame))
	return frame, nil
}

// Diagnostics fetches the guest's report. It is the only way to see that
// the guest reset a configuration it could not decode; CurrentConfig just
// returns the default afterwards.
func (h *Host) Diagnostics(ctx context.Context) (boundary.Report, error) {
	if h.diag == nil {
		return boundary.Report{}, errors.NotFound(errors.PhaseRuntime, "export", boundary.ExportDiagnostics)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.fetch(ctx, boundary.ExportDiagnostics, h.diag)
	if err != nil {
		return boundary.Report{}, err
	}
	var r boundary.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return boundary.Report{}, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "decode diagnostics")
	}
	if r.Fallbacks > 0 {
		h.logger.Debug("guest reports rejected configurations",
			zap.Uint64("fallbacks", r.Fallbacks),
			zap.String("last_error", r.LastError),
		)
	}
	return r, nil
}

// Close releases the guest and the runtime.
func (h *Host) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runtime.Close(ctx)
}

func (h *Host) allocator(ctx context.Context) wasmexchange.Allocator {
	return &Allocator{Ctx: ctx, AllocFn: h.alloc, DeallocFn: h.dealloc}
}

// fetch calls an export returning an owned C string, copies the text and
// returns the buffer through dealloc.
func (h *Host) fetch(ctx context.Context, name string, fn api.Function) ([]byte, error) {
	ptr, err := h.call(ctx, name, fn)
	if err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, errors.New(errors.PhaseBoundary, errors.KindInvalidData).
			Detail("%s returned a null pointer", name).
			Build()
	}

	buf := boundary.Adopt(h.allocator(ctx), ptr, 0)
	data, err := buf.ReadCString(h.mem)
	if relErr := buf.Release(); relErr != nil {
		if err == nil {
			return nil, relErr
		}
		h.logger.Warn("release after failed read", zap.String("export", name), zap.Error(relErr))
	}
	return data, err
}

func (h *Host) call(ctx context.Context, name string, fn api.Function, params ...uint64) (uint32, error) {
	results, err := fn.Call(ctx, params...)
	if h.metrics != nil {
		h.metrics.ObserveCall(name, err)
	}
	if err != nil {
		return 0, errors.Call(name, err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return uint32(results[0]), nil
}
