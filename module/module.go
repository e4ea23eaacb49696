// Package module implements the guest side of the boundary.
//
// A Module bundles the configuration store, the allocation arena and the
// application renderer. Its methods map one to one onto the guest exports;
// cmd/module wires them to //go:wasmexport functions. Keeping the logic
// here lets it run and be tested on any platform.
package module

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-exchange/boundary"
	"github.com/wippyai/wasm-exchange/codec"
	"github.com/wippyai/wasm-exchange/errors"
	"github.com/wippyai/wasm-exchange/schema"
	"github.com/wippyai/wasm-exchange/store"
)

// Renderer turns a configuration snapshot into a frame.
type Renderer interface {
	Render(cfg schema.ExchangeableConfig) schema.ExchangeFormat
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(cfg schema.ExchangeableConfig) schema.ExchangeFormat

func (f RenderFunc) Render(cfg schema.ExchangeableConfig) schema.ExchangeFormat { return f(cfg) }

// Module is the guest-side state behind the exports.
type Module struct {
	store    *store.Store
	arena    *boundary.Arena
	renderer Renderer
	logger   *zap.Logger
}

// Option configures a Module.
type Option func(*Module)

// WithStore uses s instead of a fresh store.
func WithStore(s *store.Store) Option {
	return func(m *Module) { m.store = s }
}

// WithArena uses a instead of a fresh arena.
func WithArena(a *boundary.Arena) Option {
	return func(m *Module) { m.arena = a }
}

// WithRenderer sets the application renderer.
func WithRenderer(r Renderer) Option {
	return func(m *Module) { m.renderer = r }
}

// WithLogger sets the logger. Defaults to the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Module) { m.logger = l }
}

// New creates a module with an empty configuration.
func New(opts ...Option) *Module {
	m := &Module{}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = Logger()
	}
	if m.store == nil {
		m.store = store.New(store.WithLogger(m.logger))
	}
	if m.arena == nil {
		m.arena = boundary.NewArena()
	}
	return m
}

// Store returns the module's configuration store.
func (m *Module) Store() *store.Store { return m.store }

// Arena returns the module's allocation arena.
func (m *Module) Arena() *boundary.Arena { return m.arena }

// Alloc reserves memory for the host. It returns 0 on failure.
func (m *Module) Alloc(size uint32) uint32 {
	ptr, err := m.arena.Alloc(size)
	if err != nil {
		m.logger.Error("alloc failed", zap.Uint32("size", size), zap.Error(err))
		return 0
	}
	return ptr
}

// Dealloc releases memory previously returned to the host. Unknown
// pointers are logged and ignored.
func (m *Module) Dealloc(ptr uint32) {
	if ptr == 0 {
		return
	}
	if err := m.arena.Free(ptr); err != nil {
		m.logger.Warn("dealloc of unknown pointer", zap.Uint32("ptr", ptr), zap.Error(err))
	}
}

// SetCurrentConfig takes ownership of the NUL-terminated document at ptr,
// replaces the configuration with it and frees the buffer. Unreadable or
// malformed input resets the configuration to the default.
func (m *Module) SetCurrentConfig(ptr uint32) {
	buf, ok := m.arena.Take(ptr)
	if !ok {
		m.store.Reject(errors.NotFound(errors.PhaseBoundary, "allocation", formatPtr(ptr)))
		return
	}
	text, err := boundary.TrimCString(buf)
	if err != nil {
		m.store.Reject(err)
		return
	}
	m.store.ReplaceFromEncoded(text)
}

// CurrentConfig returns a snapshot of the configuration.
func (m *Module) CurrentConfig() schema.ExchangeableConfig {
	return m.store.Snapshot()
}

// GetCurrentConfig encodes the configuration and returns a pointer the host
// owns. It returns 0 if the document cannot be produced.
func (m *Module) GetCurrentConfig() uint32 {
	return export(m, m.store.Snapshot())
}

// Render encodes the current frame and returns a pointer the host owns.
// It returns 0 if the document cannot be produced.
func (m *Module) Render() uint32 {
	var frame schema.ExchangeFormat
	if m.renderer != nil {
		frame = m.renderer.Render(m.store.Snapshot())
	}
	return export(m, frame)
}

// Report summarizes rejected configurations and live buffers.
func (m *Module) Report() boundary.Report {
	d := m.store.Diagnostics()
	r := boundary.Report{Fallbacks: d.Fallbacks, Outstanding: m.arena.Len()}
	if d.LastError != nil {
		r.LastError = d.LastError.Error()
	}
	return r
}

// Diagnostics encodes Report and returns a pointer the host owns. This is
// how the host learns that a delivered configuration was reset.
func (m *Module) Diagnostics() uint32 {
	text, err := json.Marshal(m.Report())
	if err != nil {
		m.logger.Error("encode failed", zap.String("document", "diagnostics"), zap.Error(err))
		return 0
	}
	return m.put("diagnostics", text)
}

func export[T codec.Document](m *Module, doc T) uint32 {
	text, err := codec.Encode(doc)
	if err != nil {
		m.logger.Error("encode failed", zap.String("document", codec.DocumentName[T]()), zap.Error(err))
		return 0
	}
	return m.put(codec.DocumentName[T](), text)
}

func (m *Module) put(document string, text []byte) uint32 {
	buf, err := boundary.CString(text)
	if err != nil {
		m.logger.Error("encode failed", zap.String("document", document), zap.Error(err))
		return 0
	}
	ptr, err := m.arena.Put(buf)
	if err != nil {
		m.logger.Error("export failed", zap.String("document", document), zap.Error(err))
		return 0
	}
	return ptr
}
