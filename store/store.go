package store

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-exchange/codec"
	"github.com/wippyai/wasm-exchange/schema"
)

// Store is a lock-protected holder of the current configuration.
type Store struct {
	decoder   *codec.Decoder[schema.ExchangeableConfig]
	logger    *zap.Logger
	lastErr   atomic.Pointer[error]
	current   schema.ExchangeableConfig
	fallbacks atomic.Uint64
	mu        sync.RWMutex
}

// Diagnostics reports how often delivered configurations were rejected.
type Diagnostics struct {
	LastError error
	Fallbacks uint64
}

// Option configures a Store.
type Option func(*config)

type config struct {
	observer codec.Observer
	logger   *zap.Logger
	initial  schema.ExchangeableConfig
}

// WithObserver adds an observer notified when a delivered configuration
// is replaced by the default.
func WithObserver(o codec.Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithInitial seeds the store with cfg instead of the empty configuration.
func WithInitial(cfg schema.ExchangeableConfig) Option {
	return func(c *config) { c.initial = cfg.Clone() }
}

// New returns a store holding the empty configuration.
func New(opts ...Option) *Store {
	c := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}

	s := &Store{
		logger:  c.logger,
		current: c.initial,
	}
	observers := codec.Observers{codec.ObserverFunc(s.recordFallback)}
	if c.observer != nil {
		observers = append(observers, c.observer)
	}
	s.decoder = codec.NewDecoder[schema.ExchangeableConfig](
		codec.WithObserver(observers),
		codec.WithLogger(c.logger),
	)
	return s
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() schema.ExchangeableConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Replace swaps in cfg as a whole. No validation is performed. The store
// keeps its own copy, so later changes to cfg are not observed.
func (s *Store) Replace(cfg schema.ExchangeableConfig) {
	cfg = cfg.Clone()

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	s.logger.Debug("configuration replaced", zap.Object("config", cfg))
}

// ReplaceFromEncoded decodes buf and replaces the configuration with the
// result, or with the default configuration when buf is malformed.
func (s *Store) ReplaceFromEncoded(buf []byte) {
	s.Replace(s.decoder.Decode(buf))
}

// Reject records input that could not be read at all and resets the
// configuration to the default, as ReplaceFromEncoded does for malformed
// text.
func (s *Store) Reject(err error) {
	s.decoder.Fallback(err)
	s.Replace(schema.ExchangeableConfig{})
}

// Diagnostics returns the fallback counters.
func (s *Store) Diagnostics() Diagnostics {
	d := Diagnostics{Fallbacks: s.fallbacks.Load()}
	if p := s.lastErr.Load(); p != nil {
		d.LastError = *p
	}
	return d
}

func (s *Store) recordFallback(_ string, err error) {
	s.fallbacks.Add(1)
	s.lastErr.Store(&err)
}
