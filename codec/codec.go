package codec

import (
	"encoding/json"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-exchange/errors"
	"github.com/wippyai/wasm-exchange/schema"
)

// Document is a top-level envelope that crosses the boundary.
type Document interface {
	schema.ExchangeFormat | schema.ExchangeableConfig
}

// Document names reported to observers and metrics.
const (
	DocumentFormat = "exchange_format"
	DocumentConfig = "exchangeable_config"
)

// DocumentName returns the observer name for T.
func DocumentName[T Document]() string {
	var zero T
	switch any(zero).(type) {
	case schema.ExchangeFormat:
		return DocumentFormat
	default:
		return DocumentConfig
	}
}

// Encode returns the canonical text of v. It fails only for values that
// are not well formed, such as a zero schema.Param or a nil Item.
func Encode[T Document](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		var e *errors.Error
		if errors.As(err, &e) {
			return nil, e
		}
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "encode "+DocumentName[T]())
	}
	return data, nil
}

// DecodeStrict parses data and reports any deviation from the schema.
func DecodeStrict[T Document](data []byte) (T, error) {
	var v T
	if !utf8.Valid(data) {
		return v, errors.InvalidUTF8(errors.PhaseDecode, nil, data)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		var e *errors.Error
		if errors.As(err, &e) {
			return zero, e
		}
		return zero, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "decode "+DocumentName[T]())
	}
	return v, nil
}

// Observer is notified whenever lenient decoding falls back to a default.
type Observer interface {
	DecodeFallback(document string, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(document string, err error)

func (f ObserverFunc) DecodeFallback(document string, err error) { f(document, err) }

// Observers fans a fallback out to several observers.
type Observers []Observer

func (o Observers) DecodeFallback(document string, err error) {
	for _, obs := range o {
		if obs != nil {
			obs.DecodeFallback(document, err)
		}
	}
}

// Option configures a Decoder.
type Option func(*options)

type options struct {
	observer Observer
	logger   *zap.Logger
}

// WithObserver sets the observer notified on fallback.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithLogger overrides the package logger for one decoder.
func WithLogger(l *zap.Logger) Option {
	return func(opts *options) { opts.logger = l }
}

// Decoder decodes one document type and never fails.
type Decoder[T Document] struct {
	observer Observer
	logger   *zap.Logger
	name     string
}

// NewDecoder creates a lenient decoder for T.
func NewDecoder[T Document](opts ...Option) *Decoder[T] {
	o := options{logger: Logger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Decoder[T]{
		observer: o.observer,
		logger:   o.logger,
		name:     DocumentName[T](),
	}
}

// Decode parses data, returning the default document on any error.
func (d *Decoder[T]) Decode(data []byte) T {
	v, err := DecodeStrict[T](data)
	if err != nil {
		d.Fallback(err)
		var zero T
		return zero
	}
	return v
}

// Fallback records a decode failure detected outside Decode, for instance
// an unreadable buffer, without decoding anything.
func (d *Decoder[T]) Fallback(err error) {
	d.logger.Warn("malformed document replaced with default",
		zap.String("document", d.name),
		zap.Error(err),
	)
	if d.observer != nil {
		d.observer.DecodeFallback(d.name, err)
	}
}
