package schema

import "go.uber.org/zap/zapcore"

// MarshalLogObject logs every entry in order with passwords masked.
func (c ExchangeableConfig) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for k, p := range c.All() {
		enc.AddString(k, p.String())
	}
	return nil
}

// MarshalLogObject logs the item count per kind.
func (f ExchangeFormat) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	var texts, images int
	for _, item := range f.Items {
		switch item.(type) {
		case Text, *Text:
			texts++
		case Image, *Image:
			images++
		}
	}
	enc.AddInt("items", len(f.Items))
	enc.AddInt("texts", texts)
	enc.AddInt("images", images)
	return nil
}
