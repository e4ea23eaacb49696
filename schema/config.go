package schema

import (
	"iter"
	"slices"

	"github.com/wippyai/wasm-exchange/errors"
)

// ExchangeableConfig maps keys to params and remembers insertion order.
// Overwriting an existing key keeps its original position.
type ExchangeableConfig struct {
	values map[string]Param
	keys   []string
}

// Add inserts key or overwrites its value in place.
func (c *ExchangeableConfig) Add(key string, p Param) {
	if c.values == nil {
		c.values = make(map[string]Param)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = p
}

// Get returns the param stored under key.
func (c ExchangeableConfig) Get(key string) (Param, bool) {
	p, ok := c.values[key]
	return p, ok
}

// Delete removes key, reporting whether it was present.
func (c *ExchangeableConfig) Delete(key string) bool {
	if _, ok := c.values[key]; !ok {
		return false
	}
	delete(c.values, key)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == key })
	return true
}

// Len returns the number of entries.
func (c ExchangeableConfig) Len() int {
	return len(c.keys)
}

// Keys returns the keys in insertion order.
func (c ExchangeableConfig) Keys() []string {
	return slices.Clone(c.keys)
}

// All iterates entries in insertion order.
func (c ExchangeableConfig) All() iter.Seq2[string, Param] {
	return func(yield func(string, Param) bool) {
		for _, k := range c.keys {
			if !yield(k, c.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (c ExchangeableConfig) Clone() ExchangeableConfig {
	if len(c.keys) == 0 {
		return ExchangeableConfig{}
	}
	values := make(map[string]Param, len(c.values))
	for k, v := range c.values {
		values[k] = v
	}
	return ExchangeableConfig{
		values: values,
		keys:   slices.Clone(c.keys),
	}
}

// Equal reports whether both configs hold the same entries in the same order.
func (c ExchangeableConfig) Equal(other ExchangeableConfig) bool {
	if !slices.Equal(c.keys, other.keys) {
		return false
	}
	for _, k := range c.keys {
		if c.values[k] != other.values[k] {
			return false
		}
	}
	return true
}

// GetInteger returns the Integer stored under key.
func (c ExchangeableConfig) GetInteger(key string) (uint32, error) {
	p, ok := c.values[key]
	if !ok {
		return 0, errors.NotFound(errors.PhaseConvert, "param", key)
	}
	return p.asInteger([]string{key})
}

// GetFloat returns the Float stored under key.
func (c ExchangeableConfig) GetFloat(key string) (float32, error) {
	p, ok := c.values[key]
	if !ok {
		return 0, errors.NotFound(errors.PhaseConvert, "param", key)
	}
	return p.asFloat([]string{key})
}

// GetString returns the String or Password stored under key.
func (c ExchangeableConfig) GetString(key string) (string, error) {
	p, ok := c.values[key]
	if !ok {
		return "", errors.NotFound(errors.PhaseConvert, "param", key)
	}
	return p.asString([]string{key})
}
