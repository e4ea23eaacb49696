// Package codec converts schema documents to and from their canonical text.
//
// Encode produces the canonical JSON form. Two decode paths exist:
//
//   - DecodeStrict reports every problem as an *errors.Error. Use it in tests
//     and anywhere a caller can act on failure.
//   - Decoder.Decode never fails. Malformed input yields the zero (default)
//     document, a warning on the configured zap logger and a call to the
//     configured Observer. This is the behavior required at the guest
//     boundary, where bad input must not crash the host.
package codec
