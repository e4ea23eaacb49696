// Package errors provides structured error types for the exchange module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a field path, expected/actual type names and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("items", "0", "Text", "color").
//		Detail("expected 3 entries, got %d", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.WrongParamType([]string{"scale"}, "Integer", "Float")
//	err := errors.FieldMissing(errors.PhaseDecode, path, "params")
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind only, so a template error works as a sentinel:
//
//	if errors.Is(err, &wxerrors.Error{Phase: wxerrors.PhaseConvert, Kind: wxerrors.KindTypeMismatch}) { ... }
package errors
