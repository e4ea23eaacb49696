package boundary

import (
	"bytes"

	wasmexchange "github.com/wippyai/wasm-exchange"
	"github.com/wippyai/wasm-exchange/errors"
)

// CString returns text followed by a NUL terminator. Text containing a NUL
// byte cannot be represented and is rejected.
func CString(text []byte) ([]byte, error) {
	if i := bytes.IndexByte(text, 0); i >= 0 {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("embedded NUL at offset %d", i).Value(i).Build()
	}
	out := make([]byte, len(text)+1)
	copy(out, text)
	return out, nil
}

// TrimCString returns buf up to its first NUL byte.
func TrimCString(buf []byte) ([]byte, error) {
	i := bytes.IndexByte(buf, 0)
	if i < 0 {
		return nil, errors.New(errors.PhaseBoundary, errors.KindOutOfBounds).
			Detail("missing NUL terminator in %d bytes", len(buf)).Build()
	}
	return buf[:i], nil
}

// ReadCString copies the NUL-terminated string at ptr out of mem. The
// terminator must appear before the end of memory.
func ReadCString(mem wasmexchange.Memory, ptr uint32) ([]byte, error) {
	size := mem.Size()
	if ptr == 0 || ptr >= size {
		return nil, errors.OutOfBounds(errors.PhaseBoundary, nil, int(ptr), int(size))
	}
	view, err := mem.Read(ptr, size-ptr)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBoundary, errors.KindOutOfBounds, err, "read C string")
	}
	text, err := TrimCString(view)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(text), nil
}
