package boundary

import (
	wasmexchange "github.com/wippyai/wasm-exchange"
	"github.com/wippyai/wasm-exchange/errors"
)

// Buffer is exclusive ownership of a region of guest memory. It ends in
// exactly one of two ways: Transfer hands the region to the guest, Release
// returns it through the allocator. Any use after that fails with a
// released error. A Buffer is not safe for concurrent use.
type Buffer struct {
	alloc wasmexchange.Allocator
	ptr   uint32
	size  uint32
	done  bool
}

// Allocate reserves size bytes through alloc.
func Allocate(alloc wasmexchange.Allocator, size uint32) (*Buffer, error) {
	ptr, err := alloc.Alloc(size)
	if err != nil {
		return nil, errors.AllocationFailed(errors.PhaseBoundary, size, err)
	}
	if ptr == 0 {
		return nil, errors.AllocationFailed(errors.PhaseBoundary, size, nil)
	}
	return &Buffer{alloc: alloc, ptr: ptr, size: size}, nil
}

// Adopt takes ownership of a region the guest handed over. size may be 0
// when the length is only known from the terminator.
func Adopt(alloc wasmexchange.Allocator, ptr, size uint32) *Buffer {
	return &Buffer{alloc: alloc, ptr: ptr, size: size, done: ptr == 0}
}

// Ptr returns the address while the buffer is still owned.
func (b *Buffer) Ptr() (uint32, error) {
	if b.done {
		return 0, errors.Released(b.ptr)
	}
	return b.ptr, nil
}

// Size returns the allocated size, 0 if unknown.
func (b *Buffer) Size() uint32 {
	return b.size
}

// Owned reports whether the buffer can still be used.
func (b *Buffer) Owned() bool {
	return !b.done
}

// Write copies data to the start of the buffer.
func (b *Buffer) Write(mem wasmexchange.Memory, data []byte) error {
	if b.done {
		return errors.Released(b.ptr)
	}
	if b.size != 0 && uint32(len(data)) > b.size {
		return errors.OutOfBounds(errors.PhaseBoundary, nil, len(data), int(b.size))
	}
	return mem.Write(b.ptr, data)
}

// ReadCString reads the NUL-terminated text stored in the buffer.
func (b *Buffer) ReadCString(mem wasmexchange.Memory) ([]byte, error) {
	if b.done {
		return nil, errors.Released(b.ptr)
	}
	return ReadCString(mem, b.ptr)
}

// Transfer gives up ownership and returns the address to pass to the
// guest. The buffer must not be released afterwards.
func (b *Buffer) Transfer() (uint32, error) {
	if b.done {
		return 0, errors.Released(b.ptr)
	}
	b.done = true
	return b.ptr, nil
}

// Release returns the region to the allocator.
func (b *Buffer) Release() error {
	if b.done {
		return errors.Released(b.ptr)
	}
	b.done = true
	return b.alloc.Free(b.ptr)
}
