package boundary

import (
	"fmt"
	"sync"

	"github.com/wippyai/wasm-exchange/errors"
)

// Arena tracks guest allocations handed across the boundary. An entry
// keeps its memory reachable until it is freed or taken back.
type Arena struct {
	blocks map[uint32][]byte
	next   uint32
	mu     sync.Mutex
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{blocks: make(map[uint32][]byte)}
}

// Alloc reserves size zeroed bytes and returns their address.
func (a *Arena) Alloc(size uint32) (uint32, error) {
	// never zero-sized, so every block has a distinct address
	buf := make([]byte, max(size, 1))

	a.mu.Lock()
	defer a.mu.Unlock()
	ptr := a.address(buf)
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseBoundary, size, nil)
	}
	a.blocks[ptr] = buf[:size]
	return ptr, nil
}

// Put moves data into the arena and returns its address. The caller must
// not touch data afterwards.
func (a *Arena) Put(data []byte) (uint32, error) {
	if len(data) == 0 {
		return 0, errors.AllocationFailed(errors.PhaseBoundary, 0, nil)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	ptr := a.address(data)
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseBoundary, uint32(len(data)), nil)
	}
	a.blocks[ptr] = data
	return ptr, nil
}

// Take removes the block at ptr and hands it to the caller.
func (a *Arena) Take(ptr uint32) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf, ok := a.blocks[ptr]
	if ok {
		delete(a.blocks, ptr)
	}
	return buf, ok
}

// Bytes returns the block at ptr without changing ownership.
func (a *Arena) Bytes(ptr uint32) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf, ok := a.blocks[ptr]
	return buf, ok
}

// Free drops the block at ptr.
func (a *Arena) Free(ptr uint32) error {
	if _, ok := a.Take(ptr); !ok {
		return errors.NotFound(errors.PhaseBoundary, "allocation", fmt.Sprintf("0x%x", ptr))
	}
	return nil
}

// Len returns the number of live blocks.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.blocks)
}
