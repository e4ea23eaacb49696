package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	wasmexchange "github.com/wippyai/wasm-exchange"
)

// WrapMemory wraps a wazero api.Memory to implement wasmexchange.Memory.
func WrapMemory(mem api.Memory) wasmexchange.Memory {
	if mem == nil {
		return nil
	}
	return &Memory{Mem: mem}
}

// Memory adapts wazero api.Memory to the wasmexchange.Memory interface.
type Memory struct {
	Mem api.Memory
}

// Read reads bytes from memory. The result aliases guest memory.
func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.Mem.Size()
}

// Allocator adapts the guest's alloc and dealloc exports to
// wasmexchange.Allocator.
type Allocator struct {
	Ctx       context.Context
	AllocFn   api.Function
	DeallocFn api.Function
}

// Alloc calls the guest allocator.
func (a *Allocator) Alloc(size uint32) (uint32, error) {
	results, err := a.AllocFn.Call(a.Ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("alloc failed: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("alloc returned no results")
	}
	return uint32(results[0]), nil
}

// Free calls the guest deallocator.
func (a *Allocator) Free(ptr uint32) error {
	if _, err := a.DeallocFn.Call(a.Ctx, uint64(ptr)); err != nil {
		return fmt.Errorf("dealloc failed: %w", err)
	}
	return nil
}
