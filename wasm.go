package wasmexchange

// Memory represents guest linear memory as seen from the host.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	Size() uint32
}

// Allocator allocates and releases memory owned by the guest.
type Allocator interface {
	Alloc(size uint32) (uint32, error)
	Free(ptr uint32) error
}
