package boundary

import "unsafe"

// address is the block's offset in linear memory.
func (a *Arena) address(buf []byte) uint32 {
	return uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
}
