//go:build !wasm

package boundary

const arenaBase = 0x10000

// address hands out increasing, 8-byte aligned synthetic addresses. Native
// builds have no 32-bit linear memory to point into.
func (a *Arena) address(buf []byte) uint32 {
	if a.next == 0 {
		a.next = arenaBase
	}
	ptr := a.next
	size := (uint32(max(cap(buf), 1)) + 7) &^ 7
	if ptr+size < ptr {
		return 0
	}
	a.next = ptr + size
	return ptr
}
