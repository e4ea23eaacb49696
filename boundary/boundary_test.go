package boundary

import (
	"errors"
	"fmt"
	"testing"

	wxerrors "github.com/wippyai/wasm-exchange/errors"
)

// sliceMemory is linear memory backed by a byte slice.
type sliceMemory []byte

func (m sliceMemory) Read(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m)) {
		return nil, fmt.Errorf("read out of bounds: offset=%d length=%d", offset, length)
	}
	return m[offset:end], nil
}

func (m sliceMemory) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(m)) {
		return fmt.Errorf("write out of bounds: offset=%d length=%d", offset, len(data))
	}
	copy(m[offset:], data)
	return nil
}

func (m sliceMemory) Size() uint32 { return uint32(len(m)) }

// bumpAllocator hands out addresses in a sliceMemory and records frees.
type bumpAllocator struct {
	next  uint32
	freed []uint32
	fail  error
}

func (a *bumpAllocator) Alloc(size uint32) (uint32, error) {
	if a.fail != nil {
		return 0, a.fail
	}
	ptr := a.next
	a.next += size
	return ptr, nil
}

func (a *bumpAllocator) Free(ptr uint32) error {
	a.freed = append(a.freed, ptr)
	return nil
}

func isKind(err error, kind wxerrors.Kind) bool {
	var e *wxerrors.Error
	return errors.As(err, &e) && e.Kind == kind
}

func TestArena_AllocTakeFree(t *testing.T) {
	a := NewArena()

	p1, err := a.Alloc(10)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	p2, err := a.Alloc(0)
	if err != nil {
		t.Fatalf("alloc zero: %v", err)
	}
	if p1 == 0 || p2 == 0 || p1 == p2 {
		t.Fatalf("addresses %#x %#x", p1, p2)
	}
	if p1%8 != 0 || p2%8 != 0 {
		t.Fatalf("addresses not aligned: %#x %#x", p1, p2)
	}
	if a.Len() != 2 {
		t.Fatalf("Len = %d", a.Len())
	}

	buf, ok := a.Bytes(p1)
	if !ok || len(buf) != 10 {
		t.Fatalf("Bytes = %d, %v", len(buf), ok)
	}
	copy(buf, "hello")

	taken, ok := a.Take(p1)
	if !ok || string(taken[:5]) != "hello" {
		t.Fatalf("Take = %q, %v", taken, ok)
	}
	if _, ok := a.Take(p1); ok {
		t.Fatal("second Take succeeded")
	}

	if err := a.Free(p2); err != nil {
		t.Fatalf("free: %v", err)
	}
	if err := a.Free(p2); !isKind(err, wxerrors.KindNotFound) {
		t.Fatalf("double free error = %v", err)
	}
	if a.Len() != 0 {
		t.Fatalf("Len = %d", a.Len())
	}
}

func TestArena_Put(t *testing.T) {
	a := NewArena()
	ptr, err := a.Put([]byte("doc\x00"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	buf, ok := a.Bytes(ptr)
	if !ok || string(buf) != "doc\x00" {
		t.Fatalf("Bytes = %q, %v", buf, ok)
	}
	if _, err := a.Put(nil); !isKind(err, wxerrors.KindAllocation) {
		t.Fatalf("Put(nil) error = %v", err)
	}
}

func TestCString(t *testing.T) {
	got, err := CString([]byte("abc"))
	if err != nil {
		t.Fatalf("CString: %v", err)
	}
	if string(got) != "abc\x00" {
		t.Fatalf("CString = %q", got)
	}

	if _, err := CString([]byte("a\x00b")); !isKind(err, wxerrors.KindInvalidData) {
		t.Fatalf("embedded NUL error = %v", err)
	}

	text, err := TrimCString([]byte("abc\x00junk"))
	if err != nil || string(text) != "abc" {
		t.Fatalf("TrimCString = %q, %v", text, err)
	}
	if _, err := TrimCString([]byte("abc")); !isKind(err, wxerrors.KindOutOfBounds) {
		t.Fatalf("missing terminator error = %v", err)
	}
}

func TestReadCString(t *testing.T) {
	mem := make(sliceMemory, 64)
	copy(mem[16:], "hello\x00world")

	got, err := ReadCString(mem, 16)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q", got)
	}

	// the result is a copy
	mem[16] = 'j'
	if string(got) != "hello" {
		t.Fatalf("result aliases memory: %q", got)
	}

	unterminated := sliceMemory("no terminator here")
	if _, err := ReadCString(unterminated, 3); !isKind(err, wxerrors.KindOutOfBounds) {
		t.Fatalf("unterminated error = %v", err)
	}
	if _, err := ReadCString(mem, 64); !isKind(err, wxerrors.KindOutOfBounds) {
		t.Fatalf("past end error = %v", err)
	}
	if _, err := ReadCString(mem, 0); !isKind(err, wxerrors.KindOutOfBounds) {
		t.Fatalf("null pointer error = %v", err)
	}
}

func TestBuffer_TransferEndsOwnership(t *testing.T) {
	mem := make(sliceMemory, 64)
	alloc := &bumpAllocator{next: 8}

	buf, err := Allocate(alloc, 4)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := buf.Write(mem, []byte("abc\x00")); err != nil {
		t.Fatalf("write: %v", err)
	}
	ptr, err := buf.Transfer()
	if err != nil || ptr != 8 {
		t.Fatalf("Transfer = %d, %v", ptr, err)
	}
	if buf.Owned() {
		t.Fatal("buffer still owned after transfer")
	}

	if err := buf.Release(); !isKind(err, wxerrors.KindReleased) {
		t.Fatalf("release after transfer error = %v", err)
	}
	if _, err := buf.Transfer(); !isKind(err, wxerrors.KindReleased) {
		t.Fatalf("double transfer error = %v", err)
	}
	if err := buf.Write(mem, []byte("x")); !isKind(err, wxerrors.KindReleased) {
		t.Fatalf("write after transfer error = %v", err)
	}
	if _, err := buf.Ptr(); !isKind(err, wxerrors.KindReleased) {
		t.Fatalf("Ptr after transfer error = %v", err)
	}
	if len(alloc.freed) != 0 {
		t.Fatalf("transferred buffer was freed: %v", alloc.freed)
	}
}

func TestBuffer_ReleaseOnce(t *testing.T) {
	mem := make(sliceMemory, 64)
	copy(mem[20:], "out\x00")
	alloc := &bumpAllocator{}

	buf := Adopt(alloc, 20, 0)
	text, err := buf.ReadCString(mem)
	if err != nil || string(text) != "out" {
		t.Fatalf("ReadCString = %q, %v", text, err)
	}
	if err := buf.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := buf.Release(); !isKind(err, wxerrors.KindReleased) {
		t.Fatalf("double release error = %v", err)
	}
	if _, err := buf.ReadCString(mem); !isKind(err, wxerrors.KindReleased) {
		t.Fatalf("read after release error = %v", err)
	}
	if len(alloc.freed) != 1 || alloc.freed[0] != 20 {
		t.Fatalf("freed = %v", alloc.freed)
	}
}

func TestBuffer_AdoptNull(t *testing.T) {
	buf := Adopt(&bumpAllocator{}, 0, 0)
	if buf.Owned() {
		t.Fatal("null pointer adopted as owned")
	}
}

func TestBuffer_WriteTooLarge(t *testing.T) {
	mem := make(sliceMemory, 64)
	buf, err := Allocate(&bumpAllocator{next: 8}, 2)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := buf.Write(mem, []byte("abc")); !isKind(err, wxerrors.KindOutOfBounds) {
		t.Fatalf("oversized write error = %v", err)
	}
}

func TestBuffer_AllocateFailures(t *testing.T) {
	if _, err := Allocate(&bumpAllocator{fail: errors.New("oom")}, 4); !isKind(err, wxerrors.KindAllocation) {
		t.Fatalf("allocator error = %v", err)
	}
	if _, err := Allocate(&bumpAllocator{}, 4); !isKind(err, wxerrors.KindAllocation) {
		t.Fatalf("null pointer error = %v", err)
	}
}

func TestBuffer_WithArena(t *testing.T) {
	a := NewArena()
	buf, err := Allocate(a, 16)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if a.Len() != 1 {
		t.Fatalf("arena Len = %d", a.Len())
	}
	if err := buf.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if a.Len() != 0 {
		t.Fatalf("arena Len after release = %d", a.Len())
	}
}
