package host

// testGuest describes a minimal core WASM guest speaking the exchange
// protocol. It keeps one page of memory and three globals: a bump heap
// pointer starting at 4096, the last pointer passed to set_current_config,
// and the number of dealloc calls. get_current_config hands back the stored
// pointer unchanged; render returns framePtr, where frame is placed by a
// data segment.
type testGuest struct {
	// frame is the NUL-terminated text returned by render. nil makes render
	// return a null pointer.
	frame []byte
	// omit drops one export, including "memory".
	omit string
}

const framePtr = 1024

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func wasmName(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func wasmVec(items ...[]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}

func wasmSection(id byte, content []byte) []byte {
	out := append([]byte{id}, uleb(uint32(len(content)))...)
	return append(out, content...)
}

func i32Const(v int32) []byte {
	return append([]byte{0x41}, sleb(v)...)
}

func (g testGuest) bytes() []byte {
	const (
		i32        = 0x7f
		globalGet  = 0x23
		globalSet  = 0x24
		localGet   = 0x20
		i32Add     = 0x6a
		end        = 0x0b
		heapGlobal = 0
		cfgGlobal  = 1
		freeGlobal = 2
	)

	renderRet := int32(0)
	if g.frame != nil {
		renderRet = framePtr
	}

	funcs := []struct {
		name string
		typ  byte
		body []byte
	}{
		// alloc(size) -> ptr: return heap, heap += size
		{"alloc", 0, []byte{globalGet, heapGlobal, globalGet, heapGlobal, localGet, 0, i32Add, globalSet, heapGlobal}},
		// dealloc(ptr): freed++
		{"dealloc", 1, append(append([]byte{globalGet, freeGlobal}, i32Const(1)...), i32Add, globalSet, freeGlobal)},
		{"set_current_config", 1, []byte{localGet, 0, globalSet, cfgGlobal}},
		{"get_current_config", 2, []byte{globalGet, cfgGlobal}},
		{"render", 2, i32Const(renderRet)},
		{"freed", 2, []byte{globalGet, freeGlobal}},
	}

	types := wasmVec(
		[]byte{0x60, 1, i32, 1, i32}, // (i32) -> i32
		[]byte{0x60, 1, i32, 0},      // (i32) -> ()
		[]byte{0x60, 0, 1, i32},      // () -> i32
	)

	var funcTypes, bodies, exports [][]byte
	if g.omit != "memory" {
		exports = append(exports, append(wasmName("memory"), 0x02, 0))
	}
	for i, f := range funcs {
		funcTypes = append(funcTypes, []byte{f.typ})
		body := append([]byte{0}, f.body...) // no locals
		body = append(body, end)
		bodies = append(bodies, append(uleb(uint32(len(body))), body...))
		if f.name != g.omit {
			exports = append(exports, append(wasmName(f.name), 0x00, byte(i)))
		}
	}

	global := func(init int32) []byte {
		out := append([]byte{i32, 1}, i32Const(init)...)
		return append(out, end)
	}

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = append(out, wasmSection(1, types)...)
	out = append(out, wasmSection(3, wasmVec(funcTypes...))...)
	out = append(out, wasmSection(5, []byte{1, 0x00, 1})...)
	out = append(out, wasmSection(6, wasmVec(global(4096), global(0), global(0)))...)
	out = append(out, wasmSection(7, wasmVec(exports...))...)
	out = append(out, wasmSection(10, wasmVec(bodies...))...)
	if g.frame != nil {
		segment := append([]byte{0x00}, i32Const(framePtr)...)
		segment = append(segment, end)
		segment = append(segment, uleb(uint32(len(g.frame)))...)
		segment = append(segment, g.frame...)
		out = append(out, wasmSection(11, wasmVec(segment))...)
	}
	return out
}
