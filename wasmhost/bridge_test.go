package wasmhost

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	pluginrt "github.com/wippyai/plugin-runtime"
	"github.com/wippyai/plugin-runtime/store"
)

// sliceMem is a flat guest memory for exercising the bridge without a
// wazero runtime.
type sliceMem []byte

func (m sliceMem) Read(off, n uint32) ([]byte, bool) {
	if uint64(off)+uint64(n) > uint64(len(m)) {
		return nil, false
	}
	return m[off : off+n], true
}

func newBridge() (*store.Store, *bridge) {
	st := store.New()
	return st, &bridge{host: st}
}

func TestCopyStringProbeThenCopy(t *testing.T) {
	st, b := newBridge()
	h := st.MakeString([]byte("hello"))
	m := make(sliceMem, 64)

	// Zero pointer probes.
	if n := b.copyString(m, uint32(h), 0, 0); n != 5 {
		t.Fatalf("probe = %d, want 5", n)
	}
	// Undersized capacity probes too and leaves memory untouched.
	if n := b.copyString(m, uint32(h), 8, 3); n != 5 {
		t.Fatalf("short copy = %d, want 5", n)
	}
	if !bytes.Equal(m[8:11], []byte{0, 0, 0}) {
		t.Error("short copy wrote into memory")
	}
	// Adequate capacity copies.
	if n := b.copyString(m, uint32(h), 8, 16); n != 5 {
		t.Fatalf("copy = %d, want 5", n)
	}
	if got := string(m[8:13]); got != "hello" {
		t.Errorf("memory = %q", got)
	}
}

func TestCopyStringWrongType(t *testing.T) {
	st, b := newBridge()
	m := make(sliceMem, 16)
	if n := b.copyString(m, uint32(st.MakeInteger(1)), 0, 0); n >= 0 {
		t.Errorf("integer probe = %d, want negative", n)
	}
}

func TestMakeStringFromMemory(t *testing.T) {
	st, b := newBridge()
	m := sliceMem("......payload")

	h := pluginrt.Handle(b.makeString(m, 6, 7))
	if got := string(st.StringBytes(h)); got != "payload" {
		t.Errorf("string = %q", got)
	}

	// Empty payload via the zero pointer.
	empty := pluginrt.Handle(b.makeString(m, 0, 0))
	if got := string(st.StringBytes(empty)); got != "" {
		t.Errorf("empty string = %q", got)
	}
}

func TestListWireRoundTrip(t *testing.T) {
	st, b := newBridge()
	m := make(sliceMem, 64)

	// Guest lays out three handles little-endian and builds a list.
	in := []pluginrt.Handle{st.MakeInteger(10), st.MakeInteger(20), st.MakeInteger(30)}
	for i, h := range in {
		binary.LittleEndian.PutUint32(m[i*4:], uint32(h))
	}
	list := pluginrt.Handle(b.makeList(m, 0, 3))
	if st.TypeOf(list) != pluginrt.TypeList {
		t.Fatalf("type = %v", st.TypeOf(list))
	}

	// Probe, then copy back to a different region.
	if n := b.copyList(m, uint32(list), 0, 0); n != 3 {
		t.Fatalf("probe = %d", n)
	}

	// Undersized capacity probes and must not touch guest memory.
	for i := 48; i < 56; i++ {
		m[i] = 0xEE
	}
	if n := b.copyList(m, uint32(list), 48, 1); n != 3 {
		t.Fatalf("short copy = %d, want 3", n)
	}
	if !bytes.Equal(m[48:56], bytes.Repeat([]byte{0xEE}, 8)) {
		t.Error("short copy wrote into guest memory")
	}

	if n := b.copyList(m, uint32(list), 32, 3); n != 3 {
		t.Fatalf("copy = %d", n)
	}
	for i, want := range []int64{10, 20, 30} {
		h := pluginrt.Handle(binary.LittleEndian.Uint32(m[32+i*4:]))
		if got := st.Integer(h); got != want {
			t.Errorf("elem %d = %d, want %d", i, got, want)
		}
	}
}

func TestMakeAttrsWireFormat(t *testing.T) {
	st, b := newBridge()
	m := make(sliceMem, 128)

	// Names at offsets 64 and 68, records at offset 0.
	copy(m[64:], "abc")
	copy(m[68:], "d")
	v1 := st.MakeInteger(1)
	v2 := st.MakeBoolean(true)

	binary.LittleEndian.PutUint32(m[0:], 64)
	binary.LittleEndian.PutUint32(m[4:], 3)
	binary.LittleEndian.PutUint32(m[8:], uint32(v1))
	binary.LittleEndian.PutUint32(m[12:], 68)
	binary.LittleEndian.PutUint32(m[16:], 1)
	binary.LittleEndian.PutUint32(m[20:], uint32(v2))

	attrs := pluginrt.Handle(b.makeAttrs(m, 0, 2))
	if st.AttrCount(attrs) != 2 {
		t.Fatalf("count = %d", st.AttrCount(attrs))
	}
	if got := st.Integer(st.GetAttr(attrs, []byte("abc"))); got != 1 {
		t.Errorf("abc = %d", got)
	}
	if !st.Boolean(st.GetAttr(attrs, []byte("d"))) {
		t.Error("d = false")
	}

	// Name lookup through the wire as well.
	copy(m[100:], "abc")
	if got := b.getAttr(m, uint32(attrs), 100, 3); pluginrt.Handle(got) != v1 {
		t.Errorf("get-attr = %d, want %d", got, v1)
	}
	if got := b.getAttr(m, uint32(attrs), 100, 2); pluginrt.Handle(got) != pluginrt.None {
		t.Errorf("absent key = %d, want none", got)
	}
}

func TestReadFileWire(t *testing.T) {
	st, b := newBridge()
	st.AddFile("data.json", []byte("[1,2]"))
	m := make(sliceMem, 64)
	copy(m, "data.json")

	if n := b.readFile(m, 0, 9, 0, 0); n != 5 {
		t.Fatalf("probe = %d", n)
	}
	if n := b.readFile(m, 0, 9, 16, 32); n != 5 {
		t.Fatalf("copy = %d", n)
	}
	if got := string(m[16:21]); got != "[1,2]" {
		t.Errorf("contents = %q", got)
	}

	copy(m[32:], "nope")
	if n := b.readFile(m, 32, 4, 0, 0); n >= 0 {
		t.Errorf("missing file = %d, want negative", n)
	}
}

func TestNotificationsWire(t *testing.T) {
	st, b := newBridge()
	m := sliceMem("boom!warned")

	b.panicMsg(m, 0, 5)
	b.warnMsg(m, 5, 6)

	if p := st.Panics(); len(p) != 1 || p[0] != "boom!" {
		t.Errorf("panics = %v", p)
	}
	if w := st.Warnings(); len(w) != 1 || w[0] != "warned" {
		t.Errorf("warnings = %v", w)
	}
}

func TestMemoryFault(t *testing.T) {
	st, b := newBridge()
	h := st.MakeString([]byte("x"))
	m := make(sliceMem, 8)

	if n := b.copyString(m, uint32(h), 4, 100); n != memFaultResult {
		t.Fatalf("fault result = %d", n)
	}
	p := st.Panics()
	if len(p) != 1 || !strings.Contains(p[0], "copy-string") {
		t.Errorf("panics = %v", p)
	}
}
