package wasmhost

import (
	"encoding/binary"
	"fmt"

	pluginrt "github.com/wippyai/plugin-runtime"
)

// attrRecordSize is the packed wire size of one attribute entry:
// name ptr, name len, value handle.
const attrRecordSize = 12

// memFaultResult is returned by every memory-touching export after a
// fault; the panic notification has already fired by then.
const memFaultResult = -1

// mem is the slice of the wazero api.Memory surface the bridge needs.
// Read returns a writable view of guest memory, so copies into the
// guest go through it as well.
type mem interface {
	Read(offset, byteCount uint32) ([]byte, bool)
}

// bridge adapts one Host to the wire-level export bodies. It holds no
// per-call state; all scratch lives in the guest's own memory.
type bridge struct {
	host pluginrt.Host
}

func (b *bridge) fault(export string, ptr, n uint32) int32 {
	b.host.Panic(fmt.Sprintf("%s: out-of-range memory access (ptr=%d len=%d)", export, ptr, n))
	return memFaultResult
}

// bytesArg resolves a (ptr, len) payload argument. ptr 0 with len 0 is
// the empty payload; ptr 0 with a nonzero len is a fault.
func (b *bridge) bytesArg(m mem, export string, ptr, n uint32) ([]byte, bool) {
	if ptr == 0 && n == 0 {
		return nil, true
	}
	buf, ok := m.Read(ptr, n)
	if !ok {
		b.fault(export, ptr, n)
		return nil, false
	}
	return buf, true
}

func (b *bridge) copyString(m mem, h, ptr, capacity uint32) int32 {
	if ptr == 0 {
		return int32(b.host.CopyString(pluginrt.Handle(h), nil))
	}
	dst, ok := m.Read(ptr, capacity)
	if !ok {
		return b.fault("copy-string", ptr, capacity)
	}
	return int32(b.host.CopyString(pluginrt.Handle(h), dst))
}

func (b *bridge) makeString(m mem, ptr, n uint32) int32 {
	buf, ok := b.bytesArg(m, "make-string", ptr, n)
	if !ok {
		return memFaultResult
	}
	return int32(b.host.MakeString(buf))
}

func (b *bridge) makePath(m mem, ptr, n uint32) int32 {
	buf, ok := b.bytesArg(m, "make-path", ptr, n)
	if !ok {
		return memFaultResult
	}
	return int32(b.host.MakePath(buf))
}

// copyList transfers element handles as little-endian u32 values.
// capacity counts elements, not bytes.
func (b *bridge) copyList(m mem, h, ptr, capacity uint32) int32 {
	if ptr == 0 {
		return int32(b.host.CopyList(pluginrt.Handle(h), nil))
	}
	buf, ok := m.Read(ptr, capacity*4)
	if !ok {
		return b.fault("copy-list", ptr, capacity*4)
	}
	elems := make([]pluginrt.Handle, capacity)
	n := b.host.CopyList(pluginrt.Handle(h), elems)
	// An undersized destination is a probe: the host copied nothing, so
	// guest memory must stay untouched.
	if n >= 0 && n <= int(capacity) {
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(elems[i]))
		}
	}
	return int32(n)
}

func (b *bridge) makeList(m mem, ptr, count uint32) int32 {
	buf, ok := b.bytesArg(m, "make-list", ptr, count*4)
	if !ok {
		return memFaultResult
	}
	elems := make([]pluginrt.Handle, count)
	for i := range elems {
		elems[i] = pluginrt.Handle(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return int32(b.host.MakeList(elems))
}

func (b *bridge) copyAttrName(m mem, h, idx, ptr, capacity uint32) int32 {
	if ptr == 0 {
		return int32(b.host.CopyAttrName(pluginrt.Handle(h), int(idx), nil))
	}
	dst, ok := m.Read(ptr, capacity)
	if !ok {
		return b.fault("copy-attr-name", ptr, capacity)
	}
	return int32(b.host.CopyAttrName(pluginrt.Handle(h), int(idx), dst))
}

// makeAttrs decodes count packed records. Each record's name is read
// from guest memory before construction; the host copies what it keeps.
func (b *bridge) makeAttrs(m mem, ptr, count uint32) int32 {
	buf, ok := b.bytesArg(m, "make-attrs", ptr, count*attrRecordSize)
	if !ok {
		return memFaultResult
	}
	entries := make([]pluginrt.AttrEntry, count)
	for i := range entries {
		rec := buf[i*attrRecordSize:]
		namePtr := binary.LittleEndian.Uint32(rec)
		nameLen := binary.LittleEndian.Uint32(rec[4:])
		name, ok := b.bytesArg(m, "make-attrs", namePtr, nameLen)
		if !ok {
			return memFaultResult
		}
		entries[i] = pluginrt.AttrEntry{
			Name:  name,
			Value: pluginrt.Handle(binary.LittleEndian.Uint32(rec[8:])),
		}
	}
	return int32(b.host.MakeAttrs(entries))
}

func (b *bridge) getAttr(m mem, h, ptr, n uint32) int32 {
	name, ok := b.bytesArg(m, "get-attr", ptr, n)
	if !ok {
		return memFaultResult
	}
	return int32(b.host.GetAttr(pluginrt.Handle(h), name))
}

func (b *bridge) readFile(m mem, ptr, n, dstPtr, dstCap uint32) int32 {
	path, ok := b.bytesArg(m, "read-file", ptr, n)
	if !ok {
		return memFaultResult
	}
	if dstPtr == 0 {
		return int32(b.host.ReadFile(path, nil))
	}
	dst, ok := m.Read(dstPtr, dstCap)
	if !ok {
		return b.fault("read-file", dstPtr, dstCap)
	}
	return int32(b.host.ReadFile(path, dst))
}

func (b *bridge) panicMsg(m mem, ptr, n uint32) {
	msg, ok := b.bytesArg(m, "host-panic", ptr, n)
	if !ok {
		return
	}
	b.host.Panic(string(msg))
}

func (b *bridge) warnMsg(m mem, ptr, n uint32) {
	msg, ok := b.bytesArg(m, "host-warn", ptr, n)
	if !ok {
		return
	}
	b.host.Warn(string(msg))
}
