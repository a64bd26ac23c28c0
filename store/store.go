package store

import (
	"bytes"

	pluginrt "github.com/wippyai/plugin-runtime"
)

// val is one slot in the table. Exactly one group of fields is live,
// selected by typ; a non-nil thunk marks an unforced deferred application
// regardless of typ.
type val struct {
	typ   pluginrt.Type
	i     int64
	f     float64
	b     bool
	s     []byte
	list  []pluginrt.Handle
	names [][]byte
	vals  []pluginrt.Handle
	fn    func(pluginrt.Handle) pluginrt.Handle
	thunk *thunk
}

type thunk struct {
	fn     pluginrt.Handle
	arg    pluginrt.Handle
	forced pluginrt.Handle
}

// Store is a tagged-value table implementing pluginrt.Host.
type Store struct {
	slots    []val
	files    map[string][]byte
	warnings []string
	panics   []string

	// copyDelta is added to the next actual copy's return value, then
	// cleared. Tests use it to fake a host that reports one length and
	// supplies another.
	copyDelta int
}

// New returns an empty store.
func New() *Store {
	return &Store{files: make(map[string][]byte)}
}

func (s *Store) insert(v val) pluginrt.Handle {
	s.slots = append(s.slots, v)
	return pluginrt.Handle(len(s.slots))
}

// resolve returns the slot for h, forcing deferred applications. nil for
// invalid handles.
func (s *Store) resolve(h pluginrt.Handle) *val {
	for {
		if h == pluginrt.None || int(h) > len(s.slots) {
			return nil
		}
		v := &s.slots[h-1]
		if v.thunk == nil {
			return v
		}
		if v.thunk.forced == pluginrt.None {
			v.thunk.forced = s.Call(v.thunk.fn, v.thunk.arg)
			if v.thunk.forced == pluginrt.None {
				return nil
			}
		}
		h = v.thunk.forced
	}
}

// Len returns the number of live slots.
func (s *Store) Len() int {
	return len(s.slots)
}

// AddFunc registers a Go closure as a host function value.
func (s *Store) AddFunc(fn func(pluginrt.Handle) pluginrt.Handle) pluginrt.Handle {
	return s.insert(val{typ: pluginrt.TypeFunction, fn: fn})
}

// AddFile makes contents readable via the file read accessor.
func (s *Store) AddFile(name string, contents []byte) {
	s.files[name] = contents
}

// Warnings returns the collected warn notifications.
func (s *Store) Warnings() []string {
	return s.warnings
}

// Panics returns the collected panic notifications.
func (s *Store) Panics() []string {
	return s.panics
}

// FailNextCopy skews the next actual copy's returned length by delta,
// simulating a host protocol violation.
func (s *Store) FailNextCopy(delta int) {
	s.copyDelta = delta
}

func (s *Store) copied(n int) int {
	n += s.copyDelta
	s.copyDelta = 0
	return n
}

// StringBytes returns the raw bytes of a string or path value without
// going through the copy protocol. Test and CLI convenience.
func (s *Store) StringBytes(h pluginrt.Handle) []byte {
	v := s.resolve(h)
	if v == nil || (v.typ != pluginrt.TypeString && v.typ != pluginrt.TypePath) {
		return nil
	}
	return v.s
}

// Equal reports deep equality of two values under the host's notion of
// equality: attribute sets compare by key, not by order.
func (s *Store) Equal(a, b pluginrt.Handle) bool {
	va, vb := s.resolve(a), s.resolve(b)
	if va == nil || vb == nil || va.typ != vb.typ {
		return false
	}
	switch va.typ {
	case pluginrt.TypeInteger:
		return va.i == vb.i
	case pluginrt.TypeFloat:
		return va.f == vb.f
	case pluginrt.TypeBoolean:
		return va.b == vb.b
	case pluginrt.TypeString, pluginrt.TypePath:
		return bytes.Equal(va.s, vb.s)
	case pluginrt.TypeNull:
		return true
	case pluginrt.TypeList:
		if len(va.list) != len(vb.list) {
			return false
		}
		for i := range va.list {
			if !s.Equal(va.list[i], vb.list[i]) {
				return false
			}
		}
		return true
	case pluginrt.TypeAttrs:
		if len(va.names) != len(vb.names) {
			return false
		}
		for i, name := range va.names {
			other := s.GetAttr(b, name)
			if other == pluginrt.None || !s.Equal(va.vals[i], other) {
				return false
			}
		}
		return true
	}
	return false
}

// pluginrt.Host implementation

func (s *Store) TypeOf(h pluginrt.Handle) pluginrt.Type {
	v := s.resolve(h)
	if v == nil {
		return pluginrt.TypeNull
	}
	return v.typ
}

func (s *Store) Integer(h pluginrt.Handle) int64 {
	if v := s.resolve(h); v != nil && v.typ == pluginrt.TypeInteger {
		return v.i
	}
	return 0
}

func (s *Store) Float(h pluginrt.Handle) float64 {
	if v := s.resolve(h); v != nil && v.typ == pluginrt.TypeFloat {
		return v.f
	}
	return 0
}

func (s *Store) Boolean(h pluginrt.Handle) bool {
	if v := s.resolve(h); v != nil && v.typ == pluginrt.TypeBoolean {
		return v.b
	}
	return false
}

func (s *Store) MakeInteger(v int64) pluginrt.Handle {
	return s.insert(val{typ: pluginrt.TypeInteger, i: v})
}

func (s *Store) MakeFloat(v float64) pluginrt.Handle {
	return s.insert(val{typ: pluginrt.TypeFloat, f: v})
}

func (s *Store) MakeBoolean(v bool) pluginrt.Handle {
	return s.insert(val{typ: pluginrt.TypeBoolean, b: v})
}

func (s *Store) MakeNull() pluginrt.Handle {
	return s.insert(val{typ: pluginrt.TypeNull})
}

func (s *Store) CopyString(h pluginrt.Handle, dst []byte) int {
	v := s.resolve(h)
	if v == nil || (v.typ != pluginrt.TypeString && v.typ != pluginrt.TypePath) {
		return -1
	}
	if len(dst) < len(v.s) {
		return len(v.s)
	}
	copy(dst, v.s)
	return s.copied(len(v.s))
}

func (s *Store) MakeString(b []byte) pluginrt.Handle {
	return s.insert(val{typ: pluginrt.TypeString, s: append([]byte(nil), b...)})
}

func (s *Store) MakePath(b []byte) pluginrt.Handle {
	return s.insert(val{typ: pluginrt.TypePath, s: append([]byte(nil), b...)})
}

func (s *Store) CopyList(h pluginrt.Handle, dst []pluginrt.Handle) int {
	v := s.resolve(h)
	if v == nil || v.typ != pluginrt.TypeList {
		return -1
	}
	if len(dst) < len(v.list) {
		return len(v.list)
	}
	copy(dst, v.list)
	return s.copied(len(v.list))
}

func (s *Store) MakeList(elems []pluginrt.Handle) pluginrt.Handle {
	return s.insert(val{typ: pluginrt.TypeList, list: append([]pluginrt.Handle(nil), elems...)})
}

func (s *Store) AttrCount(h pluginrt.Handle) int {
	v := s.resolve(h)
	if v == nil || v.typ != pluginrt.TypeAttrs {
		return -1
	}
	return len(v.names)
}

func (s *Store) CopyAttrName(h pluginrt.Handle, idx int, dst []byte) int {
	v := s.resolve(h)
	if v == nil || v.typ != pluginrt.TypeAttrs || idx < 0 || idx >= len(v.names) {
		return -1
	}
	name := v.names[idx]
	if len(dst) < len(name) {
		return len(name)
	}
	copy(dst, name)
	return s.copied(len(name))
}

func (s *Store) AttrValue(h pluginrt.Handle, idx int) pluginrt.Handle {
	v := s.resolve(h)
	if v == nil || v.typ != pluginrt.TypeAttrs || idx < 0 || idx >= len(v.vals) {
		return pluginrt.None
	}
	return v.vals[idx]
}

func (s *Store) MakeAttrs(entries []pluginrt.AttrEntry) pluginrt.Handle {
	names := make([][]byte, len(entries))
	vals := make([]pluginrt.Handle, len(entries))
	for i, e := range entries {
		names[i] = append([]byte(nil), e.Name...)
		vals[i] = e.Value
	}
	return s.insert(val{typ: pluginrt.TypeAttrs, names: names, vals: vals})
}

func (s *Store) GetAttr(h pluginrt.Handle, name []byte) pluginrt.Handle {
	v := s.resolve(h)
	if v == nil || v.typ != pluginrt.TypeAttrs {
		return pluginrt.None
	}
	// Last-wins for duplicate keys, matching the evaluator.
	for i := len(v.names) - 1; i >= 0; i-- {
		if bytes.Equal(v.names[i], name) {
			return v.vals[i]
		}
	}
	return pluginrt.None
}

func (s *Store) Call(fn, arg pluginrt.Handle) pluginrt.Handle {
	v := s.resolve(fn)
	if v == nil || v.typ != pluginrt.TypeFunction || v.fn == nil {
		return pluginrt.None
	}
	return v.fn(arg)
}

func (s *Store) Defer(fn, arg pluginrt.Handle) pluginrt.Handle {
	return s.insert(val{thunk: &thunk{fn: fn, arg: arg}})
}

func (s *Store) ReadFile(path []byte, dst []byte) int {
	contents, ok := s.files[string(path)]
	if !ok {
		return -1
	}
	if len(dst) < len(contents) {
		return len(contents)
	}
	copy(dst, contents)
	return s.copied(len(contents))
}

func (s *Store) Panic(msg string) {
	s.panics = append(s.panics, msg)
}

func (s *Store) Warn(msg string) {
	s.warnings = append(s.warnings, msg)
}
