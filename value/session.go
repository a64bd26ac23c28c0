package value

import (
	pluginrt "github.com/wippyai/plugin-runtime"
	"github.com/wippyai/plugin-runtime/arena"
	"github.com/wippyai/plugin-runtime/errors"
)

const (
	// stringProbeSize is the local buffer tried before falling back to an
	// arena copy for string and path payloads.
	stringProbeSize = 256
	// listProbeSize covers common small lists before arena fallback.
	listProbeSize = 64
)

// Session binds a host and the current call's arena. It is created fresh
// for every exported operation; the arena threading replaces the
// process-global arena of the single-module design.
type Session struct {
	host pluginrt.Host
	a    *arena.Arena
}

// NewSession returns a session over host using a for all materialized
// payloads.
func NewSession(host pluginrt.Host, a *arena.Arena) *Session {
	return &Session{host: host, a: a}
}

// Arena returns the call arena.
func (s *Session) Arena() *arena.Arena {
	return s.a
}

// TypeOf queries the type tag of h. Tags are never cached.
func (s *Session) TypeOf(h pluginrt.Handle) pluginrt.Type {
	return s.host.TypeOf(h)
}

// Integer, Float and Boolean are direct pass-throughs with no allocation.
func (s *Session) Integer(h pluginrt.Handle) int64 { return s.host.Integer(h) }
func (s *Session) Float(h pluginrt.Handle) float64 { return s.host.Float(h) }
func (s *Session) Boolean(h pluginrt.Handle) bool  { return s.host.Boolean(h) }

func (s *Session) MakeInteger(v int64) pluginrt.Handle { return s.host.MakeInteger(v) }
func (s *Session) MakeFloat(v float64) pluginrt.Handle { return s.host.MakeFloat(v) }
func (s *Session) MakeBoolean(v bool) pluginrt.Handle  { return s.host.MakeBoolean(v) }
func (s *Session) MakeNull() pluginrt.Handle           { return s.host.MakeNull() }

// String materializes the bytes of a string or path value into arena
// memory, probing through a small local buffer first.
func (s *Session) String(h pluginrt.Handle) ([]byte, error) {
	var scratch [stringProbeSize]byte
	return fetch(s.a, scratch[:], "string copy", func(dst []byte) int {
		return s.host.CopyString(h, dst)
	})
}

// MakeString constructs a host string from b.
func (s *Session) MakeString(b []byte) (pluginrt.Handle, error) {
	h := s.host.MakeString(b)
	if h == pluginrt.None {
		return pluginrt.None, errors.HostFailure(errors.PhaseHost, "make-string returned the reserved handle")
	}
	return h, nil
}

// MakePath constructs a host path from b.
func (s *Session) MakePath(b []byte) (pluginrt.Handle, error) {
	h := s.host.MakePath(b)
	if h == pluginrt.None {
		return pluginrt.None, errors.HostFailure(errors.PhaseHost, "make-path returned the reserved handle")
	}
	return h, nil
}

// List materializes the element handles of a list value.
func (s *Session) List(h pluginrt.Handle) ([]pluginrt.Handle, error) {
	var scratch [listProbeSize]pluginrt.Handle
	return fetch(s.a, scratch[:], "list copy", func(dst []pluginrt.Handle) int {
		return s.host.CopyList(h, dst)
	})
}

// MakeList constructs a host list from elems.
func (s *Session) MakeList(elems []pluginrt.Handle) (pluginrt.Handle, error) {
	h := s.host.MakeList(elems)
	if h == pluginrt.None {
		return pluginrt.None, errors.HostFailure(errors.PhaseHost, "make-list returned the reserved handle")
	}
	return h, nil
}

// Attrs materializes an attribute set as parallel name and value slices
// plus the shared length. Ordering is whatever the host reports; callers
// must not assume sorted or insertion order.
func (s *Session) Attrs(h pluginrt.Handle) ([][]byte, []pluginrt.Handle, error) {
	count := s.host.AttrCount(h)
	if count < 0 {
		return nil, nil, errors.HostFailure(errors.PhaseHost, "attr count: negative length")
	}

	names, err := arena.Make[[]byte](s.a, count)
	if err != nil {
		return nil, nil, err
	}
	vals, err := arena.Make[pluginrt.Handle](s.a, count)
	if err != nil {
		return nil, nil, err
	}

	for i := 0; i < count; i++ {
		name, err := fetchExact(s.a, "attr name copy", func(dst []byte) int {
			return s.host.CopyAttrName(h, i, dst)
		})
		if err != nil {
			return nil, nil, err
		}
		v := s.host.AttrValue(h, i)
		if v == pluginrt.None {
			return nil, nil, errors.HostFailure(errors.PhaseHost, "attr value returned the reserved handle")
		}
		names[i] = name
		vals[i] = v
	}
	return names, vals, nil
}

// MakeAttrs constructs an attribute set from entries. The caller supplies
// the contiguous wire-format array, typically carved from the arena.
func (s *Session) MakeAttrs(entries []pluginrt.AttrEntry) (pluginrt.Handle, error) {
	h := s.host.MakeAttrs(entries)
	if h == pluginrt.None {
		return pluginrt.None, errors.HostFailure(errors.PhaseHost, "make-attrs returned the reserved handle")
	}
	return h, nil
}

// GetAttr looks up name in an attribute set. None means absent and is a
// normal outcome, distinguished from every live handle by the zero value.
func (s *Session) GetAttr(h pluginrt.Handle, name []byte) pluginrt.Handle {
	return s.host.GetAttr(h, name)
}

// Call applies a function value eagerly.
func (s *Session) Call(fn, arg pluginrt.Handle) (pluginrt.Handle, error) {
	h := s.host.Call(fn, arg)
	if h == pluginrt.None {
		return pluginrt.None, errors.HostFailure(errors.PhaseHost, "call returned the reserved handle")
	}
	return h, nil
}

// Defer builds an unevaluated application the host forces on first use.
func (s *Session) Defer(fn, arg pluginrt.Handle) (pluginrt.Handle, error) {
	h := s.host.Defer(fn, arg)
	if h == pluginrt.None {
		return pluginrt.None, errors.HostFailure(errors.PhaseHost, "defer returned the reserved handle")
	}
	return h, nil
}

// ReadFile materializes the contents of the file named by path.
func (s *Session) ReadFile(path []byte) ([]byte, error) {
	n := s.host.ReadFile(path, nil)
	if n < 0 {
		return nil, errors.NotFound(errors.PhaseHost, "file", string(path))
	}
	out, err := arena.Make[byte](s.a, n)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return out, nil
	}
	if m := s.host.ReadFile(path, out); m != n {
		return nil, errors.Protocol(errors.PhaseHost, "file read", n, m)
	}
	return out, nil
}

// Warn forwards a non-fatal diagnostic to the host.
func (s *Session) Warn(msg string) {
	s.host.Warn(msg)
}
