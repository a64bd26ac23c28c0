package arena

import (
	"unsafe"

	"github.com/wippyai/plugin-runtime/errors"
)

// Align is the boundary every allocation starts on. 8 covers every type
// the runtime stores in arena memory.
const Align = 8

// Arena is a bump allocator over a fixed caller-supplied byte region.
type Arena struct {
	buf []byte
	off int
}

// New returns an arena bound to buf with the offset at zero.
func New(buf []byte) *Arena {
	a := &Arena{}
	a.Init(buf)
	return a
}

// Init binds the arena to buf and resets the offset. It may be called
// repeatedly to reuse the same backing storage across independent calls.
func (a *Arena) Init(buf []byte) {
	a.buf = buf
	a.off = 0
}

// Alloc reserves n bytes aligned to Align and returns a slice of exactly
// n bytes. A zero-byte request succeeds without consuming space. Alloc
// fails when the aligned offset plus n exceeds capacity; exhaustion is
// fatal for the surrounding call, there is no retry.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "negative allocation size")
	}
	if n == 0 {
		return []byte{}, nil
	}
	off := (a.off + Align - 1) &^ (Align - 1)
	if off+n > len(a.buf) || off+n < 0 {
		return nil, errors.Exhausted(n, len(a.buf)-a.off)
	}
	a.off = off + n
	return a.buf[off : off+n : off+n], nil
}

// Reset returns the offset to zero. All previously returned slices become
// logically invalid; the single-call-per-epoch discipline makes this safe.
func (a *Arena) Reset() {
	a.off = 0
}

// Owns reports whether b lies entirely within the arena's backing region.
func (a *Arena) Owns(b []byte) bool {
	if len(a.buf) == 0 || len(b) == 0 {
		return false
	}
	base := uintptr(unsafe.Pointer(&a.buf[0]))
	p := uintptr(unsafe.Pointer(&b[0]))
	return p >= base && p+uintptr(len(b)) <= base+uintptr(len(a.buf))
}

// Available returns the number of bytes left before exhaustion, ignoring
// alignment padding.
func (a *Arena) Available() int {
	return len(a.buf) - a.off
}

// Cap returns the capacity of the backing region.
func (a *Arena) Cap() int {
	return len(a.buf)
}

// Offset returns the current bump offset.
func (a *Arena) Offset() int {
	return a.off
}

// Make allocates count elements of T from the arena and reinterprets the
// byte allocation as a typed slice. A count of zero returns an empty
// slice without touching the arena.
//
// The byte region is opaque to the collector: a T holding pointers must
// reference only memory that outlives the arena epoch (the input document
// or the arena itself).
func Make[T any](a *Arena, count int) ([]T, error) {
	if count < 0 {
		return nil, errors.InvalidInput(errors.PhaseAlloc, "negative element count")
	}
	if count == 0 {
		return []T{}, nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	b, err := a.Alloc(count * size)
	if err != nil {
		return nil, err
	}
	out := unsafe.Slice((*T)(unsafe.Pointer(&b[0])), count)
	clear(out)
	return out, nil
}
