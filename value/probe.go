package value

import (
	"github.com/wippyai/plugin-runtime/arena"
	"github.com/wippyai/plugin-runtime/errors"
)

// copyFunc is one copy-style accessor, already bound to its handle. It
// follows the Host copy convention: nil or undersized destinations probe,
// adequate destinations copy, negative means invalid handle or wrong type.
type copyFunc[T any] func(dst []T) int

// fetch materializes a payload using stack-probe-then-fallback: the first
// copy targets scratch, and only when the host reports a larger length is
// an arena buffer of the exact reported size allocated and the copy
// re-issued. Data that fit in scratch are still moved into arena memory
// so the result survives the caller's frame.
func fetch[T any](a *arena.Arena, scratch []T, what string, cp copyFunc[T]) ([]T, error) {
	n := cp(scratch)
	if n < 0 {
		return nil, errors.HostFailure(errors.PhaseHost, what+": negative length")
	}
	if n <= len(scratch) {
		out, err := arena.Make[T](a, n)
		if err != nil {
			return nil, err
		}
		copy(out, scratch[:n])
		return out, nil
	}

	out, err := arena.Make[T](a, n)
	if err != nil {
		return nil, err
	}
	if m := cp(out); m != n {
		return nil, errors.Protocol(errors.PhaseHost, what, n, m)
	}
	return out, nil
}

// fetchExact materializes a payload using null-probe-then-allocate: one
// zero-capacity call learns the exact length, then a single copy lands in
// an arena buffer of that size.
func fetchExact[T any](a *arena.Arena, what string, cp copyFunc[T]) ([]T, error) {
	n := cp(nil)
	if n < 0 {
		return nil, errors.HostFailure(errors.PhaseHost, what+": negative length")
	}
	out, err := arena.Make[T](a, n)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return out, nil
	}
	if m := cp(out); m != n {
		return nil, errors.Protocol(errors.PhaseHost, what, n, m)
	}
	return out, nil
}
