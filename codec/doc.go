// Package codec converts between textual JSON and host value trees.
//
// The decoder is a single-token-lookahead recursive descent parser over a
// byte cursor; it buffers the whole document up front and builds host
// values through the value layer, drawing all transient storage from the
// call arena. The encoder walks a value's transitive closure keyed on its
// type tag and serializes into an arena-backed buffer.
//
// Two deliberate divergences from strict JSON are preserved for
// compatibility with existing plugin callers: \uXXXX escapes are not
// interpreted (the escaped byte passes through verbatim), and float
// output is a fixed-point six-digit truncation with 1e308 standing in for
// infinity. Numbers with a bare trailing '.' or exponent marker are
// tolerated rather than rejected.
package codec
