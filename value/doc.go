// Package value translates between opaque host handles and native data.
//
// Scalars pass straight through the accessor API. Variable-length
// payloads (strings, paths, lists, attribute names, file contents) are
// materialized into arena memory with a probe-then-copy protocol: the
// host is asked for the payload length, a buffer of exactly that size is
// carved from the arena, and the copy is re-issued. Call sites that
// expect small payloads probe through a fixed-size buffer first and fall
// back to the arena only when the host reports a larger length.
//
// The host reporting one length and then supplying another is a protocol
// violation and fatal for the call; it indicates a host integration bug,
// never bad user input.
package value
