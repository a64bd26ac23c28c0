// Package runtime exposes the plugin's exported operations.
//
// A Runtime owns one arena backing buffer and resets it at the start of
// every exported call, so each operation runs in fresh memory and no
// allocation crosses a call boundary. Execution is synchronous and
// non-reentrant: exactly one operation may be active at a time, and the
// host bounds call duration, not the runtime.
//
// Every fatal condition (arena exhaustion, host protocol violation,
// malformed input, unrepresentable value) signals the host through the
// panic notification and surfaces as a structured error; there is no
// retry or partial result anywhere.
package runtime
