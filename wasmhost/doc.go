// Package wasmhost exposes a pluginrt.Host to WebAssembly guests as a
// wazero host module.
//
// The module is named "evaluator" and exports one function per Host
// method, kebab-cased. Handles travel as i32, byte payloads as
// (ptr, len) pairs into guest linear memory, and the copy convention
// maps onto pointers: a zero destination pointer is the nil probe, an
// undersized capacity probes without copying, and an adequate one
// copies. Attribute-set construction uses a packed 12-byte record per
// entry (name ptr, name len, value handle, little-endian u32 each).
//
// An out-of-range memory access is a guest protocol fault: the bridge
// raises the host panic notification and returns -1.
package wasmhost
