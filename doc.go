// Package pluginrt provides the in-process runtime support shared by
// sandboxed WebAssembly plugins that extend a host language evaluator.
//
// Plugins never see the evaluator's values directly. Every value is named
// by an opaque integer Handle owned by the host, and all access goes
// through the accessor API captured by the Host interface. On top of that
// contract the module supplies call-scoped bump-pointer memory and a
// bidirectional JSON codec.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	pluginrt/            Root package with Handle, Type and the Host API contract
//	├── arena/           Bump allocator and arena-backed growable buffer
//	├── value/           Value handle layer (probe-then-copy host access)
//	├── codec/           JSON decoder and encoder over the value layer
//	├── errors/          Structured error types for debugging
//	├── runtime/         Exported decode/encode operations with per-call arenas
//	├── store/           In-process reference host implementation
//	└── wasmhost/        wazero host-module bridge exposing the Host API
//
// # Quick Start
//
// Round-trip a document through a reference host:
//
//	st := store.New()
//	rt := runtime.New(st)
//
//	root, err := rt.FromJSON([]byte(`{"x":[1,2,3]}`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := rt.ToJSON(root)
//	fmt.Println(string(st.StringBytes(out))) // {"x":[1,2,3]}
//
// # Memory Model
//
// All transient storage comes from a single arena that is reset at the
// start of every exported operation. There is no garbage collection and no
// individual deallocation; slices handed out by the arena are valid only
// until the next reset. Execution is strictly single-threaded and
// non-reentrant: exactly one exported operation is active at a time, so
// the arena is reused serially and never shared.
package pluginrt
