// Package arena implements call-scoped bump-pointer memory.
//
// An Arena carves allocations out of a single caller-supplied byte region
// by advancing one offset. Nothing is ever freed individually; Reset
// reclaims the whole region at once and invalidates every slice handed
// out since the previous reset. The runtime resets the arena at the start
// of each exported call, so no allocation crosses a call boundary.
//
// Typical lifecycle:
//
//	1) Init the arena over a backing buffer.
//	2) Alloc and Make while the call runs.
//	3) Reset at the next call entry and reuse the same backing buffer.
//
// Arena methods are not safe for concurrent use. The runtime's execution
// model guarantees a single active call, which is the only discipline
// that makes whole-region reset sound.
package arena
