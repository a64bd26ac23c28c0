// Package store provides an in-process reference implementation of the
// evaluator's accessor API.
//
// Values live in a slot table keyed by handle, with handle 0 reserved and
// always invalid. The store implements the probe-then-copy convention
// exactly as a real evaluator host would, including the ability to inject
// a length mismatch so protocol-violation handling can be tested.
//
// The store backs the package tests and the cmd/run tool; production
// deployments talk to the real evaluator through the wasmhost bridge
// instead.
package store
