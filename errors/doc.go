// Package errors provides structured error types for the plugin runtime.
//
// Every error carries a Phase (where in processing it occurred) and a Kind
// (what category of failure it is), so callers can match on taxonomy with
// errors.Is while log output stays human-readable.
//
// The runtime has no recovery path: any error reaching an exported
// operation is fatal for that call and is forwarded to the host as a
// panic notification.
package errors
