package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAlloc   Phase = "alloc"   // arena allocation
	PhaseDecode  Phase = "decode"  // JSON to host values
	PhaseEncode  Phase = "encode"  // host values to JSON
	PhaseHost    Phase = "host"    // accessor API calls
	PhaseRuntime Phase = "runtime" // exported operations
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation   Kind = "allocation"    // arena capacity exceeded
	KindProtocol     Kind = "protocol"      // probe/copy contract broken by the host
	KindSyntax       Kind = "syntax"        // malformed input document
	KindUnsupported  Kind = "unsupported"   // value has no JSON representation
	KindInvalidInput Kind = "invalid_input" // bad argument from the caller
	KindNotFound     Kind = "not_found"     // named resource does not exist
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Offset int // byte offset into the input document, -1 when not positional
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Offset >= 0 {
		b.WriteString(fmt.Sprintf(" (offset %d)", e.Offset))
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// New creates a structured error with a formatted detail message
func New(phase Phase, kind Kind, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Offset: -1,
	}
}

// Convenience constructors for common error patterns

// Exhausted creates an arena exhaustion error
func Exhausted(size, avail int) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("arena exhausted: need %d bytes, %d available", size, avail),
		Offset: -1,
	}
}

// Protocol creates a probe/copy contract violation error
func Protocol(phase Phase, what string, reported, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindProtocol,
		Detail: fmt.Sprintf("%s: host reported length %d then supplied %d", what, reported, got),
		Offset: -1,
	}
}

// HostFailure creates a protocol error for an accessor returning an
// unexpected sentinel
func HostFailure(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindProtocol,
		Detail: what,
		Offset: -1,
	}
}

// Syntax creates a positioned parse error
func Syntax(offset int, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindSyntax,
		Detail: detail,
		Offset: offset,
	}
}

// Unsupported creates an unrepresentable-value error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
		Offset: -1,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
		Offset: -1,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Offset: -1,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
		Offset: -1,
	}
}
