package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "positioned syntax error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindSyntax,
				Detail: "unexpected character 'x'",
				Offset: 12,
			},
			contains: []string{"[decode]", "syntax", "unexpected character 'x'", "offset 12"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindUnsupported,
				Offset: -1,
			},
			contains: []string{"[encode]", "unsupported"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRuntime,
				Kind:   KindAllocation,
				Detail: "arena full",
				Offset: -1,
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[runtime]", "allocation", "arena full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_OffsetSuppressed(t *testing.T) {
	err := Exhausted(64, 8)
	if strings.Contains(err.Error(), "offset") {
		t.Errorf("non-positional error should not print an offset: %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseRuntime, KindInvalidInput, cause, "decode call")

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := Syntax(3, "missing ']'")

	if !errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindSyntax}) {
		t.Error("Is should match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseEncode, Kind: KindSyntax}) {
		t.Error("Is should not match different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindProtocol}) {
		t.Error("Is should not match different kind")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		phase    Phase
		kind     Kind
		contains string
	}{
		{"exhausted", Exhausted(128, 16), PhaseAlloc, KindAllocation, "need 128 bytes, 16 available"},
		{"protocol", Protocol(PhaseHost, "string copy", 10, 12), PhaseHost, KindProtocol, "reported length 10 then supplied 12"},
		{"host failure", HostFailure(PhaseHost, "negative length from copy-list"), PhaseHost, KindProtocol, "copy-list"},
		{"syntax formatted", Syntax(7, "expected %q", ":"), PhaseDecode, KindSyntax, `expected ":"`},
		{"unsupported", Unsupported(PhaseEncode, "function values have no JSON representation"), PhaseEncode, KindUnsupported, "no JSON representation"},
		{"not found", NotFound(PhaseHost, "file", "a.json"), PhaseHost, KindNotFound, `file "a.json" not found`},
		{"new formatted", New(PhaseRuntime, KindInvalidInput, "arena size %d", -1), PhaseRuntime, KindInvalidInput, "arena size -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase || tt.err.Kind != tt.kind {
				t.Errorf("got phase=%s kind=%s, want %s/%s", tt.err.Phase, tt.err.Kind, tt.phase, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}
