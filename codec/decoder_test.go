package codec

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	pluginrt "github.com/wippyai/plugin-runtime"
	"github.com/wippyai/plugin-runtime/arena"
	rterrors "github.com/wippyai/plugin-runtime/errors"
	"github.com/wippyai/plugin-runtime/store"
	"github.com/wippyai/plugin-runtime/value"
)

func newDecodeSession(t *testing.T) (*store.Store, *value.Session) {
	t.Helper()
	st := store.New()
	return st, value.NewSession(st, arena.New(make([]byte, 8<<20)))
}

func decodeOK(t *testing.T, st *store.Store, s *value.Session, doc string) pluginrt.Handle {
	t.Helper()
	h, err := Decode(s, []byte(doc))
	if err != nil {
		t.Fatalf("Decode(%q): %v", doc, err)
	}
	return h
}

func TestDecodeScalars(t *testing.T) {
	st, s := newDecodeSession(t)

	tests := []struct {
		doc  string
		typ  pluginrt.Type
		want any
	}{
		{"42", pluginrt.TypeInteger, int64(42)},
		{"-7", pluginrt.TypeInteger, int64(-7)},
		{"0", pluginrt.TypeInteger, int64(0)},
		{"-9223372036854775808", pluginrt.TypeInteger, int64(math.MinInt64)},
		{"true", pluginrt.TypeBoolean, true},
		{"false", pluginrt.TypeBoolean, false},
		{"null", pluginrt.TypeNull, nil},
		{"1.5", pluginrt.TypeFloat, 1.5},
		{"-0.25", pluginrt.TypeFloat, -0.25},
		{"1e2", pluginrt.TypeFloat, 100.0},
		{"25e-2", pluginrt.TypeFloat, 0.25},
		{"1E+2", pluginrt.TypeFloat, 100.0},
		// Deliberate leniency: empty fractional and exponent digit runs.
		{"2.", pluginrt.TypeFloat, 2.0},
		{"3e", pluginrt.TypeFloat, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			h := decodeOK(t, st, s, tt.doc)
			if got := st.TypeOf(h); got != tt.typ {
				t.Fatalf("type = %v, want %v", got, tt.typ)
			}
			switch want := tt.want.(type) {
			case int64:
				if st.Integer(h) != want {
					t.Errorf("integer = %d, want %d", st.Integer(h), want)
				}
			case float64:
				if st.Float(h) != want {
					t.Errorf("float = %g, want %g", st.Float(h), want)
				}
			case bool:
				if st.Boolean(h) != want {
					t.Errorf("boolean = %v, want %v", st.Boolean(h), want)
				}
			}
		})
	}
}

func TestDecodeStrings(t *testing.T) {
	st, s := newDecodeSession(t)

	tests := []struct {
		doc  string
		want string
	}{
		{`""`, ""},
		{`"hello"`, "hello"},
		{`"a\nb"`, "a\nb"},
		{`"q\"w\\e\/r"`, `q"w\e/r`},
		{`"\b\f\r\t"`, "\b\f\r\t"},
		// Unrecognized escapes pass the escaped byte through verbatim.
		{`"\x"`, "x"},
		// \uXXXX is deliberately not interpreted.
		{`"\u0041"`, "u0041"},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			h := decodeOK(t, st, s, tt.doc)
			if got := string(st.StringBytes(h)); got != tt.want {
				t.Errorf("string = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeObjectLiteral(t *testing.T) {
	st, s := newDecodeSession(t)

	h := decodeOK(t, st, s, `{ "x": 42 }`)
	if st.TypeOf(h) != pluginrt.TypeAttrs {
		t.Fatalf("type = %v", st.TypeOf(h))
	}
	x := st.GetAttr(h, []byte("x"))
	if x == pluginrt.None || st.Integer(x) != 42 {
		t.Errorf("x = %d", st.Integer(x))
	}
}

func TestDecodeNested(t *testing.T) {
	st, s := newDecodeSession(t)

	h := decodeOK(t, st, s, `{"a":[1,2,3],"b":null}`)
	a := st.GetAttr(h, []byte("a"))
	if st.TypeOf(a) != pluginrt.TypeList {
		t.Fatalf("a is %v", st.TypeOf(a))
	}
	elems := make([]pluginrt.Handle, 3)
	if n := st.CopyList(a, elems); n != 3 {
		t.Fatalf("list length = %d", n)
	}
	for i, want := range []int64{1, 2, 3} {
		if st.Integer(elems[i]) != want {
			t.Errorf("a[%d] = %d, want %d", i, st.Integer(elems[i]), want)
		}
	}
	if b := st.GetAttr(h, []byte("b")); st.TypeOf(b) != pluginrt.TypeNull {
		t.Errorf("b is %v", st.TypeOf(b))
	}
}

func TestDecodeZeroCopyCleanStrings(t *testing.T) {
	st, s := newDecodeSession(t)
	// A clean literal references the input buffer directly; the store
	// copies on MakeString, so just confirm the value survives.
	h := decodeOK(t, st, s, `["abcdef"]`)
	elems := make([]pluginrt.Handle, 1)
	st.CopyList(h, elems)
	if got := string(st.StringBytes(elems[0])); got != "abcdef" {
		t.Errorf("clean string = %q", got)
	}
}

func TestDecodeDuplicateKeysPassThrough(t *testing.T) {
	st, s := newDecodeSession(t)
	h := decodeOK(t, st, s, `{"k":1,"k":2}`)
	if n := st.AttrCount(h); n != 2 {
		t.Fatalf("duplicate keys were merged: count = %d", n)
	}
	// The host's own policy applies on lookup; the store is last-wins.
	if got := st.Integer(st.GetAttr(h, []byte("k"))); got != 2 {
		t.Errorf("lookup = %d", got)
	}
}

func TestDecodeWhitespace(t *testing.T) {
	st, s := newDecodeSession(t)
	h := decodeOK(t, st, s, " \t\r\n{ \"a\" :\n[ 1 , 2 ] }\r\n")
	a := st.GetAttr(h, []byte("a"))
	if n := st.CopyList(a, nil); n != 2 {
		t.Errorf("list length = %d", n)
	}
}

func TestDecodeErrors(t *testing.T) {
	_, s := newDecodeSession(t)

	tests := []string{
		"",
		"tru",
		"nul",
		"falsy",
		"[1,2",
		"[1,]",
		"[1 2]",
		`{"a":1`,
		`{"a" 1}`,
		`{a:1}`,
		`{"a":}`,
		`"unterminated`,
		"@",
		"1 2",
		"[,1]",
		"-",
		"[-]",
		"-.5",
	}

	for _, doc := range tests {
		t.Run(strconv.Quote(doc), func(t *testing.T) {
			_, err := Decode(s, []byte(doc))
			if err == nil {
				t.Fatalf("Decode(%q) succeeded", doc)
			}
			if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseDecode, Kind: rterrors.KindSyntax}) {
				t.Errorf("Decode(%q) wrong taxonomy: %v", doc, err)
			}
		})
	}
}

func buildArray(n int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('1')
	}
	b.WriteByte(']')
	return b.String()
}

func buildObject(n int) string {
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`"k` + strconv.Itoa(i) + `":1`)
	}
	b.WriteByte('}')
	return b.String()
}

func TestDecodeContainerCeiling(t *testing.T) {
	st, s := newDecodeSession(t)

	h := decodeOK(t, st, s, buildArray(MaxContainerElems))
	if n := st.CopyList(h, nil); n != MaxContainerElems {
		t.Fatalf("max array length = %d", n)
	}
	if _, err := Decode(s, []byte(buildArray(MaxContainerElems+1))); err == nil {
		t.Fatal("array over the ceiling should be fatal")
	}

	s.Arena().Reset()
	oh, err := Decode(s, []byte(buildObject(MaxContainerElems)))
	if err != nil {
		t.Fatalf("max object: %v", err)
	}
	if n := st.AttrCount(oh); n != MaxContainerElems {
		t.Fatalf("max object entries = %d", n)
	}
	s.Arena().Reset()
	if _, err := Decode(s, []byte(buildObject(MaxContainerElems+1))); err == nil {
		t.Fatal("object over the ceiling should be fatal")
	}
}
