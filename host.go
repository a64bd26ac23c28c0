package pluginrt

// Handle is an opaque reference to a value owned by the host evaluator.
// Handle 0 is reserved and always invalid; it doubles as the "absent"
// result of attribute lookups.
//
// A Handle carries no ownership. It is a lookup key into host-managed
// storage and is valid only within the exported call that obtained it,
// except where it is passed back to the host as a return value.
type Handle uint32

// None is the reserved zero handle.
const None Handle = 0

// Type identifies the dynamic type of a host value. The enumeration is
// closed and mirrors the evaluator's tagged value representation.
type Type uint8

const (
	TypeInteger Type = iota
	TypeFloat
	TypeBoolean
	TypeString
	TypePath
	TypeNull
	TypeAttrs
	TypeList
	TypeFunction
)

func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeString:
		return "string"
	case TypePath:
		return "path"
	case TypeNull:
		return "null"
	case TypeAttrs:
		return "attrs"
	case TypeList:
		return "list"
	case TypeFunction:
		return "function"
	}
	return "unknown"
}

// AttrEntry pairs an attribute name with its value handle while an
// attribute set is being constructed. Entries are transient and typically
// live in arena memory; they are never persisted past the call.
type AttrEntry struct {
	Name  []byte
	Value Handle
}

// Host is the fixed accessor API exposed by the evaluator process.
//
// Copy convention: every Copy* method invoked with a nil destination
// reports the required element count without copying. Invoked with a
// destination at least that large, it copies and returns the actual
// count, which must equal the earlier report; a mismatch across the two
// calls is a host protocol violation. A destination that is non-nil but
// too small behaves like a probe: the required count is returned and
// nothing is copied. Negative returns indicate an invalid handle or a
// type mismatch.
type Host interface {
	// TypeOf reports the type tag of h. Tags are queried on demand and
	// must not be cached across host calls.
	TypeOf(h Handle) Type

	// Scalar accessors are direct pass-throughs with no allocation.
	Integer(h Handle) int64
	Float(h Handle) float64
	Boolean(h Handle) bool

	MakeInteger(v int64) Handle
	MakeFloat(v float64) Handle
	MakeBoolean(v bool) Handle
	MakeNull() Handle

	// CopyString copies the bytes of a string or path value.
	CopyString(h Handle, dst []byte) int
	MakeString(b []byte) Handle
	MakePath(b []byte) Handle

	// CopyList copies the element handles of a list value.
	CopyList(h Handle, dst []Handle) int
	MakeList(elems []Handle) Handle

	// AttrCount reports the number of entries in an attribute set.
	// Entry order is whatever order the host reports; it is not
	// guaranteed to be insertion order or stable across calls.
	AttrCount(h Handle) int
	CopyAttrName(h Handle, idx int, dst []byte) int
	AttrValue(h Handle, idx int) Handle
	MakeAttrs(entries []AttrEntry) Handle

	// GetAttr looks up an attribute by name. None means the key is
	// absent, which is a normal outcome rather than an error.
	GetAttr(h Handle, name []byte) Handle

	// Call applies a function value eagerly. Defer builds an
	// unevaluated application that the host forces on first use.
	Call(fn, arg Handle) Handle
	Defer(fn, arg Handle) Handle

	// ReadFile copies the contents of the file named by path, following
	// the same probe convention as the other Copy* methods.
	ReadFile(path []byte, dst []byte) int

	// Panic is a one-way fatal notification: the current call terminates
	// into the host without returning a value.
	Panic(msg string)
	// Warn is a one-way diagnostic notification with no control-flow
	// effect.
	Warn(msg string)
}
