package codec

import (
	"math"

	pluginrt "github.com/wippyai/plugin-runtime"
	"github.com/wippyai/plugin-runtime/arena"
	"github.com/wippyai/plugin-runtime/errors"
	"github.com/wippyai/plugin-runtime/value"
)

// minInt64Literal is emitted directly because negating math.MinInt64
// overflows.
const minInt64Literal = "-9223372036854775808"

type encoder struct {
	vals *value.Session
	buf  *arena.Buffer
}

// Encode serializes the transitive closure of root into buf as a single
// JSON document with no interior whitespace. List elements and attribute
// entries are emitted in the order the host reports them.
func Encode(s *value.Session, buf *arena.Buffer, root pluginrt.Handle) error {
	e := &encoder{vals: s, buf: buf}
	return e.encodeValue(root)
}

func (e *encoder) encodeValue(h pluginrt.Handle) error {
	switch t := e.vals.TypeOf(h); t {
	case pluginrt.TypeNull:
		return e.buf.WriteString("null")
	case pluginrt.TypeBoolean:
		if e.vals.Boolean(h) {
			return e.buf.WriteString("true")
		}
		return e.buf.WriteString("false")
	case pluginrt.TypeInteger:
		return e.encodeInteger(e.vals.Integer(h))
	case pluginrt.TypeFloat:
		return e.encodeFloat(e.vals.Float(h))
	case pluginrt.TypeString, pluginrt.TypePath:
		b, err := e.vals.String(h)
		if err != nil {
			return err
		}
		return e.encodeQuoted(b)
	case pluginrt.TypeList:
		return e.encodeList(h)
	case pluginrt.TypeAttrs:
		return e.encodeAttrs(h)
	case pluginrt.TypeFunction:
		return errors.Unsupported(errors.PhaseEncode, "function values have no JSON representation")
	default:
		return errors.Unsupported(errors.PhaseEncode, "cannot serialize value of type "+t.String())
	}
}

func (e *encoder) encodeList(h pluginrt.Handle) error {
	elems, err := e.vals.List(h)
	if err != nil {
		return err
	}
	if err := e.buf.AppendByte('['); err != nil {
		return err
	}
	for i, el := range elems {
		if i > 0 {
			if err := e.buf.AppendByte(','); err != nil {
				return err
			}
		}
		if err := e.encodeValue(el); err != nil {
			return err
		}
	}
	return e.buf.AppendByte(']')
}

func (e *encoder) encodeAttrs(h pluginrt.Handle) error {
	names, vals, err := e.vals.Attrs(h)
	if err != nil {
		return err
	}
	if err := e.buf.AppendByte('{'); err != nil {
		return err
	}
	for i := range names {
		if i > 0 {
			if err := e.buf.AppendByte(','); err != nil {
				return err
			}
		}
		if err := e.encodeQuoted(names[i]); err != nil {
			return err
		}
		if err := e.buf.AppendByte(':'); err != nil {
			return err
		}
		if err := e.encodeValue(vals[i]); err != nil {
			return err
		}
	}
	return e.buf.AppendByte('}')
}

func (e *encoder) encodeInteger(v int64) error {
	if v == math.MinInt64 {
		return e.buf.WriteString(minInt64Literal)
	}
	if v < 0 {
		if err := e.buf.AppendByte('-'); err != nil {
			return err
		}
		v = -v
	}
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	return e.buf.WriteBytes(tmp[i:])
}

// encodeFloat is a fixed-point approximation, not a round-trip
// formatter: exactly six fractional digits by repeated
// multiply-and-truncate, with 1e308 standing in for infinity.
func (e *encoder) encodeFloat(f float64) error {
	switch {
	case math.IsNaN(f):
		return e.buf.WriteString("null")
	case math.IsInf(f, 1):
		return e.buf.WriteString("1e308")
	case math.IsInf(f, -1):
		return e.buf.WriteString("-1e308")
	}

	if f < 0 {
		if err := e.buf.AppendByte('-'); err != nil {
			return err
		}
		f = -f
	}

	// Magnitudes at or above 2^63 overflow the int64 conversion below
	// (implementation-defined result, negative on amd64). The fractional
	// spacing of such doubles already exceeds 1, so emit the integer
	// digits by decimal decomposition and a zero fraction.
	if f >= 1<<63 {
		if err := e.encodeLargeFloat(f); err != nil {
			return err
		}
		return e.buf.WriteString(".000000")
	}

	ip := int64(f)
	if err := e.encodeInteger(ip); err != nil {
		return err
	}
	if err := e.buf.AppendByte('.'); err != nil {
		return err
	}
	frac := f - float64(ip)
	for i := 0; i < 6; i++ {
		frac *= 10
		digit := int(frac)
		if digit > 9 {
			digit = 9
		}
		if err := e.buf.AppendByte(byte('0' + digit)); err != nil {
			return err
		}
		frac -= float64(digit)
	}
	return nil
}

// encodeLargeFloat writes the integer digits of a finite non-negative f
// too large for int64, most significant first by repeated division.
func (e *encoder) encodeLargeFloat(f float64) error {
	div := 1.0
	for div*10 <= f {
		div *= 10
	}
	for div >= 1 {
		digit := int(f / div)
		if digit > 9 {
			digit = 9
		}
		if err := e.buf.AppendByte(byte('0' + digit)); err != nil {
			return err
		}
		f -= float64(digit) * div
		div /= 10
	}
	return nil
}

const hexDigits = "0123456789abcdef"

func (e *encoder) encodeQuoted(b []byte) error {
	if err := e.buf.AppendByte('"'); err != nil {
		return err
	}
	for _, c := range b {
		var err error
		switch c {
		case '"':
			err = e.buf.WriteString(`\"`)
		case '\\':
			err = e.buf.WriteString(`\\`)
		case '\b':
			err = e.buf.WriteString(`\b`)
		case '\f':
			err = e.buf.WriteString(`\f`)
		case '\n':
			err = e.buf.WriteString(`\n`)
		case '\r':
			err = e.buf.WriteString(`\r`)
		case '\t':
			err = e.buf.WriteString(`\t`)
		default:
			if c < 0x20 {
				err = e.buf.WriteBytes([]byte{'\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF]})
			} else {
				// Bytes at or above 0x20 pass through unescaped; there
				// is no Unicode-aware encoding beyond this.
				err = e.buf.AppendByte(c)
			}
		}
		if err != nil {
			return err
		}
	}
	return e.buf.AppendByte('"')
}
