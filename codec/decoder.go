package codec

import (
	pluginrt "github.com/wippyai/plugin-runtime"
	"github.com/wippyai/plugin-runtime/arena"
	"github.com/wippyai/plugin-runtime/errors"
	"github.com/wippyai/plugin-runtime/value"
)

// MaxContainerElems is the fixed ceiling on array elements and object
// pairs per nesting level. Exceeding it is fatal, not a growth case.
const MaxContainerElems = 4096

type decoder struct {
	vals *value.Session
	in   []byte
	pos  int
}

// Decode parses doc into a tree of host values and returns the root
// handle. Any malformed input aborts the whole parse; there is no
// partial-result mode.
func Decode(s *value.Session, doc []byte) (pluginrt.Handle, error) {
	d := &decoder{vals: s, in: doc}
	d.skipWhitespace()
	h, err := d.parseValue()
	if err != nil {
		return pluginrt.None, err
	}
	d.skipWhitespace()
	if d.pos != len(d.in) {
		return pluginrt.None, errors.Syntax(d.pos, "trailing data after top-level value")
	}
	return h, nil
}

func (d *decoder) peek() byte {
	if d.pos >= len(d.in) {
		return 0
	}
	return d.in[d.pos]
}

func (d *decoder) skipWhitespace() {
	for d.pos < len(d.in) {
		switch d.in[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) parseValue() (pluginrt.Handle, error) {
	switch c := d.peek(); {
	case c == '{':
		return d.parseObject()
	case c == '[':
		return d.parseArray()
	case c == '"':
		b, err := d.parseString()
		if err != nil {
			return pluginrt.None, err
		}
		return d.vals.MakeString(b)
	case c == 't':
		if err := d.expectKeyword("true"); err != nil {
			return pluginrt.None, err
		}
		return d.vals.MakeBoolean(true), nil
	case c == 'f':
		if err := d.expectKeyword("false"); err != nil {
			return pluginrt.None, err
		}
		return d.vals.MakeBoolean(false), nil
	case c == 'n':
		if err := d.expectKeyword("null"); err != nil {
			return pluginrt.None, err
		}
		return d.vals.MakeNull(), nil
	case c == '-' || (c >= '0' && c <= '9'):
		return d.parseNumber()
	case d.pos >= len(d.in):
		return pluginrt.None, errors.Syntax(d.pos, "unexpected end of input")
	default:
		return pluginrt.None, errors.Syntax(d.pos, "unexpected character %q", c)
	}
}

func (d *decoder) expectKeyword(kw string) error {
	if d.pos+len(kw) > len(d.in) || string(d.in[d.pos:d.pos+len(kw)]) != kw {
		return errors.Syntax(d.pos, "invalid keyword, expected %q", kw)
	}
	d.pos += len(kw)
	return nil
}

// parseString decodes a string literal in two passes: a scan to the
// closing unescaped quote that also detects escapes, then either a
// zero-copy reference into the input buffer (no escapes) or an arena
// decode of at most the raw length.
func (d *decoder) parseString() ([]byte, error) {
	start := d.pos
	d.pos++ // opening quote
	scanStart := d.pos
	hasEscape := false
	for {
		if d.pos >= len(d.in) {
			return nil, errors.Syntax(start, "unterminated string")
		}
		c := d.in[d.pos]
		if c == '\\' {
			hasEscape = true
			d.pos += 2
			continue
		}
		if c == '"' {
			break
		}
		d.pos++
	}
	raw := d.in[scanStart:d.pos]
	d.pos++ // closing quote

	if !hasEscape {
		return raw, nil
	}

	out, err := arena.Make[byte](d.vals.Arena(), len(raw))
	if err != nil {
		return nil, err
	}
	n := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			out[n] = c
			n++
			continue
		}
		i++
		switch raw[i] {
		case 'b':
			out[n] = '\b'
		case 'f':
			out[n] = '\f'
		case 'n':
			out[n] = '\n'
		case 'r':
			out[n] = '\r'
		case 't':
			out[n] = '\t'
		default:
			// Includes \" \\ \/ and, deliberately, \uXXXX: the escaped
			// byte passes through verbatim and the hex digits stay as-is.
			out[n] = raw[i]
		}
		n++
	}
	return out[:n], nil
}

// parseNumber accumulates digits manually. Length-zero digit runs after a
// '.' or exponent marker are tolerated and contribute zero, but a sign
// with no digits at all is rejected; there is no overflow checking on the
// integer path and exponent scaling is repeated multiplication, so
// extreme inputs lose precision silently.
func (d *decoder) parseNumber() (pluginrt.Handle, error) {
	start := d.pos
	neg := false
	if d.peek() == '-' {
		neg = true
		d.pos++
	}
	if c := d.peek(); c < '0' || c > '9' {
		return pluginrt.None, errors.Syntax(start, "'-' must be followed by a digit")
	}

	isFloat := false
	var iv int64
	var mant float64
	for c := d.peek(); c >= '0' && c <= '9'; c = d.peek() {
		iv = iv*10 + int64(c-'0')
		mant = mant*10 + float64(c-'0')
		d.pos++
	}

	var frac float64
	fracDigits := 0
	if d.peek() == '.' {
		isFloat = true
		d.pos++
		for c := d.peek(); c >= '0' && c <= '9'; c = d.peek() {
			frac = frac*10 + float64(c-'0')
			fracDigits++
			d.pos++
		}
	}

	expNeg := false
	exp := 0
	if c := d.peek(); c == 'e' || c == 'E' {
		isFloat = true
		d.pos++
		switch d.peek() {
		case '+':
			d.pos++
		case '-':
			expNeg = true
			d.pos++
		}
		for c := d.peek(); c >= '0' && c <= '9'; c = d.peek() {
			exp = exp*10 + int(c-'0')
			d.pos++
		}
	}

	if !isFloat {
		if neg {
			iv = -iv
		}
		return d.vals.MakeInteger(iv), nil
	}

	f := mant
	for i := 0; i < fracDigits; i++ {
		frac /= 10
	}
	f += frac
	for i := 0; i < exp; i++ {
		if expNeg {
			f /= 10
		} else {
			f *= 10
		}
	}
	if neg {
		f = -f
	}
	return d.vals.MakeFloat(f), nil
}

func (d *decoder) parseArray() (pluginrt.Handle, error) {
	open := d.pos
	d.pos++ // '['

	elems, err := arena.Make[pluginrt.Handle](d.vals.Arena(), MaxContainerElems)
	if err != nil {
		return pluginrt.None, err
	}
	count := 0

	d.skipWhitespace()
	if d.peek() == ']' {
		d.pos++
		return d.vals.MakeList(elems[:0])
	}

	for {
		if count == MaxContainerElems {
			return pluginrt.None, errors.Syntax(open, "array exceeds %d elements", MaxContainerElems)
		}
		h, err := d.parseValue()
		if err != nil {
			return pluginrt.None, err
		}
		elems[count] = h
		count++

		d.skipWhitespace()
		switch d.peek() {
		case ',':
			// A comma must be immediately followed by another value;
			// the next parseValue rejects a trailing comma.
			d.pos++
			d.skipWhitespace()
		case ']':
			d.pos++
			return d.vals.MakeList(elems[:count])
		default:
			return pluginrt.None, errors.Syntax(d.pos, "expected ',' or ']' in array")
		}
	}
}

func (d *decoder) parseObject() (pluginrt.Handle, error) {
	open := d.pos
	d.pos++ // '{'

	entries, err := arena.Make[pluginrt.AttrEntry](d.vals.Arena(), MaxContainerElems)
	if err != nil {
		return pluginrt.None, err
	}
	count := 0

	d.skipWhitespace()
	if d.peek() == '}' {
		d.pos++
		return d.vals.MakeAttrs(entries[:0])
	}

	for {
		if count == MaxContainerElems {
			return pluginrt.None, errors.Syntax(open, "object exceeds %d entries", MaxContainerElems)
		}
		if d.peek() != '"' {
			return pluginrt.None, errors.Syntax(d.pos, "expected string key in object")
		}
		name, err := d.parseString()
		if err != nil {
			return pluginrt.None, err
		}
		d.skipWhitespace()
		if d.peek() != ':' {
			return pluginrt.None, errors.Syntax(d.pos, "expected ':' after object key")
		}
		d.pos++
		d.skipWhitespace()
		h, err := d.parseValue()
		if err != nil {
			return pluginrt.None, err
		}
		// Duplicate keys are not detected here; all entries pass through
		// and the host's own duplicate policy applies.
		entries[count] = pluginrt.AttrEntry{Name: name, Value: h}
		count++

		d.skipWhitespace()
		switch d.peek() {
		case ',':
			d.pos++
			d.skipWhitespace()
		case '}':
			d.pos++
			return d.vals.MakeAttrs(entries[:count])
		default:
			return pluginrt.None, errors.Syntax(d.pos, "expected ',' or '}' in object")
		}
	}
}
