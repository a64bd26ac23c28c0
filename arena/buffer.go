package arena

// initialBufferSize is the block allocated by NewBuffer before any write.
const initialBufferSize = 4096

// Buffer is a byte-oriented append buffer backed by arena memory. Growth
// reallocates a fresh arena block of at least double the prior capacity
// and copies the written prefix; the old block is abandoned, consistent
// with arena semantics. Total size is bounded only by arena exhaustion.
type Buffer struct {
	a   *Arena
	buf []byte
	n   int
}

// NewBuffer returns a buffer with an initial arena block.
func NewBuffer(a *Arena) (*Buffer, error) {
	block, err := a.Alloc(initialBufferSize)
	if err != nil {
		return nil, err
	}
	return &Buffer{a: a, buf: block}, nil
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(v byte) error {
	if b.n == len(b.buf) {
		if err := b.grow(b.n + 1); err != nil {
			return err
		}
	}
	b.buf[b.n] = v
	b.n++
	return nil
}

// WriteBytes appends v.
func (b *Buffer) WriteBytes(v []byte) error {
	if b.n+len(v) > len(b.buf) {
		if err := b.grow(b.n + len(v)); err != nil {
			return err
		}
	}
	copy(b.buf[b.n:], v)
	b.n += len(v)
	return nil
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) error {
	if b.n+len(s) > len(b.buf) {
		if err := b.grow(b.n + len(s)); err != nil {
			return err
		}
	}
	copy(b.buf[b.n:], s)
	b.n += len(s)
	return nil
}

// Bytes returns the written prefix. The slice aliases arena memory and is
// valid until the next Reset.
func (b *Buffer) Bytes() []byte {
	return b.buf[:b.n]
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return b.n
}

func (b *Buffer) grow(need int) error {
	newCap := len(b.buf) * 2
	if newCap < need {
		newCap = need
	}
	block, err := b.a.Alloc(newCap)
	if err != nil {
		return err
	}
	copy(block, b.buf[:b.n])
	b.buf = block
	return nil
}
