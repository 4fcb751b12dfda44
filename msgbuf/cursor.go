package msgbuf

import "code.hybscloud.com/erpc/erpcstatus"

// Cursor tracks a read/write position within a Buffer's capacity. position
// and remaining always satisfy position+remaining == buf.Capacity(); codecs
// hold one Cursor per direction (an in-cursor for decoding, an out-cursor
// for encoding) and never seek backward except via Reset.
type Cursor struct {
	buf       *Buffer
	position  int
	remaining int
}

// NewCursor returns a Cursor positioned at the start of buf's capacity.
func NewCursor(buf *Buffer) *Cursor {
	c := &Cursor{}
	c.Rebind(buf)
	return c
}

// Rebind points the cursor at a different Buffer and resets its position to
// the start. Codecs reuse a single Cursor across many messages by rebinding
// it to each new Buffer rather than allocating a fresh one.
func (c *Cursor) Rebind(buf *Buffer) {
	c.buf = buf
	c.position = 0
	c.remaining = buf.Capacity()
}

// Reset rewinds the cursor to the start of its current Buffer.
func (c *Cursor) Reset() {
	c.position = 0
	c.remaining = c.buf.Capacity()
}

// Buffer returns the Buffer this cursor is currently bound to.
func (c *Cursor) Buffer() *Buffer {
	return c.buf
}

// Position returns the current offset from the start of the buffer.
func (c *Cursor) Position() int {
	return c.position
}

// Remaining returns how many bytes may still be read or written before the
// buffer's capacity is exhausted.
func (c *Cursor) Remaining() int {
	return c.remaining
}

// Read copies len(dst) bytes starting at the cursor's position into dst and
// advances the cursor. It fails with erpcstatus.BufferOverrun if fewer than
// len(dst) bytes remain.
func (c *Cursor) Read(dst []byte) error {
	if len(dst) > c.remaining {
		return erpcstatus.New(erpcstatus.BufferOverrun)
	}
	copy(dst, c.buf.data[c.position:c.position+len(dst)])
	c.position += len(dst)
	c.remaining -= len(dst)
	return nil
}

// Write copies src into the buffer starting at the cursor's position,
// advances the cursor, and extends the buffer's Used length if the write
// reaches past it. It fails with erpcstatus.BufferOverrun if src would not
// fit in the remaining capacity.
func (c *Cursor) Write(src []byte) error {
	if len(src) > c.remaining {
		return erpcstatus.New(erpcstatus.BufferOverrun)
	}
	copy(c.buf.data[c.position:], src)
	c.position += len(src)
	c.remaining -= len(src)
	if c.position > c.buf.used {
		c.buf.used = c.position
	}
	return nil
}

// Skip advances the cursor by n bytes without reading or writing them,
// failing with erpcstatus.BufferOverrun if n exceeds Remaining. Codecs use
// this to step over a length-prefixed field they've already located through
// other means.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.remaining {
		return erpcstatus.New(erpcstatus.BufferOverrun)
	}
	c.position += n
	c.remaining -= n
	return nil
}
