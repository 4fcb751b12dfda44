package codec

import "code.hybscloud.com/erpc/erpcstatus"

// WriteBinary writes a u32 length prefix followed by value's bytes.
func (c *Codec) WriteBinary(value []byte) error {
	if !c.ok() {
		return c.Err()
	}
	_ = c.WriteUint32(uint32(len(value)))
	c.writeData(value)
	return c.Err()
}

// WriteString writes a string the same way WriteBinary writes a blob: a u32
// length prefix followed by the raw bytes. BasicCodec treats strings as
// binary with no separate encoding of its own.
func (c *Codec) WriteString(value string) error {
	return c.WriteBinary([]byte(value))
}

// ReadBinary reads a u32 length prefix and returns a slice of that many
// bytes taken directly from the underlying buffer, without copying — the
// returned slice aliases the buffer and is only valid until the buffer is
// reused. Callers that need to keep the bytes past the buffer's lifetime
// must copy them.
func (c *Codec) ReadBinary() ([]byte, error) {
	length, _ := c.ReadUint32()
	if !c.ok() {
		return nil, c.Err()
	}
	if c.cursor.Remaining() < int(length) {
		c.fail(erpcstatus.BufferOverrun)
		return nil, c.Err()
	}
	start := c.cursor.Position()
	if err := c.cursor.Skip(int(length)); err != nil {
		c.fail(erpcstatus.BufferOverrun)
		return nil, c.Err()
	}
	return c.cursor.Buffer().Data()[start : start+int(length)], nil
}

// ReadString reads a length-prefixed blob the way ReadBinary does and
// converts it to a string, copying the bytes in the process (Go strings
// are immutable, so unlike ReadBinary this cannot alias the buffer).
func (c *Codec) ReadString() (string, error) {
	b, err := c.ReadBinary()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
