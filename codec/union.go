package codec

// StartWriteUnion writes a union's discriminator as a signed 32-bit value.
func (c *Codec) StartWriteUnion(discriminator int32) error {
	return c.WriteInt32(discriminator)
}

// EndWriteUnion is a no-op that surfaces any sticky error.
func (c *Codec) EndWriteUnion() error {
	return c.Err()
}

// StartReadUnion reads a union's discriminator, written by
// StartWriteUnion.
func (c *Codec) StartReadUnion() (int32, error) {
	return c.ReadInt32()
}

// EndReadUnion is a no-op that surfaces any sticky error.
func (c *Codec) EndReadUnion() error {
	return c.Err()
}

// nullFlag values distinguish a present value from a null one on the wire.
const (
	notNull uint8 = 0
	isNull  uint8 = 1
)

// WriteNullFlag writes the single-byte flag that precedes every nullable
// field, indicating whether the value that follows is present.
func (c *Codec) WriteNullFlag(null bool) error {
	if null {
		return c.WriteUint8(isNull)
	}
	return c.WriteUint8(notNull)
}

// ReadNullFlag reads the flag written by WriteNullFlag.
func (c *Codec) ReadNullFlag() (bool, error) {
	flag, err := c.ReadUint8()
	if err != nil {
		return false, err
	}
	return flag == isNull, nil
}
