package codec

// StartWriteList writes a list's element count as a u32 prefix. Elements
// themselves are written by separate calls; there is no list terminator.
func (c *Codec) StartWriteList(length uint32) error {
	return c.WriteUint32(length)
}

// EndWriteList is a no-op that surfaces any sticky error.
func (c *Codec) EndWriteList() error {
	return c.Err()
}

// StartReadList reads a list's element count, written by StartWriteList. On
// failure it reports a length of zero, matching BasicCodec's own behavior
// of zeroing out-parameters it can no longer fill in.
func (c *Codec) StartReadList() (uint32, error) {
	length, err := c.ReadUint32()
	if err != nil {
		return 0, err
	}
	return length, nil
}

// EndReadList is a no-op that surfaces any sticky error.
func (c *Codec) EndReadList() error {
	return c.Err()
}
