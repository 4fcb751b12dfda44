package codec

import (
	"math/bits"

	"code.hybscloud.com/erpc/erpcstatus"
)

// PtrSize is the width, in bytes, of a uintptr on this machine. It is the
// largest pointer size WritePtr will ever emit and the largest ReadPtr will
// accept without failing.
const PtrSize = bits.UintSize / 8

// WritePtr writes a pointer-sized value as a one-byte width prefix followed
// by that many bytes of the value, little detail preserved from the
// reference codec so pointer-carrying messages stay self-describing across
// machines with different word sizes.
func (c *Codec) WritePtr(value uintptr) error {
	if !c.ok() {
		return c.Err()
	}
	_ = c.WriteUint8(PtrSize)
	var buf [PtrSize]byte
	v := uint64(value)
	for i := 0; i < PtrSize; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	c.writeData(buf[:])
	return c.Err()
}

// ReadPtr reads a pointer value written by WritePtr. It fails with
// erpcstatus.BadAddressScale if the wire width is wider than this
// machine's uintptr, since the value would not fit.
func (c *Codec) ReadPtr() (uintptr, error) {
	width, err := c.ReadUint8()
	if err != nil {
		return 0, err
	}
	if int(width) > PtrSize {
		c.fail(erpcstatus.BadAddressScale)
		return 0, c.Err()
	}
	buf := make([]byte, width)
	c.readData(buf)
	if !c.ok() {
		return 0, c.Err()
	}
	var v uint64
	for i := 0; i < int(width); i++ {
		v |= uint64(buf[i]) << (8 * i)
	}
	return uintptr(v), nil
}
