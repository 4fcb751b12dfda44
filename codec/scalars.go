package codec

import (
	"math"

	"code.hybscloud.com/erpc/erpcstatus"
)

// writeData copies len(data) bytes into the buffer at the cursor and
// advances it, failing the codec with erpcstatus.BufferOverrun on
// overrun. Every scalar Write method is a thin wrapper around it, matching
// BasicCodec's own writeData helper.
func (c *Codec) writeData(data []byte) {
	if !c.ok() {
		return
	}
	if err := c.cursor.Write(data); err != nil {
		c.fail(erpcstatus.Cause(err))
	}
}

// readData copies len(dst) bytes from the cursor into dst and advances it,
// failing the codec with erpcstatus.BufferOverrun on overrun.
func (c *Codec) readData(dst []byte) {
	if !c.ok() {
		return
	}
	if err := c.cursor.Read(dst); err != nil {
		c.fail(erpcstatus.Cause(err))
	}
}

// WriteBool writes a single byte: 1 if value, 0 otherwise.
func (c *Codec) WriteBool(value bool) error {
	var v byte
	if value {
		v = 1
	}
	c.writeData([]byte{v})
	return c.Err()
}

// ReadBool reads a single byte written by WriteBool.
func (c *Codec) ReadBool() (bool, error) {
	var buf [1]byte
	c.readData(buf[:])
	return buf[0] != 0, c.Err()
}

// WriteInt8 writes a single signed byte.
func (c *Codec) WriteInt8(value int8) error {
	c.writeData([]byte{byte(value)})
	return c.Err()
}

// ReadInt8 reads a single signed byte.
func (c *Codec) ReadInt8() (int8, error) {
	var buf [1]byte
	c.readData(buf[:])
	return int8(buf[0]), c.Err()
}

// WriteUint8 writes a single unsigned byte.
func (c *Codec) WriteUint8(value uint8) error {
	c.writeData([]byte{value})
	return c.Err()
}

// ReadUint8 reads a single unsigned byte.
func (c *Codec) ReadUint8() (uint8, error) {
	var buf [1]byte
	c.readData(buf[:])
	return buf[0], c.Err()
}

// WriteInt16 writes a 16-bit signed integer in the codec's byte order.
func (c *Codec) WriteInt16(value int16) error {
	return c.WriteUint16(uint16(value))
}

// ReadInt16 reads a 16-bit signed integer in the codec's byte order.
func (c *Codec) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

// WriteUint16 writes a 16-bit unsigned integer in the codec's byte order.
func (c *Codec) WriteUint16(value uint16) error {
	var buf [2]byte
	c.order.PutUint16(buf[:], value)
	c.writeData(buf[:])
	return c.Err()
}

// ReadUint16 reads a 16-bit unsigned integer in the codec's byte order.
func (c *Codec) ReadUint16() (uint16, error) {
	var buf [2]byte
	c.readData(buf[:])
	if !c.ok() {
		return 0, c.Err()
	}
	return c.order.Uint16(buf[:]), nil
}

// WriteInt32 writes a 32-bit signed integer in the codec's byte order.
func (c *Codec) WriteInt32(value int32) error {
	return c.WriteUint32(uint32(value))
}

// ReadInt32 reads a 32-bit signed integer in the codec's byte order.
func (c *Codec) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// WriteUint32 writes a 32-bit unsigned integer in the codec's byte order.
func (c *Codec) WriteUint32(value uint32) error {
	var buf [4]byte
	c.order.PutUint32(buf[:], value)
	c.writeData(buf[:])
	return c.Err()
}

// ReadUint32 reads a 32-bit unsigned integer in the codec's byte order.
func (c *Codec) ReadUint32() (uint32, error) {
	var buf [4]byte
	c.readData(buf[:])
	if !c.ok() {
		return 0, c.Err()
	}
	return c.order.Uint32(buf[:]), nil
}

// WriteInt64 writes a 64-bit signed integer in the codec's byte order.
func (c *Codec) WriteInt64(value int64) error {
	return c.WriteUint64(uint64(value))
}

// ReadInt64 reads a 64-bit signed integer in the codec's byte order.
func (c *Codec) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err
}

// WriteUint64 writes a 64-bit unsigned integer in the codec's byte order.
func (c *Codec) WriteUint64(value uint64) error {
	var buf [8]byte
	c.order.PutUint64(buf[:], value)
	c.writeData(buf[:])
	return c.Err()
}

// ReadUint64 reads a 64-bit unsigned integer in the codec's byte order.
func (c *Codec) ReadUint64() (uint64, error) {
	var buf [8]byte
	c.readData(buf[:])
	if !c.ok() {
		return 0, c.Err()
	}
	return c.order.Uint64(buf[:]), nil
}

// WriteFloat32 writes a 32-bit IEEE 754 float in the codec's byte order.
func (c *Codec) WriteFloat32(value float32) error {
	return c.WriteUint32(math.Float32bits(value))
}

// ReadFloat32 reads a 32-bit IEEE 754 float in the codec's byte order.
func (c *Codec) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	return math.Float32frombits(v), err
}

// WriteFloat64 writes a 64-bit IEEE 754 float in the codec's byte order.
func (c *Codec) WriteFloat64(value float64) error {
	return c.WriteUint64(math.Float64bits(value))
}

// ReadFloat64 reads a 64-bit IEEE 754 float in the codec's byte order.
func (c *Codec) ReadFloat64() (float64, error) {
	v, err := c.ReadUint64()
	return math.Float64frombits(v), err
}
