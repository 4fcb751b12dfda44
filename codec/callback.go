package codec

import (
	"reflect"

	"code.hybscloud.com/erpc/erpcstatus"
)

// FuncID returns a stable, comparable handle identifying fn. Go function
// values aren't comparable with ==, so generated bindings that register
// callbacks by function reference use FuncID to turn each one into a
// uintptr suitable as the T in WriteCallback/ReadCallback, the same way the
// reference codec compares raw function pointers.
func FuncID(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// WriteCallback encodes a callback selected from a fixed table of known
// callback handles (see FuncID). If the table holds exactly one entry,
// nothing is written to the wire: the peer already knows there's only one
// possible callback, so the value just has to equal that single entry or
// the codec fails with erpcstatus.UnknownCallback. With two or more
// entries, the callback's index in the table is written as a single byte.
//
// table must contain at least one entry; passing an empty table is a
// caller error reported as erpcstatus.InvalidArgument.
func WriteCallback[T comparable](c *Codec, table []T, selected T) error {
	if !c.ok() {
		return c.Err()
	}
	if len(table) == 0 {
		c.fail(erpcstatus.InvalidArgument)
		return c.Err()
	}
	if len(table) == 1 {
		if table[0] != selected {
			c.fail(erpcstatus.UnknownCallback)
		}
		return c.Err()
	}
	for i, fn := range table {
		if fn == selected {
			return c.WriteUint8(uint8(i))
		}
	}
	c.fail(erpcstatus.UnknownCallback)
	return c.Err()
}

// ReadCallback decodes a callback selected from table, the inverse of
// WriteCallback. A single-entry table always yields that entry without
// reading anything from the wire.
func ReadCallback[T comparable](c *Codec, table []T) (T, error) {
	var zero T
	if !c.ok() {
		return zero, c.Err()
	}
	if len(table) == 0 {
		c.fail(erpcstatus.InvalidArgument)
		return zero, c.Err()
	}
	if len(table) == 1 {
		return table[0], nil
	}
	index, err := c.ReadUint8()
	if err != nil {
		return zero, err
	}
	if int(index) >= len(table) {
		c.fail(erpcstatus.UnknownCallback)
		return zero, c.Err()
	}
	return table[index], nil
}
