// Package wireorder resolves the byte order eRPC's wire structures — frame
// headers and message headers alike — are packed in, and guards against
// byte orders the wire format has no encoding for.
//
// Host order detection is architecture-specific via build tags where
// commonly known, and falls back to a portable runtime check elsewhere.
package wireorder

import (
	"encoding/binary"

	"code.hybscloud.com/erpc/erpcstatus"
)

// Validate reports an error unless order is one of the two byte orders
// eRPC's wire format actually defines, binary.LittleEndian or
// binary.BigEndian. FramedTransport and the codec both accept an arbitrary
// binary.ByteOrder from callers (WithByteOrder, NewWithByteOrder) for
// heterogeneous deployments; this rejects anything else — a custom
// binary.AppendByteOrder implementation, say — before it can silently
// produce frames a peer's eRPC runtime would never recognize. The codec's
// NewWithByteOrder calls it; transport.WithByteOrder does not.
func Validate(order binary.ByteOrder) error {
	if order == binary.LittleEndian || order == binary.BigEndian {
		return nil
	}
	return erpcstatus.New(erpcstatus.InvalidArgument)
}
