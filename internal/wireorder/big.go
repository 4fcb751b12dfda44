//go:build s390x || ppc64 || mips || mips64

package wireorder

import "encoding/binary"

// Host returns the byte order eRPC structures are packed in on this
// machine, matching the reference implementation's raw in-memory struct
// writes on common big-endian Go ports.
func Host() binary.ByteOrder { return binary.BigEndian }
