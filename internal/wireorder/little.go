//go:build amd64 || arm64 || 386 || riscv64 || ppc64le || mips64le || mipsle || loong64 || wasm || arm

package wireorder

import "encoding/binary"

// Host returns the byte order eRPC structures are packed in on this
// machine, matching the reference implementation's raw in-memory struct
// writes on common little-endian Go ports.
func Host() binary.ByteOrder { return binary.LittleEndian }
