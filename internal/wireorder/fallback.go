//go:build !amd64 && !arm64 && !386 && !riscv64 && !ppc64le && !mips64le && !mipsle && !loong64 && !wasm && !arm && !s390x && !ppc64 && !mips && !mips64

package wireorder

import (
	"encoding/binary"
	"unsafe"
)

// probeHostOrder determines the machine's byte order once at init time, for
// ports this package has no build tag for.
func probeHostOrder() binary.ByteOrder {
	var x uint16 = 0x0102
	b := *(*[2]byte)(unsafe.Pointer(&x))
	if b[0] == 0x01 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

var hostOrder = probeHostOrder()

// Host returns the machine's byte order, detected at runtime on ports this
// package has no dedicated build tag for.
func Host() binary.ByteOrder { return hostOrder }
