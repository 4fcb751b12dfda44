// Package msgbuf implements the owned byte region and cursor that every
// other eRPC package reads and writes through: transports fill a Buffer off
// the wire, codecs walk it with a Cursor, and the arbitrator swaps Buffers
// between pending requests and their replies without copying payload bytes.
package msgbuf

import "code.hybscloud.com/erpc/erpcstatus"

// MaxCapacity is the largest capacity a Buffer may have. The wire frame
// header carries a message length in a uint16, so nothing downstream of the
// transport can ever need more.
const MaxCapacity = 1<<16 - 1

// Buffer is a fixed-capacity byte region plus a used-length. Capacity never
// changes after construction; Used marks how many of the leading bytes hold
// meaningful data. Buffer is not safe for concurrent use — callers that
// hand a Buffer across goroutines (arbitrator, client manager) do so by
// transferring ownership, never by sharing it.
type Buffer struct {
	data []byte
	used int
}

// NewBuffer allocates an owned Buffer with the given capacity. It panics if
// capacity is negative or exceeds MaxCapacity: both are programmer errors,
// since every caller either holds a fixed compile-time size or copies one
// from a BufferFactory that already enforces the bound.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 || capacity > MaxCapacity {
		panic("msgbuf: invalid buffer capacity")
	}
	return &Buffer{data: make([]byte, capacity)}
}

// WrapBuffer returns a Buffer that borrows data directly instead of
// allocating its own backing array. The caller retains ownership of data
// and must not mutate it while the Buffer is in use elsewhere.
func WrapBuffer(data []byte) *Buffer {
	if len(data) > MaxCapacity {
		panic("msgbuf: invalid buffer capacity")
	}
	return &Buffer{data: data}
}

// Capacity returns the fixed size of the underlying region.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Used returns the number of leading bytes currently holding data.
func (b *Buffer) Used() int {
	return b.used
}

// SetUsed sets the used length. It fails with erpcstatus.BufferOverrun if n
// is negative or exceeds Capacity.
func (b *Buffer) SetUsed(n int) error {
	if n < 0 || n > b.Capacity() {
		return erpcstatus.New(erpcstatus.BufferOverrun)
	}
	b.used = n
	return nil
}

// Data returns the full backing region, of length Capacity. Callers that
// want only the meaningful prefix should slice it to Used themselves, e.g.
// via UsedBytes.
func (b *Buffer) Data() []byte {
	return b.data
}

// UsedBytes returns data[:Used()], the portion of the region holding
// meaningful bytes.
func (b *Buffer) UsedBytes() []byte {
	return b.data[:b.used]
}

// WriteAt copies src into the region starting at offset, independent of any
// Cursor's position. It fails with erpcstatus.BufferOverrun if the write
// would run past Capacity. Unlike a Cursor's sequential Write, WriteAt does
// not advance Used — callers that rely on the write extending the buffer's
// valid length must call SetUsed themselves.
//
// This is the fixed form of a write-at-offset operation that, in the
// reference C implementation this package is modeled on, silently ignored
// its offset argument and always wrote to the start of the buffer.
func (b *Buffer) WriteAt(offset int, src []byte) error {
	if offset < 0 || offset+len(src) > b.Capacity() {
		return erpcstatus.New(erpcstatus.BufferOverrun)
	}
	copy(b.data[offset:], src)
	return nil
}

// Swap exchanges the backing region and used length of b and other. It is
// the zero-copy primitive the arbitrator uses to hand a reply buffer to its
// waiting client without copying payload bytes.
func (b *Buffer) Swap(other *Buffer) {
	b.data, other.data = other.data, b.data
	b.used, other.used = other.used, b.used
}
