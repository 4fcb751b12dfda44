package msgbuf

import "sync"

// BufferFactory creates and disposes of Buffers. The client manager and
// the server receive Buffers through a factory instead of calling
// NewBuffer directly, so a caller with a high request rate can substitute
// a pooled implementation without changing any other package.
type BufferFactory interface {
	// Create returns a Buffer ready for use, with Used reset to zero.
	Create() *Buffer
	// Dispose releases buf back to the factory. Callers must not use buf
	// after calling Dispose.
	Dispose(buf *Buffer)
}

// DefaultCapacity is the buffer size a PooledFactory uses when none is
// given. It comfortably holds the message header and a small argument
// list (the transport's frame header is not stored in the Buffer), which
// covers the common
// invocation/reply shape this runtime targets.
const DefaultCapacity = 256

// PooledFactory is a BufferFactory backed by a sync.Pool of fixed-capacity
// Buffers. Every Buffer it hands out has the same capacity, so Dispose can
// always return it to the same pool; eRPC messages are capped at
// MaxCapacity, so unlike a general-purpose byte-slice pool this factory has
// no need for size tiers.
type PooledFactory struct {
	capacity int
	pool     sync.Pool
}

// NewPooledFactory returns a PooledFactory whose Buffers have the given
// capacity. It panics if capacity is invalid, for the same reason NewBuffer
// does.
func NewPooledFactory(capacity int) *PooledFactory {
	if capacity < 0 || capacity > MaxCapacity {
		panic("msgbuf: invalid buffer capacity")
	}
	f := &PooledFactory{capacity: capacity}
	f.pool.New = func() any {
		return NewBuffer(f.capacity)
	}
	return f
}

// NewDefaultPooledFactory returns a PooledFactory using DefaultCapacity.
func NewDefaultPooledFactory() *PooledFactory {
	return NewPooledFactory(DefaultCapacity)
}

// Capacity returns the fixed capacity of Buffers this factory produces.
func (f *PooledFactory) Capacity() int {
	return f.capacity
}

// Create returns a Buffer from the pool with Used reset to zero.
func (f *PooledFactory) Create() *Buffer {
	buf := f.pool.Get().(*Buffer)
	buf.used = 0
	return buf
}

// Dispose returns buf to the pool. Buffers whose capacity doesn't match the
// factory's — which should never happen through normal use — are dropped
// instead of pooled, so a misuse can't corrupt a future Create call with
// the wrong size.
func (f *PooledFactory) Dispose(buf *Buffer) {
	if buf == nil || buf.Capacity() != f.capacity {
		return
	}
	f.pool.Put(buf)
}
