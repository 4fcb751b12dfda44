// Package transport implements the framed message transport eRPC clients
// and servers exchange MessageBuffers over. FramedTransport wraps an
// io.Reader/io.Writer pair the way a typical stream-wrapping transport does,
// but with eRPC's own wire shape: a fixed 4-byte header (message length,
// then a CRC-16 of the payload) ahead of each message instead of a
// variable-length, protocol-selected frame.
package transport

import "code.hybscloud.com/erpc/msgbuf"

// Transport is the interface eRPC's client and server cores send and
// receive MessageBuffers through. Implementations decide how bytes
// actually move — a stream socket, a pipe, an in-process queue — but all
// of them hand complete, framed messages up to this level.
type Transport interface {
	// Send writes message's Used bytes as one framed message.
	Send(message *msgbuf.Buffer) error
	// Receive blocks until a complete framed message is available, then
	// fills message and sets its Used length.
	Receive(message *msgbuf.Buffer) error
}

// HasMessage is implemented by transports that can report whether a
// message is available without blocking, such as non-blocking-socket or
// buffered-pipe transports. The server's Poll loop uses it to avoid
// parking a goroutine on Receive when there's nothing to read yet.
type HasMessage interface {
	HasMessage() (bool, error)
}
