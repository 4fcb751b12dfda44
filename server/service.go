// Package server implements the dispatch side of eRPC: Service is the
// interface generated (or hand-written) request handlers implement, and
// SimpleServer drives the receive-dispatch-reply loop that calls them.
package server

import "code.hybscloud.com/erpc/codec"

// Service handles invocations for one service ID. A SimpleServer routes
// every incoming Invocation or Oneway message to the Service registered
// under that message's service ID.
type Service interface {
	// ServiceID returns the service's unique identifier, matched against
	// the service field of each incoming message header.
	ServiceID() uint32

	// HandleInvocation dispatches methodID against sequence's arguments,
	// already positioned for reading on in (just past the message
	// header), and writes the reply's results into out. The implementation
	// is responsible for out's message header (codec.StartWriteMessage/
	// EndWriteMessage) exactly as the reference implementation's generated
	// service shims are; SimpleServer only decides whether to send out
	// over the wire afterward, based on whether the call was oneway.
	HandleInvocation(methodID, sequence uint32, in, out *codec.Codec) error
}
