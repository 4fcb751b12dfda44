// Package client implements the calling side of eRPC: RequestContext tracks
// one in-flight call, and Manager drives a request through send, wait for
// reply, and verify. ArbitratedManager is the variant used when the caller
// also shares its transport with a server (see package arbitrator).
package client

import (
	"code.hybscloud.com/erpc/codec"
	"code.hybscloud.com/erpc/msgbuf"
)

// RequestContext holds everything a single request/reply exchange needs:
// the sequence number that ties a reply back to its request, the codec
// used to write the outgoing message, and — unless the call is oneway —
// the codec the reply gets read from.
type RequestContext struct {
	sequence uint32
	out      *codec.Codec
	in       *codec.Codec
	oneway   bool
}

func newRequestContext(sequence uint32, out, in *codec.Codec, oneway bool) *RequestContext {
	return &RequestContext{sequence: sequence, out: out, in: in, oneway: oneway}
}

// OutCodec returns the codec a caller writes the request's parameters into
// after CreateRequest, before calling PerformRequest.
func (r *RequestContext) OutCodec() *codec.Codec { return r.out }

// InCodec returns the codec a caller reads the reply's results from after
// PerformRequest succeeds. It is nil for a oneway request.
func (r *RequestContext) InCodec() *codec.Codec { return r.in }

// Sequence returns the request's sequence number, matched against the
// sequence on the reply that eventually comes back.
func (r *RequestContext) Sequence() uint32 { return r.sequence }

// Oneway reports whether this request expects no reply.
func (r *RequestContext) Oneway() bool { return r.oneway }

// Buffer returns the buffer a reply should be delivered into. It
// implements arbitrator.ReplyReceiver so a RequestContext can be registered
// directly with a TransportArbitrator.
func (r *RequestContext) Buffer() *msgbuf.Buffer {
	return r.in.Buffer()
}
