// Package arbitrator lets a client and a server share one underlying
// transport and codec. A TransportArbitrator's Receive loop reads whatever
// arrives next: invocations and oneway calls are handed back to the
// server's dispatch loop, while replies are routed to whichever client is
// waiting on the matching sequence number. This is what lets an eRPC
// endpoint make nested client calls from inside a server handler without a
// second connection.
package arbitrator

import (
	"context"

	"code.hybscloud.com/erpc/codec"
	"code.hybscloud.com/erpc/erpcstatus"
	"code.hybscloud.com/erpc/msgbuf"
	"code.hybscloud.com/erpc/transport"
)

// TransportArbitrator implements transport.Transport over a shared
// transport, interposing itself between the server's receive loop and any
// number of clients waiting for replies.
type TransportArbitrator struct {
	shared transport.Transport
	codec  *codec.Codec

	pending pendingClients
}

// New returns a TransportArbitrator sharing transport shared. hdr is the
// codec used only to parse incoming message headers as they arrive; it is
// distinct from the codecs individual requests use to parse their own
// bodies.
func New(shared transport.Transport, hdr *codec.Codec) *TransportArbitrator {
	return &TransportArbitrator{shared: shared, codec: hdr}
}

// Send forwards message to the shared transport unmodified. Both the
// server's replies and a client's requests funnel through here.
func (a *TransportArbitrator) Send(message *msgbuf.Buffer) error {
	return a.shared.Send(message)
}

// Receive blocks until an invocation or oneway message arrives, reading and
// discarding or routing everything else: replies are matched by sequence
// number to a pending client (see PrepareClientReceive) and delivered by
// swapping message buffers, malformed headers are skipped, and messages of
// any other type are ignored.
func (a *TransportArbitrator) Receive(message *msgbuf.Buffer) error {
	for {
		if err := a.shared.Receive(message); err != nil {
			return err
		}

		a.codec.SetBuffer(message)
		msgType, _, _, sequence, err := a.codec.StartReadMessage()
		if err != nil {
			continue
		}

		switch msgType {
		case codec.Invocation, codec.Oneway:
			return nil
		case codec.Reply:
			a.pending.deliver(sequence, message)
		default:
			// Notifications and anything else have no receiver on this
			// path; drop them and keep waiting.
		}
	}
}

// PrepareClientReceive registers req as waiting for a reply before the
// request is sent, and returns a token to later pass to ClientReceive. This
// ordering matters: req must be registered before its request goes out on
// the wire, or a reply racing back faster than the client reaches
// ClientReceive would find no pending entry to match and be dropped.
func (a *TransportArbitrator) PrepareClientReceive(req ReplyReceiver) (ClientToken, error) {
	return a.pending.prepare(req)
}

// ClientReceive blocks until the reply for the request registered under
// tok arrives (delivered by this arbitrator's Receive loop running on
// another goroutine) or ctx is done. On success, the request's buffer
// has been swapped for the reply in place.
func (a *TransportArbitrator) ClientReceive(ctx context.Context, tok ClientToken) error {
	return a.pending.wait(ctx, tok)
}

// errFail is returned by PrepareClientReceive in the unreachable case that
// the freshly created semaphore for a pending-client slot cannot be taken
// into its drained starting state.
var errFail = erpcstatus.New(erpcstatus.Fail)
