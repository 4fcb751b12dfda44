package client

import (
	"context"

	"code.hybscloud.com/erpc/arbitrator"
	"code.hybscloud.com/erpc/msgbuf"
)

// ArbitratedManager is a Manager that shares its transport with a server
// through a TransportArbitrator, so a single connection can carry both
// server-bound invocations and client-bound replies — for example, a
// server handler that itself makes a nested client call over the same
// UART it was invoked on.
type ArbitratedManager struct {
	*Manager
	arbitrator *arbitrator.TransportArbitrator
}

// NewArbitratedManager returns an ArbitratedManager sending and receiving
// through arb, allocating request/reply buffers from messages. Unlike
// Manager, there is no separate transport to set: the arbitrator is both
// the transport and the routing layer.
func NewArbitratedManager(arb *arbitrator.TransportArbitrator, messages msgbuf.BufferFactory, opts ...Option) *ArbitratedManager {
	return &ArbitratedManager{
		Manager:    NewManager(arb, messages, opts...),
		arbitrator: arb,
	}
}

// PerformRequest sends request through the arbitrator and, unless the
// request is oneway, waits for the arbitrator's receive loop (running on
// another goroutine, typically the server's) to route the matching reply
// back to it. The client must be registered with the arbitrator before the
// request is sent — if the reply comes back before ClientReceive is ever
// called, it still needs a pending entry to be delivered into — so
// PerformRequest calls PrepareClientReceive first, deviating from
// Manager.PerformRequest's send-then-receive order only in this respect.
func (m *ArbitratedManager) PerformRequest(ctx context.Context, request *RequestContext) error {
	var token arbitrator.ClientToken
	if !request.Oneway() {
		var err error
		token, err = m.arbitrator.PrepareClientReceive(request)
		if err != nil {
			m.notify(err)
			return err
		}
	}

	if err := m.arbitrator.Send(request.OutCodec().Buffer()); err != nil {
		m.notify(err)
		return err
	}

	if request.Oneway() {
		return nil
	}

	if err := m.arbitrator.ClientReceive(ctx, token); err != nil {
		m.notify(err)
		return err
	}

	return m.verifyReply(request)
}
