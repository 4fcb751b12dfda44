package arbitrator

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"code.hybscloud.com/erpc/erpcstatus"
	"code.hybscloud.com/erpc/msgbuf"
)

// ReplyReceiver is the subset of a client request a TransportArbitrator
// needs to route a reply to it: the sequence number it's waiting on, and
// the buffer to deliver the reply into. client.RequestContext implements
// this without arbitrator importing client, which would cycle.
type ReplyReceiver interface {
	Sequence() uint32
	Buffer() *msgbuf.Buffer
}

// ClientToken identifies a pending client's slot for ClientReceive. It is
// only valid for the PrepareClientReceive call that produced it.
type ClientToken int

type pendingClientInfo struct {
	request ReplyReceiver
	sem     *semaphore.Weighted
	valid   bool
}

// pendingClients is a slab of pending-client slots plus a free-list of
// indices, standing in for the reference implementation's linked list of
// heap-allocated PendingClientInfo nodes (an arena/slab-with-indices redesign
// of the C++ original's intrusive list). Reusing slots this way means no
// allocation on the common path once the slab has grown to its high-water
// mark.
type pendingClients struct {
	mu   sync.Mutex
	slab []pendingClientInfo
	free []ClientToken
}

// prepare registers req as waiting for a reply and returns a token to pass
// to ClientReceive. The returned semaphore starts drained, so the first
// Acquire blocks until deliver releases it.
func (p *pendingClients) prepare(req ReplyReceiver) (ClientToken, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sem := semaphore.NewWeighted(1)
	if !sem.TryAcquire(1) {
		// Unreachable: a freshly constructed weighted semaphore of size 1
		// always has its one unit available.
		return 0, errFail
	}

	var tok ClientToken
	if n := len(p.free); n > 0 {
		tok = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		tok = ClientToken(len(p.slab))
		p.slab = append(p.slab, pendingClientInfo{})
	}

	p.slab[tok] = pendingClientInfo{request: req, sem: sem, valid: true}
	return tok, nil
}

// wait blocks until a reply has been delivered for tok, then retires the
// slot back to the free-list. A token outside the slab, or one whose slot
// has already been retired, fails with erpcstatus.InvalidArgument.
func (p *pendingClients) wait(ctx context.Context, tok ClientToken) error {
	p.mu.Lock()
	if tok < 0 || int(tok) >= len(p.slab) || !p.slab[tok].valid {
		p.mu.Unlock()
		return erpcstatus.New(erpcstatus.InvalidArgument)
	}
	sem := p.slab[tok].sem
	p.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return erpcstatus.Wrap(erpcstatus.Timeout, err)
	}

	p.mu.Lock()
	p.slab[tok].valid = false
	p.slab[tok].request = nil
	p.free = append(p.free, tok)
	p.mu.Unlock()
	return nil
}

// deliver matches sequence against every valid pending slot; on a match it
// swaps the waiting request's buffer with message (zero-copy reply
// delivery) and releases that slot's semaphore. It is a no-op if no client
// is waiting on sequence — an unsolicited or already-timed-out reply is
// simply dropped, same as the reference implementation's receive loop
// finding no list entry to match.
func (p *pendingClients) deliver(sequence uint32, message *msgbuf.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.slab {
		slot := &p.slab[i]
		if !slot.valid || slot.request.Sequence() != sequence {
			continue
		}
		slot.request.Buffer().Swap(message)
		slot.sem.Release(1)
		return
	}
}
