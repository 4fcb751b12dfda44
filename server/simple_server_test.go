package server_test

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/erpc/codec"
	"code.hybscloud.com/erpc/erpcstatus"
	"code.hybscloud.com/erpc/msgbuf"
	"code.hybscloud.com/erpc/server"
)

// scriptedTransport hands back buffers from a fixed queue on Receive and
// records whatever is passed to Send.
type scriptedTransport struct {
	mu      sync.Mutex
	inbound [][]byte
	sent    [][]byte
	recvErr error
}

func (t *scriptedTransport) Receive(message *msgbuf.Buffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.inbound) == 0 {
		if t.recvErr != nil {
			return t.recvErr
		}
		return erpcstatus.New(erpcstatus.ConnectionClosed)
	}
	next := t.inbound[0]
	t.inbound = t.inbound[1:]
	copy(message.Data(), next)
	return message.SetUsed(len(next))
}

func (t *scriptedTransport) Send(message *msgbuf.Buffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := append([]byte(nil), message.UsedBytes()...)
	t.sent = append(t.sent, cp)
	return nil
}

func invocationBytes(t *testing.T, msgType codec.MessageType, service, method, sequence uint32, arg int32) []byte {
	t.Helper()
	buf := msgbuf.NewBuffer(64)
	c := codec.New(buf)
	if err := c.StartWriteMessage(msgType, service, method, sequence); err != nil {
		t.Fatalf("StartWriteMessage: %v", err)
	}
	if err := c.WriteInt32(arg); err != nil {
		t.Fatalf("WriteInt32: %v", err)
	}
	c.EndWriteMessage()
	return buf.UsedBytes()
}

// echoService doubles its one int32 argument and sends it back.
type echoService struct{ id uint32 }

func (s *echoService) ServiceID() uint32 { return s.id }

func (s *echoService) HandleInvocation(methodID, sequence uint32, in, out *codec.Codec) error {
	arg, err := in.ReadInt32()
	if err != nil {
		return err
	}
	if err := out.StartWriteMessage(codec.Reply, s.id, methodID, sequence); err != nil {
		return err
	}
	if err := out.WriteInt32(arg * 2); err != nil {
		return err
	}
	out.EndWriteMessage()
	return nil
}

func TestSimpleServer_DispatchesAndReplies(t *testing.T) {
	tr := &scriptedTransport{inbound: [][]byte{
		invocationBytes(t, codec.Invocation, 1, 10, 1, 21),
	}}
	s := server.NewSimpleServer(tr, msgbuf.NewDefaultPooledFactory())
	s.AddService(&echoService{id: 1})

	if err := s.Run(); err == nil {
		t.Fatal("Run() should stop with a transport error once input is exhausted")
	}

	if len(tr.sent) != 1 {
		t.Fatalf("sent %d replies, want 1", len(tr.sent))
	}
	reply := msgbuf.NewBuffer(len(tr.sent[0]))
	copy(reply.Data(), tr.sent[0])
	_ = reply.SetUsed(len(tr.sent[0]))
	rc := codec.New(reply)
	msgType, _, _, sequence, err := rc.StartReadMessage()
	if err != nil {
		t.Fatalf("StartReadMessage: %v", err)
	}
	if msgType != codec.Reply || sequence != 1 {
		t.Fatalf("reply header = (%v,%d), want (Reply,1)", msgType, sequence)
	}
	got, err := rc.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32: %v", err)
	}
	if got != 42 {
		t.Fatalf("reply payload = %d, want 42", got)
	}
}

func TestSimpleServer_OnewaySendsNothing(t *testing.T) {
	tr := &scriptedTransport{inbound: [][]byte{
		invocationBytes(t, codec.Oneway, 1, 10, 1, 5),
	}}
	s := server.NewSimpleServer(tr, msgbuf.NewDefaultPooledFactory())
	s.AddService(&echoService{id: 1})

	if err := s.Run(); err == nil {
		t.Fatal("Run() should stop once input is exhausted")
	}
	if len(tr.sent) != 0 {
		t.Fatalf("oneway call produced %d replies, want 0", len(tr.sent))
	}
}

func TestSimpleServer_UnknownServiceIsLoggedAndSkipped(t *testing.T) {
	tr := &scriptedTransport{inbound: [][]byte{
		invocationBytes(t, codec.Invocation, 99, 10, 1, 5),
	}}
	var reported error
	s := server.NewSimpleServer(tr, msgbuf.NewDefaultPooledFactory(),
		server.WithHandlerErrorFunc(func(err error) { reported = err }))
	s.AddService(&echoService{id: 1})

	if err := s.Run(); err == nil {
		t.Fatal("Run() should stop once input is exhausted")
	}
	if reported == nil {
		t.Fatal("unknown service should be reported via the handler-error hook")
	}
	if len(tr.sent) != 0 {
		t.Fatalf("unknown service produced %d replies, want 0", len(tr.sent))
	}
}

func TestSimpleServer_HandlerErrorDoesNotStopRun(t *testing.T) {
	tr := &scriptedTransport{inbound: [][]byte{
		invocationBytes(t, codec.Invocation, 1, 10, 1, 1),
		invocationBytes(t, codec.Invocation, 1, 10, 2, 2),
	}}
	var errs []error
	s := server.NewSimpleServer(tr, msgbuf.NewDefaultPooledFactory(),
		server.WithHandlerErrorFunc(func(err error) { errs = append(errs, err) }))
	s.AddService(&failingThenOKService{failSequence: 1})

	if err := s.Run(); err == nil {
		t.Fatal("Run() should stop once input is exhausted")
	}
	if len(errs) != 1 {
		t.Fatalf("got %d handler errors, want 1", len(errs))
	}
	if len(tr.sent) != 1 {
		t.Fatalf("got %d replies, want 1 (only the second call should succeed)", len(tr.sent))
	}
}

type failingThenOKService struct{ failSequence uint32 }

func (s *failingThenOKService) ServiceID() uint32 { return 1 }

func (s *failingThenOKService) HandleInvocation(methodID, sequence uint32, in, out *codec.Codec) error {
	if _, err := in.ReadInt32(); err != nil {
		return err
	}
	if sequence == s.failSequence {
		return errors.New("boom")
	}
	if err := out.StartWriteMessage(codec.Reply, 1, methodID, sequence); err != nil {
		return err
	}
	out.EndWriteMessage()
	return nil
}

func TestSimpleServer_EmptyServiceListReportsInvalidArgument(t *testing.T) {
	tr := &scriptedTransport{inbound: [][]byte{
		invocationBytes(t, codec.Invocation, 1, 10, 1, 5),
	}}
	var reported error
	s := server.NewSimpleServer(tr, msgbuf.NewDefaultPooledFactory(),
		server.WithHandlerErrorFunc(func(err error) { reported = err }))
	// Deliberately never call s.AddService: findService's scan over an
	// empty registry must fail the same way it does for an unknown ID.

	if err := s.Run(); err == nil {
		t.Fatal("Run() should stop once input is exhausted")
	}
	if erpcstatus.Cause(reported) != erpcstatus.InvalidArgument {
		t.Fatalf("reported = %v, want InvalidArgument", reported)
	}
	if len(tr.sent) != 0 {
		t.Fatalf("empty service list produced %d replies, want 0", len(tr.sent))
	}
}

func TestSimpleServer_PollWithoutHasMessageFailsFast(t *testing.T) {
	tr := &scriptedTransport{}
	s := server.NewSimpleServer(tr, msgbuf.NewDefaultPooledFactory())
	err := s.Poll()
	if erpcstatus.Cause(err) != erpcstatus.InvalidArgument {
		t.Fatalf("Poll() = %v, want InvalidArgument", err)
	}
}

func TestSimpleServer_PollAfterStopIsServerDown(t *testing.T) {
	tr := &scriptedTransport{}
	s := server.NewSimpleServer(tr, msgbuf.NewDefaultPooledFactory())
	s.Stop()
	err := s.Poll()
	if erpcstatus.Cause(err) != erpcstatus.ServerIsDown {
		t.Fatalf("Poll() = %v, want ServerIsDown", err)
	}
}
