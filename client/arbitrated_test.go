package client_test

import (
	"context"
	"net"
	"testing"
	"time"

	"code.hybscloud.com/erpc/arbitrator"
	"code.hybscloud.com/erpc/client"
	"code.hybscloud.com/erpc/codec"
	"code.hybscloud.com/erpc/msgbuf"
	"code.hybscloud.com/erpc/transport"
)

func newArbitrator(conn net.Conn) *arbitrator.TransportArbitrator {
	tr := transport.NewFramedTransport(conn, conn)
	return arbitrator.New(tr, codec.New(msgbuf.NewBuffer(256)))
}

// TestArbitratedManager_PerformRequest_RoundTrips drives a full client/
// server pair sharing one net.Pipe connection through a TransportArbitrator
// on each end, exercising the prepare-before-send ordering end to end.
func TestArbitratedManager_PerformRequest_RoundTrips(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	clientArb := newArbitrator(clientConn)
	serverArb := newArbitrator(serverConn)

	mgr := client.NewArbitratedManager(clientArb, msgbuf.NewDefaultPooledFactory())

	serverDone := make(chan error, 1)
	go func() {
		scratch := msgbuf.NewBuffer(256)
		if err := serverArb.Receive(scratch); err != nil {
			serverDone <- err
			return
		}
		c := codec.New(scratch)
		msgType, service, request, sequence, err := c.StartReadMessage()
		if err != nil {
			serverDone <- err
			return
		}
		if msgType != codec.Invocation {
			serverDone <- nil
			return
		}

		reply := msgbuf.NewBuffer(256)
		rc := codec.New(reply)
		if err := rc.StartWriteMessage(codec.Reply, service, request, sequence); err != nil {
			serverDone <- err
			return
		}
		if err := rc.WriteInt32(99); err != nil {
			serverDone <- err
			return
		}
		rc.EndWriteMessage()
		serverDone <- serverArb.Send(reply)
	}()

	// The client side's own Receive loop is what reads the reply off the
	// wire and routes it to the pending request; it runs until the
	// connection is closed.
	go func() {
		_ = clientArb.Receive(msgbuf.NewBuffer(256))
	}()

	req := mgr.CreateRequest(false)
	if err := req.OutCodec().StartWriteMessage(codec.Invocation, 3, 4, req.Sequence()); err != nil {
		t.Fatalf("StartWriteMessage: %v", err)
	}
	req.OutCodec().EndWriteMessage()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := mgr.PerformRequest(ctx, req); err != nil {
		t.Fatalf("PerformRequest: %v", err)
	}

	got, err := req.InCodec().ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32: %v", err)
	}
	if got != 99 {
		t.Fatalf("reply payload = %d, want 99", got)
	}

	select {
	case err := <-serverDone:
		if err != nil {
			t.Fatalf("server side: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server goroutine never finished")
	}
}

// TestArbitratedManager_PerformRequest_Oneway checks the oneway path never
// registers with the arbitrator's pending-client list and never blocks.
func TestArbitratedManager_PerformRequest_Oneway(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	clientArb := newArbitrator(clientConn)
	serverArb := newArbitrator(serverConn)

	mgr := client.NewArbitratedManager(clientArb, msgbuf.NewDefaultPooledFactory())

	req := mgr.CreateRequest(true)
	if err := req.OutCodec().StartWriteMessage(codec.Oneway, 1, 1, req.Sequence()); err != nil {
		t.Fatalf("StartWriteMessage: %v", err)
	}
	req.OutCodec().EndWriteMessage()

	recvDone := make(chan error, 1)
	scratch := msgbuf.NewBuffer(256)
	go func() { recvDone <- serverArb.Receive(scratch) }()

	if err := mgr.PerformRequest(context.Background(), req); err != nil {
		t.Fatalf("PerformRequest: %v", err)
	}

	select {
	case err := <-recvDone:
		if err != nil {
			t.Fatalf("server Receive: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the oneway invocation")
	}
}
