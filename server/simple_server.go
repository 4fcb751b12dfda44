package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"code.hybscloud.com/erpc/codec"
	"code.hybscloud.com/erpc/erpclog"
	"code.hybscloud.com/erpc/erpcstatus"
	"code.hybscloud.com/erpc/msgbuf"
	"code.hybscloud.com/erpc/transport"
)

// CodecFactory creates a Codec bound to buf. The default is codec.New.
type CodecFactory func(buf *msgbuf.Buffer) *codec.Codec

// HandlerErrorFunc is notified whenever a request is dropped because
// reading its header or dispatching its handler failed — the server's
// "log and continue" policy (errors from the transport itself instead stop
// Run/Poll; see SimpleServer.Run). The default logs through erpclog.
type HandlerErrorFunc func(err error)

// SimpleServer receives one framed message at a time, dispatches it to a
// registered Service by service ID, and sends back the reply unless the
// call was oneway.
type SimpleServer struct {
	transport transport.Transport
	messages  msgbuf.BufferFactory
	newCodec  CodecFactory
	onHandlerError HandlerErrorFunc

	mu       sync.Mutex
	services []Service

	running atomic.Bool
}

// Option configures a SimpleServer.
type Option func(*SimpleServer)

// WithCodecFactory overrides how SimpleServer creates a Codec for each new
// buffer. The default is codec.New (native byte order).
func WithCodecFactory(factory CodecFactory) Option {
	return func(s *SimpleServer) { s.newCodec = factory }
}

// WithHandlerErrorFunc overrides how SimpleServer reports a dropped
// request. The default logs a warning through erpclog.Warn.
func WithHandlerErrorFunc(fn HandlerErrorFunc) Option {
	return func(s *SimpleServer) { s.onHandlerError = fn }
}

// NewSimpleServer returns a SimpleServer that receives and sends over tr,
// allocating request/reply buffers from messages. The server starts in the
// running state: Run or Poll begin serving, both of which require an
// AddService call first to have anywhere to route requests. After Stop,
// Run returns immediately and Poll reports erpcstatus.ServerIsDown.
func NewSimpleServer(tr transport.Transport, messages msgbuf.BufferFactory, opts ...Option) *SimpleServer {
	s := &SimpleServer{
		transport: tr,
		messages:  messages,
		newCodec:  codec.New,
	}
	s.running.Store(true)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddService registers svc to handle invocations for its ServiceID. Adding
// two services with the same ID is a caller error: the first one added
// wins, matching the reference implementation's singly linked list scan
// which returns on the first match found.
func (s *SimpleServer) AddService(svc Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = append(s.services, svc)
}

func (s *SimpleServer) findService(serviceID uint32) (Service, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.services {
		if svc.ServiceID() == serviceID {
			return svc, true
		}
	}
	return nil, false
}

// Stop tells Run's loop to exit after its current iteration, and makes
// Poll immediately report erpcstatus.ServerIsDown.
func (s *SimpleServer) Stop() {
	s.running.Store(false)
}

// Run repeatedly receives, dispatches, and replies to requests until Stop
// is called or a transport-level error occurs. Errors from a registered
// Service's HandleInvocation, or from a malformed incoming header, are
// reported via the handler-error hook and do not stop the loop — only a
// Send/Receive failure from the transport itself does.
func (s *SimpleServer) Run() error {
	for s.running.Load() {
		if err := s.runOnce(); err != nil {
			return err
		}
	}
	return nil
}

// Poll runs at most one receive-dispatch-reply cycle, returning
// immediately with nil if the transport reports (via transport.HasMessage)
// that nothing is available yet. The underlying transport must implement
// transport.HasMessage for Poll to be usable; one that doesn't makes Poll
// fail fast with erpcstatus.InvalidArgument rather than silently block,
// which would defeat the purpose of polling.
func (s *SimpleServer) Poll() error {
	if !s.running.Load() {
		return erpcstatus.New(erpcstatus.ServerIsDown)
	}

	hm, ok := s.transport.(transport.HasMessage)
	if !ok {
		return erpcstatus.New(erpcstatus.InvalidArgument)
	}

	has, err := hm.HasMessage()
	if err != nil {
		return err
	}
	if !has {
		return nil
	}
	return s.runOnce()
}

// runOnce receives one message, dispatches it if it's an invocation or
// oneway call, and sends the reply. It returns a non-nil error only for
// transport-level failures; codec and handler failures are reported
// through the handler-error hook and runOnce returns nil so Run keeps
// going.
func (s *SimpleServer) runOnce() error {
	inBuf := s.messages.Create()
	inCodec := s.newCodec(inBuf)

	if err := s.transport.Receive(inBuf); err != nil {
		s.messages.Dispose(inBuf)
		return err
	}
	// Some transports (the arbitrator's zero-copy reply delivery, in
	// particular) swap in a different buffer than the one Receive was
	// called with, so the codec must be rebound before reading.
	inCodec.SetBuffer(inBuf)

	msgType, serviceID, methodID, sequence, err := inCodec.StartReadMessage()
	if err != nil {
		s.messages.Dispose(inBuf)
		s.reportHandlerError(err)
		return nil
	}
	if msgType != codec.Invocation && msgType != codec.Oneway {
		s.messages.Dispose(inBuf)
		s.reportHandlerError(erpcstatus.New(erpcstatus.InvalidArgument))
		return nil
	}

	svc, ok := s.findService(serviceID)
	if !ok {
		s.messages.Dispose(inBuf)
		s.reportHandlerError(erpcstatus.New(erpcstatus.InvalidArgument))
		return nil
	}

	outBuf := s.messages.Create()
	outCodec := s.newCodec(outBuf)

	if err := svc.HandleInvocation(methodID, sequence, inCodec, outCodec); err != nil {
		s.messages.Dispose(outBuf)
		s.messages.Dispose(inBuf)
		s.reportHandlerError(err)
		return nil
	}

	var sendErr error
	if msgType != codec.Oneway {
		sendErr = s.transport.Send(outBuf)
	}

	s.messages.Dispose(outBuf)
	s.messages.Dispose(inBuf)
	return sendErr
}

func (s *SimpleServer) reportHandlerError(err error) {
	if s.onHandlerError != nil {
		s.onHandlerError(err)
		return
	}
	erpclog.Warn(context.Background(), "dropping request", slog.Any("err", err))
}
