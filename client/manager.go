package client

import (
	"sync/atomic"

	"code.hybscloud.com/erpc/codec"
	"code.hybscloud.com/erpc/erpcstatus"
	"code.hybscloud.com/erpc/msgbuf"
	"code.hybscloud.com/erpc/transport"
)

// ErrorHandler is notified of every error PerformRequest fails with —
// transport or arbitrator failures and reply verification failures — in
// addition to that error being returned, mirroring the reference
// implementation's error_handler_t callback.
type ErrorHandler func(err error)

// CodecFactory creates a Codec bound to buf. The default is codec.New; a
// caller that needs a non-native byte order passes
// WithCodecFactory(func(buf) *codec.Codec { return codec.NewWithByteOrder(buf, order) }).
type CodecFactory func(buf *msgbuf.Buffer) *codec.Codec

// Manager is the base client implementation: it creates requests, sends
// them over a transport, waits for the matching reply, and verifies it.
// ArbitratedManager composes a Manager to share a transport with a server.
type Manager struct {
	messages  msgbuf.BufferFactory
	newCodec  CodecFactory
	transport transport.Transport
	sequence  atomic.Uint32
	onError   ErrorHandler
}

// Option configures a Manager.
type Option func(*Manager)

// WithCodecFactory overrides how Manager creates a Codec for each new
// buffer. The default is codec.New (native byte order).
func WithCodecFactory(factory CodecFactory) Option {
	return func(m *Manager) { m.newCodec = factory }
}

// WithErrorHandler installs a callback invoked with the error whenever
// PerformRequest (on Manager or ArbitratedManager) fails, the same way the
// reference implementation exposes setErrorHandler for applications and
// generated stubs to hook into.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(m *Manager) { m.onError = handler }
}

// NewManager returns a Manager that sends and receives over tr, allocating
// request/reply buffers from messages.
func NewManager(tr transport.Transport, messages msgbuf.BufferFactory, opts ...Option) *Manager {
	m := &Manager{
		messages:  messages,
		newCodec:  codec.New,
		transport: tr,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ErrorHandler returns the callback set by WithErrorHandler, or nil.
func (m *Manager) ErrorHandler() ErrorHandler { return m.onError }

// notify invokes the error handler, if one is set.
func (m *Manager) notify(err error) {
	if m.onError != nil && err != nil {
		m.onError(err)
	}
}

// createBufferAndCodec allocates a buffer from the message factory and
// binds a new codec to it.
func (m *Manager) createBufferAndCodec() *codec.Codec {
	buf := m.messages.Create()
	return m.newCodec(buf)
}

// CreateRequest allocates a new RequestContext with the next sequence
// number: an out-codec to write the call into always, and — unless oneway
// is true — an in-codec to read the reply from.
func (m *Manager) CreateRequest(oneway bool) *RequestContext {
	out := m.createBufferAndCodec()

	var in *codec.Codec
	if !oneway {
		in = m.createBufferAndCodec()
	}

	sequence := m.sequence.Add(1)
	return newRequestContext(sequence, out, in, oneway)
}

// PerformRequest sends request's out-codec over the transport and, unless
// the request is oneway, blocks for the reply and verifies it.
func (m *Manager) PerformRequest(request *RequestContext) error {
	if err := m.transport.Send(request.OutCodec().Buffer()); err != nil {
		m.notify(err)
		return err
	}

	if request.Oneway() {
		return nil
	}

	if err := m.transport.Receive(request.InCodec().Buffer()); err != nil {
		m.notify(err)
		return err
	}

	return m.verifyReply(request)
}

// verifyReply resets the in-codec (some transports swap in a different
// buffer for zero-copy delivery, so the cursor must be rewound before
// reading) and checks the reply's header matches this request. A failure
// is also passed to the error handler.
func (m *Manager) verifyReply(request *RequestContext) error {
	in := request.InCodec()
	in.Reset()

	msgType, _, _, sequence, err := in.StartReadMessage()
	if err != nil {
		m.notify(err)
		return err
	}
	if msgType != codec.Reply || sequence != request.Sequence() {
		err := erpcstatus.New(erpcstatus.ExpectedReply)
		m.notify(err)
		return err
	}
	return nil
}

// ReleaseRequest returns request's buffers and codecs are no longer
// needed. Manager itself holds no pool state to return them to beyond the
// BufferFactory, so this disposes of the MessageBuffers via it.
func (m *Manager) ReleaseRequest(request *RequestContext) {
	m.messages.Dispose(request.OutCodec().Buffer())
	if !request.Oneway() {
		m.messages.Dispose(request.InCodec().Buffer())
	}
}
