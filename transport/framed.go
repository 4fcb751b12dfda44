package transport

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"runtime"
	"sync"
	"time"

	"code.hybscloud.com/erpc/crc16"
	"code.hybscloud.com/erpc/erpcstatus"
	"code.hybscloud.com/erpc/internal/wireorder"
	"code.hybscloud.com/erpc/msgbuf"
	"code.hybscloud.com/iox"
)

// headerLen is the size in bytes of a frame header: a u16 message length
// followed by a u16 CRC-16 of the message body.
const headerLen = 4

// FramedTransport sends and receives eRPC messages as length-prefixed,
// CRC-guarded frames over an io.Reader/io.Writer pair. It holds independent
// locks for sending and receiving, so one goroutine can be blocked in
// Receive while another calls Send without either blocking the other — the
// arbitrator relies on this to keep replying to one client while waiting
// on another.
//
// Receive/Send contract in non-blocking mode (WithRetryDelay(negative)):
// when the underlying reader/writer returns iox.ErrWouldBlock partway
// through a frame, Receive/Send returns iox.ErrWouldBlock and remembers how
// far it got. The caller must call Receive/Send again with the *same*
// message buffer to resume; the transport tracks the header/body offset
// internally the way a resumable stream reader would.
type FramedTransport struct {
	r  *bufio.Reader
	w  io.Writer
	bo binary.ByteOrder

	retryDelay time.Duration

	sendMu sync.Mutex
	sHdr   [headerLen]byte
	sHOff  int
	sBOff  int

	receiveMu sync.Mutex
	rHdr      [headerLen]byte
	rHOff     int
	rBOff     int
	rLength   uint16
	rWantCRC  uint16
}

// Option configures a FramedTransport.
type Option func(*FramedTransport)

// WithByteOrder sets the byte order the 4-byte frame header is written and
// read in. The default is the machine's native order, matching the
// reference implementation's raw in-memory struct write; set this
// explicitly only when client and server run on machines with different
// native endianness and have agreed on a common wire order out of band.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(t *FramedTransport) { t.bo = order }
}

// WithRetryDelay sets how long Receive/Send sleep between retries after the
// underlying reader/writer returns iox.ErrWouldBlock. Zero (the default)
// yields the goroutine with runtime.Gosched instead of sleeping. Negative
// disables retrying: the first ErrWouldBlock is returned to the caller
// immediately, which is what a non-blocking, Poll-driven server wants.
func WithRetryDelay(d time.Duration) Option {
	return func(t *FramedTransport) { t.retryDelay = d }
}

// NewFramedTransport returns a FramedTransport reading from r and writing
// to w, using the machine's native byte order for frame headers.
func NewFramedTransport(r io.Reader, w io.Writer, opts ...Option) *FramedTransport {
	t := &FramedTransport{
		r:  bufio.NewReader(r),
		w:  w,
		bo: wireorder.Host(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// waitOnceOnWouldBlock sleeps or yields once before a retry, the way a
// non-blocking transport idles between read attempts instead of
// busy-spinning. It returns false when retrying is disabled
// (WithRetryDelay(negative)), telling the caller to propagate ErrWouldBlock
// instead.
func (t *FramedTransport) waitOnceOnWouldBlock() bool {
	if t.retryDelay < 0 {
		return false
	}
	if t.retryDelay == 0 {
		runtime.Gosched()
		return true
	}
	time.Sleep(t.retryDelay)
	return true
}

// readInto reads into p[*off:], advancing *off as bytes arrive, until
// len(p) bytes have been read. On iox.ErrWouldBlock with retrying disabled,
// it returns with *off short of len(p) so the caller can resume later.
func (t *FramedTransport) readInto(p []byte, off *int) error {
	for *off < len(p) {
		n, err := t.r.Read(p[*off:])
		*off += n
		if err == nil || *off >= len(p) {
			continue
		}
		if errors.Is(err, iox.ErrWouldBlock) {
			if *off >= len(p) {
				return nil
			}
			if !t.waitOnceOnWouldBlock() {
				return iox.ErrWouldBlock
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return erpcstatus.Wrap(erpcstatus.ConnectionClosed, err)
		}
		return erpcstatus.Wrap(erpcstatus.ReceiveFailed, err)
	}
	return nil
}

// writeFrom writes p[*off:], advancing *off as bytes are accepted, until
// all of p has been written. On iox.ErrWouldBlock with retrying disabled,
// it returns with *off short of len(p) so the caller can resume later.
func (t *FramedTransport) writeFrom(p []byte, off *int) error {
	for *off < len(p) {
		n, err := t.w.Write(p[*off:])
		*off += n
		if err == nil || *off >= len(p) {
			continue
		}
		if errors.Is(err, iox.ErrWouldBlock) {
			if !t.waitOnceOnWouldBlock() {
				return iox.ErrWouldBlock
			}
			continue
		}
		return erpcstatus.Wrap(erpcstatus.SendFailed, err)
	}
	return nil
}

// Receive reads one framed message into message, verifying its CRC-16
// before accepting it. It fails with erpcstatus.CrcCheckFailed if the
// frame's CRC doesn't match its payload, and with erpcstatus.BufferOverrun
// if the frame claims more bytes than message can hold.
//
// If the transport is in non-blocking mode and a read would block, Receive
// returns iox.ErrWouldBlock; the caller must call Receive again with the
// same message to resume.
func (t *FramedTransport) Receive(message *msgbuf.Buffer) error {
	t.receiveMu.Lock()
	defer t.receiveMu.Unlock()

	if t.rHOff < headerLen {
		if err := t.readInto(t.rHdr[:], &t.rHOff); err != nil {
			if !errors.Is(err, iox.ErrWouldBlock) {
				t.resetReceive()
			}
			return err
		}
		t.rLength = t.bo.Uint16(t.rHdr[0:2])
		t.rWantCRC = t.bo.Uint16(t.rHdr[2:4])
		if int(t.rLength) > message.Capacity() {
			t.resetReceive()
			return erpcstatus.New(erpcstatus.BufferOverrun)
		}
	}

	body := message.Data()[:t.rLength]
	if err := t.readInto(body, &t.rBOff); err != nil {
		if !errors.Is(err, iox.ErrWouldBlock) {
			t.resetReceive()
		}
		return err
	}

	gotCRC := crc16.Checksum(body)
	t.resetReceive()
	if gotCRC != t.rWantCRC {
		return erpcstatus.New(erpcstatus.CrcCheckFailed)
	}
	return message.SetUsed(int(t.rLength))
}

func (t *FramedTransport) resetReceive() {
	t.rHOff = 0
	t.rBOff = 0
}

// Send writes message's Used bytes as one framed message: a 4-byte header
// (length, then CRC-16 of the body) followed by the body itself.
//
// If the transport is in non-blocking mode and a write would block, Send
// returns iox.ErrWouldBlock; the caller must call Send again with the same
// message to resume.
func (t *FramedTransport) Send(message *msgbuf.Buffer) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	body := message.UsedBytes()
	if len(body) > msgbuf.MaxCapacity {
		return erpcstatus.New(erpcstatus.BufferOverrun)
	}

	if t.sHOff == 0 && t.sBOff == 0 {
		t.bo.PutUint16(t.sHdr[0:2], uint16(len(body)))
		t.bo.PutUint16(t.sHdr[2:4], crc16.Checksum(body))
	}

	if t.sHOff < headerLen {
		if err := t.writeFrom(t.sHdr[:], &t.sHOff); err != nil {
			if !errors.Is(err, iox.ErrWouldBlock) {
				t.resetSend()
			}
			return err
		}
	}

	if err := t.writeFrom(body, &t.sBOff); err != nil {
		if !errors.Is(err, iox.ErrWouldBlock) {
			t.resetSend()
		}
		return err
	}
	t.resetSend()
	return nil
}

func (t *FramedTransport) resetSend() {
	t.sHOff = 0
	t.sBOff = 0
}

// HasMessage reports whether at least one byte is available to read,
// letting a Poll-driven server decide whether to call Receive. It does not
// retry on iox.ErrWouldBlock, whatever the retry policy: a reader that
// reports ErrWouldBlock yields (false, nil). When nothing is buffered it
// reads from the underlying reader, so over a blocking reader it blocks
// until a byte arrives or the read fails.
func (t *FramedTransport) HasMessage() (bool, error) {
	t.receiveMu.Lock()
	defer t.receiveMu.Unlock()

	_, err := t.r.Peek(1)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iox.ErrWouldBlock) {
		return false, nil
	}
	if errors.Is(err, io.EOF) {
		return false, erpcstatus.Wrap(erpcstatus.ConnectionClosed, err)
	}
	return false, erpcstatus.Wrap(erpcstatus.ReceiveFailed, err)
}
