// Package erpcstatus defines the status code taxonomy shared by every layer
// of the eRPC runtime core: transport, codec, arbitrator, client, and server
// all report failures as a Status rather than an ad hoc error type, so a
// caller can switch on the failure class without caring which layer raised
// it.
package erpcstatus

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Status is a stable, small status code. Names and relative order follow
// the taxonomy in the eRPC core specification; values are stable within a
// build but are not a wire format (errors never cross the wire, only
// message types and sequences do).
type Status uint8

const (
	Success Status = iota
	Fail
	SendFailed
	ReceiveFailed
	InitFailed
	Timeout
	ConnectionFailure
	ConnectionClosed
	InvalidArgument
	BufferOverrun
	MemoryError
	CrcCheckFailed
	InvalidMessageVersion
	ExpectedReply
	BadAddressScale
	UnknownName
	UnknownCallback
	ServerIsDown
)

var names = [...]string{
	Success:               "success",
	Fail:                  "fail",
	SendFailed:            "send failed",
	ReceiveFailed:         "receive failed",
	InitFailed:            "init failed",
	Timeout:               "timeout",
	ConnectionFailure:     "connection failure",
	ConnectionClosed:      "connection closed",
	InvalidArgument:       "invalid argument",
	BufferOverrun:         "buffer overrun",
	MemoryError:           "memory error",
	CrcCheckFailed:        "crc check failed",
	InvalidMessageVersion: "invalid message version",
	ExpectedReply:         "expected reply",
	BadAddressScale:       "bad address scale",
	UnknownName:           "unknown name",
	UnknownCallback:       "unknown callback",
	ServerIsDown:          "server is down",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if int(s) < len(names) && names[s] != "" {
		return names[s]
	}
	return "unknown status"
}

// Error wraps a Status with an optional underlying cause. The underlying
// cause, when present, is attached with github.com/pkg/errors so a logger
// downstream can still print a stack trace and the original driver/codec
// error, while callers that only care about control flow can switch on
// Status without unwrapping anything.
type Error struct {
	status Status
	cause  error
}

// New returns an *Error for status with no underlying cause.
func New(status Status) *Error {
	return &Error{status: status}
}

// Wrap returns an *Error for status whose cause is err. If err is nil, Wrap
// behaves like New. The cause is captured with errors.WithStack and exposed
// through Unwrap, so errors.Is and errors.As reach the original error;
// Cause(e) below returns status, not the original error.
func Wrap(status Status, err error) *Error {
	if err == nil {
		return New(status)
	}
	return &Error{status: status, cause: pkgerrors.WithStack(err)}
}

// Status returns the status code carried by e.
func (e *Error) Status() Status {
	if e == nil {
		return Success
	}
	return e.status
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.status.String() + ": " + e.cause.Error()
	}
	return e.status.String()
}

// Unwrap allows errors.Is/errors.As to see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the status code of err if it is (or wraps) an *Error,
// otherwise Fail. A nil err returns Success, matching the "no error means
// success" convention used throughout the core.
func Cause(err error) Status {
	if err == nil {
		return Success
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Status()
	}
	return Fail
}

// Is reports whether err is an *Error carrying exactly status. It lets
// callers write `if erpcstatus.Is(err, erpcstatus.Timeout)` instead of
// manually unwrapping.
func Is(err error, status Status) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Status() == status
	}
	return false
}
