package encio

import (
	"errors"
	"runtime"
)

// Error handling in hsstream separates environment failures from misuse of a stream.
// All error cases are grouped into two wrappers; IOError and Error. IOError errors come from the
// underlying storage or from data that cannot be decoded, and the caller should stop using the stream.
// Error errors indicate the stream was used in a way its backend does not support, i.e. writing to
// a read-only memory stream. The zero-cost path never allocates either.
//
// Errors can be checked with
//
//	var encErr encio.Error
//	var ioErr encio.IOError
//	if errors.As(err, &encErr) {
//		//handle misuse
//	} else if errors.As(err, &ioErr) {
//		//handle io error
//	}
//
// or by kind, using errors.Is against the sentinels below.
var (
	// ErrOpenFailed is returned when a backend could not acquire its OS resource.
	ErrOpenFailed = errors.New("open failed")

	// ErrUnsupported is returned when a backend is asked to do something it cannot,
	// i.e. Read on a Null stream.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrBufferOverrun is returned when a write does not fit in a fixed-capacity backend.
	ErrBufferOverrun = errors.New("buffer overrun")

	// ErrReadPastEnd is returned when more bytes are requested than a stream holds.
	ErrReadPastEnd = errors.New("read past end")

	// ErrStringTooLong is returned when a string cannot be represented by the chosen length prefix.
	ErrStringTooLong = errors.New("string too long")

	// ErrMalformed is returned when the read data is impossible to decode.
	ErrMalformed = errors.New("malformed")

	// ErrClosed is returned by operations on a closed stream.
	ErrClosed = errors.New("stream closed")

	// ErrBadPosition is returned when a position is outside what a backend can seek to.
	ErrBadPosition = errors.New("bad position")
)

// NewIOError returns an IOError wrapping err with the given message.
// err is typically the error returned from the storage, or one of the sentinels above describing why the stream can't continue.
// If message is empty, it is filled with the calling function's name.
func NewIOError(err error, message string) error {
	if err == nil {
		return NewError(errors.New("unknown error"), "trying to create new IOError", "encio.NewIOError")
	}
	if message == "" {
		message = "in " + GetCaller(1)
	}

	return IOError{
		Err:     err,
		Message: message,
	}
}

// IOError is returned when io errors occur, or when read data is malformed.
type IOError struct {
	Err     error
	Message string
}

// Error implements error
func (e IOError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap implements errors's Unwrap()
func (e IOError) Unwrap() error {
	return e.Err
}

// NewError returns an Error wrapping err with message and caller.
// If caller is empty, it is automatically filled with the calling function's name.
func NewError(err error, message string, caller string) error {
	if caller == "" {
		caller = GetCaller(1)
	}

	return Error{
		Err:     err,
		Message: message,
		Caller:  caller,
	}
}

// Error is returned when a stream is misused.
type Error struct {
	Err     error
	Message string
	Caller  string
}

// Error implements error
func (e Error) Error() (str string) {
	if e.Caller != "" {
		str = e.Caller + ": "
	}

	str += e.Err.Error()

	if e.Message != "" {
		str += " (" + e.Message + ")"
	}

	return str
}

// Unwrap implements errors's Unwrap()
func (e Error) Unwrap() error {
	return e.Err
}

// GetCaller returns the name of the calling function, skipping skip functions.
// i.e. 0 writes the calling function, 1 the function calling that etc...
func GetCaller(skip int) string {
	pcs := make([]uintptr, 1)
	n := runtime.Callers(2+skip, pcs)
	if n != 1 {
		return "Unknown Function"
	}

	frames := runtime.CallersFrames(pcs)
	frame, _ := frames.Next()
	return frame.Function
}
