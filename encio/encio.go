// Package encio provides io methods relevant to binary streams, as well as error types.
package encio

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

var (
	// TooBig is a byte count used for simple sanity checking before things like allocation with lengths decoded from streams.
	// ErrMalformed is returned if a decoded length exceeds this.
	//
	// By default it is 32MB on 32bit machines, and 128MB on 64bit machines.
	// Feel free to change it.
	TooBig = uintptr(1 << (25 + ((^uint(0) >> 32) & 2)))
)

// Read reads from r, completely filling the buffer. It provides error handling with as little overhead as possible.
// In an ideal read, only a single int equality check is performed. If the read reports the whole buffer is read, returned errors are ignored.
// Running out of data before buff is full is reported as ErrReadPastEnd.
func Read(buff []byte, r io.Reader) error {
	n, err := r.Read(buff)
	if n == len(buff) {
		return nil
	}

	end := n
	for end < len(buff) && err == nil && n > 0 {
		n, err = r.Read(buff[end:])
		end += n
	}

	if end != len(buff) {
		switch {
		case end > len(buff):
			return NewIOError(
				errors.New("bad io.Reader implementation"),
				fmt.Sprintf("%T reported %v bytes read, but buffer is only %v bytes", r, end, len(buff)),
			)
		case errors.Is(err, ErrReadPastEnd):
			return err
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return NewIOError(
				ErrReadPastEnd,
				fmt.Sprintf("want %v bytes but only got %v", len(buff), end),
			)
		case err != nil:
			return err
		default: // err == nil
			return NewIOError(
				io.ErrNoProgress,
				fmt.Sprintf("want %v bytes but only got %v", len(buff), end),
			)
		}
	}
	return nil
}

// Write writes to w from buff, handling errors of io.Writer with as little overhead as possible.
// In an ideal write, only a single int equality check is performed. It returns any error from Write().
func Write(buff []byte, w io.Writer) error {
	n, err := w.Write(buff)
	if n == len(buff) {
		return err
	}

	end := n
	for end < len(buff) && err == nil && n > 0 {
		Logger().Warn("short write without error, calling again",
			zap.String("writer", fmt.Sprintf("%T", w)),
			zap.Int("given", len(buff)-(end-n)),
			zap.Int("written", n),
		)
		n, err = w.Write(buff[end:])
		end += n
	}

	if end != len(buff) {
		switch {
		case end > len(buff):
			return NewIOError(
				errors.New("bad io.Writer implementation"),
				fmt.Sprintf("Write() reported %v bytes written, but was only given %v bytes", end, len(buff)),
			)
		case err == nil:
			return NewIOError(
				io.ErrShortWrite,
				fmt.Sprintf("want %v bytes but only wrote %v bytes", len(buff), end),
			)
		default:
			return err
		}
	}
	return nil
}
