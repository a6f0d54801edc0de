// Package stream provides positional byte streams over files, memory, rings and sinks, all behind one interface,
// along with a typed Codec for reading and writing binary fields on any of them.
//
// Backends never interpret the bytes they carry. Position, end-of-stream and seek semantics are per-backend,
// and are documented on each type.
package stream

import (
	"io"

	"github.com/stewi1014/hsstream/encio"
)

// Stream is a positioned sequence of bytes.
//
// Read follows io.Reader, with the added constraint that memory-backed streams never return bytes from outside their storage;
// a request that runs past the end copies what is available and reports encio.ErrReadPastEnd.
// Write follows io.Writer.
type Stream interface {
	io.Reader
	io.Writer
	io.Closer

	// Skip advances the position by n bytes without transferring data.
	Skip(n int64) error

	// Rewind returns the stream to its start.
	Rewind() error

	// Position returns the current offset from the start of the stream.
	Position() int64

	// SetPosition moves to an absolute offset.
	SetPosition(pos int64) error

	// AtEnd reports if no further bytes can be read.
	AtEnd() bool

	// EOF returns the logical length of the stream.
	EOF() int64
}

// Truncater is implemented by streams that can discard their content after the current position.
type Truncater interface {
	Truncate() error
}

// Flusher is implemented by streams that hold data which isn't yet on its final storage.
type Flusher interface {
	Flush() error
}

// FastForwarder is implemented by streams with a cheaper way to move to the end than SetPosition(EOF()).
type FastForwarder interface {
	FastFwd() error
}

// PositionedWriter is implemented by streams that can report whether writes land at Position().
// Streams that append, or write at a cursor of their own, either don't implement it or report false.
type PositionedWriter interface {
	WritesAtPosition() bool
}

// WritesAtPosition reports if s writes at its position.
func WritesAtPosition(s Stream) bool {
	pw, ok := s.(PositionedWriter)
	return ok && pw.WritesAtPosition()
}

// SizeLeft returns the number of bytes between the position and the end of s.
func SizeLeft(s Stream) int64 {
	if left := s.EOF() - s.Position(); left > 0 {
		return left
	}
	return 0
}

// FastFwd moves s to its end.
func FastFwd(s Stream) error {
	if f, ok := s.(FastForwarder); ok {
		return f.FastFwd()
	}
	return s.SetPosition(s.EOF())
}

// Flush pushes buffered data in s to its storage. Streams without buffering succeed trivially.
func Flush(s Stream) error {
	if f, ok := s.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Truncate discards everything in s after its position.
func Truncate(s Stream) error {
	if t, ok := s.(Truncater); ok {
		return t.Truncate()
	}
	return encio.NewError(encio.ErrUnsupported, "stream cannot be truncated", "")
}

// CopyToMem returns the whole content of s, from the start to EOF(). The position is restored afterwards.
func CopyToMem(s Stream) ([]byte, error) {
	if b, ok := s.(interface{ Bytes() []byte }); ok {
		return append([]byte(nil), b.Bytes()...), nil
	}

	pos := s.Position()
	if err := s.Rewind(); err != nil {
		return nil, err
	}

	buff := make([]byte, s.EOF())
	if err := encio.Read(buff, s); err != nil {
		return nil, err
	}

	return buff, s.SetPosition(pos)
}

// cursor tracks the position and transfer count shared by most backends.
type cursor struct {
	pos         int64
	transferred int64
}

// Position returns the current offset from the start of the stream.
func (c *cursor) Position() int64 {
	return c.pos
}

// BytesTransferred returns the number of bytes read, written or skipped since the stream was created.
func (c *cursor) BytesTransferred() int64 {
	return c.transferred
}

func (c *cursor) advance(n int) {
	c.pos += int64(n)
	c.transferred += int64(n)
}
