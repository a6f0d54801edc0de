package stream

import (
	"fmt"
	"io"

	"github.com/stewi1014/hsstream/encio"
)

// RAM is a growable in-memory stream.
// Writes always append, and reads consume from an independent read position.
// Read bytes are kept, so Rewind and SetPosition can go back over them.
type RAM struct {
	config *Config
	buff   encio.Buffer
}

// NewRAM returns an empty RAM stream.
func NewRAM(config *Config) *RAM {
	return &RAM{
		config: config.copyAndFill(),
	}
}

// Read implements io.Reader with the same end-of-data behaviour as ReadOnly.
func (r *RAM) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n, err := r.buff.Read(p)
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, encio.NewIOError(
			encio.ErrReadPastEnd,
			fmt.Sprintf("want %v bytes but only %v were left", len(p), n),
		)
	}
	return n, nil
}

// Write implements io.Writer. It never fails.
func (r *RAM) Write(p []byte) (int, error) {
	return r.buff.Write(p)
}

// Skip moves the read position forward n bytes. Skipping past the written data fails and leaves the position unchanged.
func (r *RAM) Skip(n int64) error {
	if n < 0 {
		return encio.NewError(encio.ErrBadPosition, fmt.Sprintf("cannot skip %v bytes", n), "")
	}
	if n > int64(r.buff.Len()) {
		return encio.NewIOError(
			encio.ErrReadPastEnd,
			fmt.Sprintf("cannot skip %v bytes with only %v unread", n, r.buff.Len()),
		)
	}
	r.buff.SetOffset(r.buff.Offset() + int(n))
	return nil
}

// Rewind moves the read position to the first byte ever written.
func (r *RAM) Rewind() error {
	r.buff.SetOffset(0)
	return nil
}

// Position returns the read position.
func (r *RAM) Position() int64 {
	return int64(r.buff.Offset())
}

// SetPosition moves the read position to pos, which must be within [0, EOF()].
func (r *RAM) SetPosition(pos int64) error {
	if pos < 0 || pos > int64(r.buff.Size()) {
		return encio.NewError(
			encio.ErrBadPosition,
			fmt.Sprintf("position %v is outside %v written bytes", pos, r.buff.Size()),
			"",
		)
	}
	r.buff.SetOffset(int(pos))
	return nil
}

// FastFwd moves the read position past all written data.
func (r *RAM) FastFwd() error {
	r.buff.SetOffset(r.buff.Size())
	return nil
}

// AtEnd reports if all written data has been read.
func (r *RAM) AtEnd() bool {
	return r.buff.Len() == 0
}

// EOF returns the number of bytes written.
func (r *RAM) EOF() int64 {
	return int64(r.buff.Size())
}

// Truncate discards everything after the read position.
func (r *RAM) Truncate() error {
	r.buff.Truncate(r.buff.Offset())
	return nil
}

// Reset empties the stream.
func (r *RAM) Reset() {
	r.buff.Reset()
}

// Bytes returns all written data. It is only valid until the next write.
func (r *RAM) Bytes() []byte {
	return r.buff.Bytes()
}

// WriteTo implements io.WriterTo, writing the unread data to w.
func (r *RAM) WriteTo(w io.Writer) (int64, error) {
	unread := r.buff.Bytes()[r.buff.Offset():]
	n, err := w.Write(unread)
	r.buff.SetOffset(r.buff.Offset() + n)
	return int64(n), err
}

// Close is a no-op.
func (r *RAM) Close() error {
	return nil
}
