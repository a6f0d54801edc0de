package stream

import (
	"fmt"
	"io"

	"github.com/stewi1014/hsstream/encio"
)

// memory is the fixed-size storage shared by ReadOnly and WriteOnly.
// Positions are always within [0, len(data)].
type memory struct {
	cursor
	config *Config
	data   []byte
}

// Skip advances the position by n bytes. Skipping past the end fails and leaves the position unchanged.
func (m *memory) Skip(n int64) error {
	if n < 0 {
		return encio.NewError(encio.ErrBadPosition, fmt.Sprintf("cannot skip %v bytes", n), "")
	}
	if n > int64(len(m.data))-m.pos {
		return encio.NewIOError(
			encio.ErrReadPastEnd,
			fmt.Sprintf("cannot skip %v bytes with only %v left", n, int64(len(m.data))-m.pos),
		)
	}
	m.pos += n
	m.transferred += n
	return nil
}

// Rewind moves to the start of the buffer.
func (m *memory) Rewind() error {
	m.pos = 0
	return nil
}

// SetPosition moves to pos, which must be within [0, EOF()].
func (m *memory) SetPosition(pos int64) error {
	if pos < 0 || pos > int64(len(m.data)) {
		return encio.NewError(
			encio.ErrBadPosition,
			fmt.Sprintf("position %v is outside buffer of %v bytes", pos, len(m.data)),
			"",
		)
	}
	m.pos = pos
	return nil
}

// FastFwd moves to the end of the buffer.
func (m *memory) FastFwd() error {
	m.pos = int64(len(m.data))
	return nil
}

// AtEnd reports if the position is at the end of the buffer.
func (m *memory) AtEnd() bool {
	return m.pos >= int64(len(m.data))
}

// EOF returns the buffer length.
func (m *memory) EOF() int64 {
	return int64(len(m.data))
}

// Close is a no-op; memory streams hold no resources.
func (m *memory) Close() error {
	return nil
}

// ReadOnly is a stream reading from a caller-owned byte slice.
// Writes are unsupported.
type ReadOnly struct {
	memory
}

// NewReadOnly returns a ReadOnly stream over data. data is not copied and must not be modified while the stream is in use.
func NewReadOnly(data []byte, config *Config) *ReadOnly {
	return &ReadOnly{
		memory: memory{
			config: config.copyAndFill(),
			data:   data,
		},
	}
}

// Reset points the stream at new data and moves to the start.
func (r *ReadOnly) Reset(data []byte) {
	r.data = data
	r.pos = 0
}

// Read implements io.Reader.
// If fewer than len(p) bytes remain, they are copied and ErrReadPastEnd is returned with the count.
// If none remain, io.EOF is returned.
func (r *ReadOnly) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.AtEnd() {
		return 0, io.EOF
	}

	n := copy(p, r.data[r.pos:])
	r.advance(n)
	if n < len(p) {
		return n, encio.NewIOError(
			encio.ErrReadPastEnd,
			fmt.Sprintf("want %v bytes but only %v were left", len(p), n),
		)
	}
	return n, nil
}

// Write is unsupported.
func (r *ReadOnly) Write(p []byte) (int, error) {
	if err := r.config.unsupported("ReadOnly", "Write"); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Bytes returns the underlying data.
func (r *ReadOnly) Bytes() []byte {
	return r.data
}

// BytesRead returns the number of bytes read or skipped.
func (r *ReadOnly) BytesRead() int64 {
	return r.transferred
}

// WriteOnly is a stream writing into a caller-owned, fixed-capacity byte slice.
// Reads are unsupported, and writes that don't fit fail with ErrBufferOverrun.
type WriteOnly struct {
	memory
	high int64
}

// NewWriteOnly returns a WriteOnly stream over buff. Its capacity is len(buff).
func NewWriteOnly(buff []byte, config *Config) *WriteOnly {
	return &WriteOnly{
		memory: memory{
			config: config.copyAndFill(),
			data:   buff,
		},
	}
}

// WritesAtPosition implements PositionedWriter.
func (w *WriteOnly) WritesAtPosition() bool {
	return true
}

// Write implements io.Writer.
// Writes either fit entirely, or fail with ErrBufferOverrun without writing anything.
func (w *WriteOnly) Write(p []byte) (int, error) {
	if int64(len(p)) > int64(len(w.data))-w.pos {
		return 0, encio.NewIOError(
			encio.ErrBufferOverrun,
			fmt.Sprintf("cannot write %v bytes with only %v bytes of space", len(p), int64(len(w.data))-w.pos),
		)
	}

	n := copy(w.data[w.pos:], p)
	w.advance(n)
	if w.pos > w.high {
		w.high = w.pos
	}
	return n, nil
}

// Read is unsupported.
func (w *WriteOnly) Read(p []byte) (int, error) {
	if err := w.config.unsupported("WriteOnly", "Read"); err != nil {
		return 0, err
	}
	return 0, io.EOF
}

// Bytes returns the written part of the buffer, up to the furthest position written.
func (w *WriteOnly) Bytes() []byte {
	return w.data[:w.high]
}

// BytesWritten returns the number of bytes written or skipped.
func (w *WriteOnly) BytesWritten() int64 {
	return w.transferred
}
