package stream

import (
	"fmt"
	"io"

	"github.com/stewi1014/hsstream/encio"
)

// Queue is a fixed-size ring buffer stream with independent read and write cursors.
//
// One slot is always kept empty to tell a full ring from an empty one, so a Queue of size n holds at most n-1 unread bytes.
// Reads, skips and writes are all-or-nothing: asking for more than is unread or free fails without transferring anything.
//
// Position counts bytes consumed since creation. EOF is Position plus the unread count.
// Consumed bytes stay in the ring until they are overwritten, and Rewind or SetPosition can move back over them.
type Queue struct {
	config *Config
	ring   []byte
	r, w   int
	pos    int64
}

// NewQueue returns an empty Queue with a ring of size bytes.
// It panics if size is less than 2, as such a ring could never hold anything.
func NewQueue(size int, config *Config) *Queue {
	if size < 2 {
		panic(encio.NewError(encio.ErrBadPosition, fmt.Sprintf("queue size %v is too small", size), ""))
	}
	return &Queue{
		config: config.copyAndFill(),
		ring:   make([]byte, size),
	}
}

// Size returns the ring size.
func (q *Queue) Size() int {
	return len(q.ring)
}

// ReadCursor returns the ring index of the next byte to read.
func (q *Queue) ReadCursor() int {
	return q.r
}

// WriteCursor returns the ring index the next write goes to.
func (q *Queue) WriteCursor() int {
	return q.w
}

// Unread returns the number of bytes written but not yet read.
func (q *Queue) Unread() int {
	return (q.w - q.r + len(q.ring)) % len(q.ring)
}

// Free returns the number of bytes that can be written.
func (q *Queue) Free() int {
	return len(q.ring) - 1 - q.Unread()
}

// replayable is the number of consumed bytes still in the ring.
func (q *Queue) replayable() int {
	return int(min(int64(q.Free()), q.pos))
}

// Ring returns the raw ring storage.
func (q *Queue) Ring() []byte {
	return q.ring
}

func (q *Queue) copyOut(p []byte) {
	first := copy(p, q.ring[q.r:])
	copy(p[first:], q.ring)
}

// Read implements io.Reader. Requests for more than Unread() bytes fail with ErrReadPastEnd and read nothing.
func (q *Queue) Read(p []byte) (int, error) {
	if len(p) > q.Unread() {
		return 0, encio.NewIOError(
			encio.ErrReadPastEnd,
			fmt.Sprintf("want %v bytes but only %v are unread", len(p), q.Unread()),
		)
	}

	q.copyOut(p)
	q.r = (q.r + len(p)) % len(q.ring)
	q.pos += int64(len(p))
	return len(p), nil
}

// Peek copies the next len(p) unread bytes into p without consuming them.
func (q *Queue) Peek(p []byte) error {
	if len(p) > q.Unread() {
		return encio.NewIOError(
			encio.ErrReadPastEnd,
			fmt.Sprintf("want %v bytes but only %v are unread", len(p), q.Unread()),
		)
	}
	q.copyOut(p)
	return nil
}

// Write implements io.Writer. Writes larger than Free() fail with ErrBufferOverrun and write nothing.
func (q *Queue) Write(p []byte) (int, error) {
	if len(p) > q.Free() {
		return 0, encio.NewIOError(
			encio.ErrBufferOverrun,
			fmt.Sprintf("cannot write %v bytes with only %v free", len(p), q.Free()),
		)
	}

	first := copy(q.ring[q.w:], p)
	copy(q.ring, p[first:])
	q.w = (q.w + len(p)) % len(q.ring)
	return len(p), nil
}

// Skip consumes n unread bytes.
func (q *Queue) Skip(n int64) error {
	if n < 0 {
		return encio.NewError(encio.ErrBadPosition, fmt.Sprintf("cannot skip %v bytes", n), "")
	}
	if n > int64(q.Unread()) {
		return encio.NewIOError(
			encio.ErrReadPastEnd,
			fmt.Sprintf("cannot skip %v bytes with only %v unread", n, q.Unread()),
		)
	}
	q.r = (q.r + int(n)) % len(q.ring)
	q.pos += n
	return nil
}

// Rewind moves the read cursor back over every consumed byte still held in the ring.
func (q *Queue) Rewind() error {
	back := q.replayable()
	q.r = (q.r - back + len(q.ring)) % len(q.ring)
	q.pos -= int64(back)
	return nil
}

// Position returns the number of bytes consumed.
func (q *Queue) Position() int64 {
	return q.pos
}

// SetPosition moves the read cursor to pos.
// Moving back is limited to consumed bytes not yet overwritten, and moving forward to unread bytes.
func (q *Queue) SetPosition(pos int64) error {
	if pos >= q.pos {
		return q.Skip(pos - q.pos)
	}

	back := q.pos - pos
	if back > int64(q.replayable()) {
		return encio.NewError(
			encio.ErrBadPosition,
			fmt.Sprintf("position %v has been overwritten, only %v bytes can be replayed", pos, q.replayable()),
			"",
		)
	}
	q.r = (q.r - int(back) + len(q.ring)) % len(q.ring)
	q.pos = pos
	return nil
}

// FastFwd consumes all unread bytes.
func (q *Queue) FastFwd() error {
	q.pos += int64(q.Unread())
	q.r = q.w
	return nil
}

// AtEnd reports if nothing is unread.
func (q *Queue) AtEnd() bool {
	return q.r == q.w
}

// EOF returns the position the stream would have after reading all unread bytes.
func (q *Queue) EOF() int64 {
	return q.pos + int64(q.Unread())
}

// WriteTo implements io.WriterTo, draining all unread bytes into w.
func (q *Queue) WriteTo(w io.Writer) (int64, error) {
	buff := make([]byte, q.Unread())
	q.copyOut(buff)
	n, err := w.Write(buff)
	q.r = (q.r + n) % len(q.ring)
	q.pos += int64(n)
	return int64(n), err
}

// Close is a no-op.
func (q *Queue) Close() error {
	return nil
}
