package stream

import (
	"fmt"
	"io"

	"github.com/stewi1014/hsstream/encio"
)

// Null is a sink stream that discards writes and counts them.
// It is used to measure how many bytes a serialisation produces without storing them.
type Null struct {
	cursor
	config *Config
}

// NewNull returns a new Null stream.
func NewNull(config *Config) *Null {
	return &Null{
		config: config.copyAndFill(),
	}
}

// Write discards p and counts its length.
func (n *Null) Write(p []byte) (int, error) {
	n.advance(len(p))
	return len(p), nil
}

// Read is unsupported.
func (n *Null) Read(p []byte) (int, error) {
	if err := n.config.unsupported("Null", "Read"); err != nil {
		return 0, err
	}
	return 0, io.EOF
}

// Skip counts n bytes as if they were written.
func (n *Null) Skip(delta int64) error {
	if delta < 0 {
		return encio.NewError(encio.ErrBadPosition, fmt.Sprintf("cannot skip %v bytes", delta), "")
	}
	n.pos += delta
	n.transferred += delta
	return nil
}

// Rewind moves the position to zero. The written count is kept.
func (n *Null) Rewind() error {
	n.pos = 0
	return nil
}

// SetPosition moves the position to pos.
func (n *Null) SetPosition(pos int64) error {
	if pos < 0 {
		return encio.NewError(encio.ErrBadPosition, fmt.Sprintf("negative position %v", pos), "")
	}
	n.pos = pos
	return nil
}

// AtEnd is always true; nothing can be read from a Null stream.
func (n *Null) AtEnd() bool {
	return true
}

// EOF returns the number of bytes written.
func (n *Null) EOF() int64 {
	return n.transferred
}

// Truncate is a no-op.
func (n *Null) Truncate() error {
	return nil
}

// BytesWritten returns the number of bytes written or skipped.
func (n *Null) BytesWritten() int64 {
	return n.transferred
}

// Reset zeroes the written count and the position.
func (n *Null) Reset() {
	n.pos = 0
	n.transferred = 0
}

// Close is a no-op.
func (n *Null) Close() error {
	return nil
}
