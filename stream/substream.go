package stream

import (
	"fmt"
	"io"

	"github.com/stewi1014/hsstream/encio"
)

// Sub is a window of a base stream, presenting [offset, offset+length) of the base as a stream of its own.
// Local positions are always clamped to [0, length], and reads or writes are clipped to the window.
// Writes are only supported when the base writes at its position (see PositionedWriter);
// on other bases they are unsupported, since the bytes would land outside the window.
//
// Sub does not own its base; closing it only drops the reference.
// The base is repositioned before every transfer, so the base may be used elsewhere between calls.
type Sub struct {
	config *Config
	base   Stream
	offset int64
	length int64
	pos    int64
}

// NewSub returns a window of length bytes starting at offset in base.
func NewSub(base Stream, offset, length int64, config *Config) *Sub {
	s := &Sub{
		config: config.copyAndFill(),
	}
	s.Open(base, offset, length)
	return s
}

// Open repoints s at a new window and moves to its start.
func (s *Sub) Open(base Stream, offset, length int64) {
	s.base = base
	s.offset = max(offset, 0)
	s.length = max(length, 0)
	s.pos = 0
}

// Base returns the stream s is a window of, or nil after Close.
func (s *Sub) Base() Stream {
	return s.base
}

// Offset returns where the window starts in the base stream.
func (s *Sub) Offset() int64 {
	return s.offset
}

func (s *Sub) clip(n int) (int, error) {
	if s.base == nil {
		return 0, encio.NewError(encio.ErrClosed, "substream has no base", "")
	}
	if left := s.length - s.pos; int64(n) > left {
		n = int(left)
	}
	if err := s.base.SetPosition(s.offset + s.pos); err != nil {
		return 0, err
	}
	return n, nil
}

// Read implements io.Reader. Reads never extend past the window; a read clipped by it reports io.EOF with the count.
func (s *Sub) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	k, err := s.clip(len(p))
	if err != nil {
		return 0, err
	}
	if k == 0 {
		return 0, io.EOF
	}

	n, err := s.base.Read(p[:k])
	s.pos += int64(n)
	if err == nil && k < len(p) {
		err = io.EOF
	}
	return n, err
}

// WritesAtPosition implements PositionedWriter.
func (s *Sub) WritesAtPosition() bool {
	return s.base != nil && WritesAtPosition(s.base)
}

// Write implements io.Writer. Bytes that would fall outside the window are not written, and ErrBufferOverrun is returned.
func (s *Sub) Write(p []byte) (int, error) {
	if s.base != nil && !WritesAtPosition(s.base) {
		config := s.config
		if config == nil {
			config = DefaultConfig()
		}
		if err := config.unsupported("Sub", fmt.Sprintf("Write to %T", s.base)); err != nil {
			return 0, err
		}
		return len(p), nil
	}

	k, err := s.clip(len(p))
	if err != nil {
		return 0, err
	}

	n, err := s.base.Write(p[:k])
	s.pos += int64(n)
	if err == nil && k < len(p) {
		err = encio.NewIOError(
			encio.ErrBufferOverrun,
			fmt.Sprintf("substream of %v bytes has room for %v of %v bytes", s.length, k, len(p)),
		)
	}
	return n, err
}

// Skip moves forward n bytes, stopping at the end of the window.
func (s *Sub) Skip(n int64) error {
	return s.SetPosition(s.pos + n)
}

// Rewind moves to the start of the window.
func (s *Sub) Rewind() error {
	s.pos = 0
	return nil
}

// Position returns the position within the window.
func (s *Sub) Position() int64 {
	return s.pos
}

// SetPosition moves to pos, clamped to [0, EOF()].
func (s *Sub) SetPosition(pos int64) error {
	s.pos = min(max(pos, 0), s.length)
	return nil
}

// FastFwd moves to the end of the window.
func (s *Sub) FastFwd() error {
	s.pos = s.length
	return nil
}

// AtEnd reports if the position is at the end of the window.
func (s *Sub) AtEnd() bool {
	return s.pos >= s.length
}

// EOF returns the window length.
func (s *Sub) EOF() int64 {
	return s.length
}

// Close drops the base reference. The base stream is left open.
func (s *Sub) Close() error {
	s.base = nil
	s.offset = 0
	s.length = 0
	s.pos = 0
	return nil
}
