package stream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/stewi1014/hsstream/encio"
)

// BufferStats counts how a Buffered stream's reads were served.
type BufferStats struct {
	// Hits is the number of reads served entirely from the cached block.
	Hits int64
	// Misses is the number of reads that refilled the cached block.
	Misses int64
	// BytesReadIn is the number of bytes read from the file into the cache.
	BytesReadIn int64
	// BytesReadOut is the number of bytes handed to callers from the cache.
	BytesReadOut int64
	// BytesReadDirect is the number of bytes read from the file straight into callers' buffers, bypassing the cache.
	BytesReadDirect int64
	// LastReadPos is the position of the most recent read.
	LastReadPos int64
}

// StatsReporter receives the statistics of a Buffered stream when it closes.
type StatsReporter interface {
	ReportBufferStats(name, reason string, stats BufferStats)
}

// Buffered is a file stream with a single-block read cache.
//
// A read entirely within the cached block is a hit and does no I/O.
// A read that misses but fits in the block refills the block from the read position.
// Larger reads go directly to the file and invalidate the block.
// Writes go straight to the file and invalidate the block, and are synced on Close.
type Buffered struct {
	config *Config
	f      *os.File
	name   string

	pos  int64
	size int64

	block    []byte
	base     int64
	blockLen int

	appendMode      bool
	writeBufferUsed bool

	stats       BufferStats
	closeReason string
}

// OpenBuffered opens name with an fopen-style mode (see ParseMode) behind a read cache of config.BlockSize bytes.
func OpenBuffered(name, mode string, config *Config) (*Buffered, error) {
	config = config.copyAndFill()

	f, flag, err := openOS(name, mode)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, encio.NewIOError(fmt.Errorf("%w: %w", encio.ErrOpenFailed, err), "stat "+name)
	}

	return &Buffered{
		config:     config,
		f:          f,
		name:       name,
		size:       info.Size(),
		block:      make([]byte, config.BlockSize),
		appendMode: flag&os.O_APPEND != 0,
	}, nil
}

// Name returns the name the file was opened with.
func (b *Buffered) Name() string {
	return b.name
}

// Stats returns the read statistics so far.
func (b *Buffered) Stats() BufferStats {
	return b.stats
}

// SetCloseReason records why the stream is being closed, for the statistics reported on Close.
func (b *Buffered) SetCloseReason(reason string) {
	b.closeReason = reason
}

func (b *Buffered) closedErr() error {
	return encio.NewError(encio.ErrClosed, b.name, "")
}

func (b *Buffered) invalidate() {
	b.blockLen = 0
}

// Read implements io.Reader, with OS short-read semantics.
func (b *Buffered) Read(p []byte) (int, error) {
	if b.f == nil {
		return 0, b.closedErr()
	}
	if len(p) == 0 {
		return 0, nil
	}

	b.stats.LastReadPos = b.pos

	// hit
	if b.blockLen > 0 && b.pos >= b.base && b.pos+int64(len(p)) <= b.base+int64(b.blockLen) {
		n := copy(p, b.block[b.pos-b.base:b.blockLen])
		b.pos += int64(n)
		b.stats.Hits++
		b.stats.BytesReadOut += int64(n)
		return n, nil
	}

	// too big to cache
	if len(p) > len(b.block) {
		b.invalidate()
		n, err := b.f.ReadAt(p, b.pos)
		b.pos += int64(n)
		b.stats.BytesReadDirect += int64(n)
		return n, b.readErr(n, err)
	}

	// miss
	m, err := b.f.ReadAt(b.block, b.pos)
	b.base = b.pos
	b.blockLen = m
	b.stats.Misses++
	b.stats.BytesReadIn += int64(m)
	if m == 0 {
		return 0, b.readErr(0, err)
	}

	n := copy(p, b.block[:m])
	b.pos += int64(n)
	b.stats.BytesReadOut += int64(n)
	if n < len(p) {
		return n, b.readErr(n, err)
	}
	return n, nil
}

func (b *Buffered) readErr(n int, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return io.EOF
	default:
		return encio.NewIOError(err, fmt.Sprintf("reading %v after %v bytes", b.name, n))
	}
}

// WritesAtPosition implements PositionedWriter. Files opened for appending always write at the end.
func (b *Buffered) WritesAtPosition() bool {
	return !b.appendMode
}

// Write implements io.Writer.
func (b *Buffered) Write(p []byte) (int, error) {
	if b.f == nil {
		return 0, b.closedErr()
	}

	b.invalidate()
	b.writeBufferUsed = true

	var (
		n   int
		err error
	)
	if b.appendMode {
		n, err = b.f.Write(p)
		if end, serr := b.f.Seek(0, io.SeekCurrent); serr == nil {
			b.pos = end
		}
	} else {
		n, err = b.f.WriteAt(p, b.pos)
		b.pos += int64(n)
	}

	if b.pos > b.size {
		b.size = b.pos
	}
	if err != nil {
		return n, encio.NewIOError(err, "writing "+b.name)
	}
	return n, nil
}

// Skip moves forward n bytes. It does no I/O.
func (b *Buffered) Skip(n int64) error {
	if b.f == nil {
		return b.closedErr()
	}
	if n < 0 {
		return encio.NewError(encio.ErrBadPosition, fmt.Sprintf("cannot skip %v bytes", n), "")
	}
	b.pos += n
	return nil
}

// Rewind moves to the start of the file and drops the cached block.
func (b *Buffered) Rewind() error {
	if b.f == nil {
		return b.closedErr()
	}
	b.invalidate()
	b.pos = 0
	return nil
}

// Position returns the current offset.
func (b *Buffered) Position() int64 {
	return b.pos
}

// SetPosition moves to pos. Positions past the end are allowed; negative ones are not.
func (b *Buffered) SetPosition(pos int64) error {
	if b.f == nil {
		return b.closedErr()
	}
	if pos < 0 {
		return encio.NewError(encio.ErrBadPosition, fmt.Sprintf("negative position %v", pos), "")
	}
	b.pos = pos
	return nil
}

// FastFwd moves to the end of the file.
func (b *Buffered) FastFwd() error {
	return b.SetPosition(b.size)
}

// AtEnd reports if the position is at or past the end of the file.
func (b *Buffered) AtEnd() bool {
	return b.pos >= b.size
}

// EOF returns the file size.
func (b *Buffered) EOF() int64 {
	return b.size
}

// Truncate cuts the file at the current position.
func (b *Buffered) Truncate() error {
	if b.f == nil {
		return b.closedErr()
	}

	b.invalidate()
	if err := b.f.Truncate(b.pos); err != nil {
		return encio.NewIOError(err, "truncating "+b.name)
	}
	b.size = b.pos
	return nil
}

// Flush syncs written data to storage, if anything was written since the last Flush.
func (b *Buffered) Flush() error {
	if b.f == nil {
		return b.closedErr()
	}
	if !b.writeBufferUsed {
		return nil
	}

	if err := b.f.Sync(); err != nil {
		return encio.NewIOError(err, "syncing "+b.name)
	}
	b.writeBufferUsed = false
	return nil
}

// Close flushes, reports statistics and closes the file. Further calls fail with ErrClosed.
func (b *Buffered) Close() error {
	if b.f == nil {
		return b.closedErr()
	}

	flushErr := b.Flush()

	b.config.logger().Debug("buffered stream closed",
		zap.String("name", b.name),
		zap.String("reason", b.closeReason),
		zap.Int64("hits", b.stats.Hits),
		zap.Int64("misses", b.stats.Misses),
		zap.Int64("bytes_read_in", b.stats.BytesReadIn),
		zap.Int64("bytes_read_out", b.stats.BytesReadOut),
		zap.Int64("bytes_read_direct", b.stats.BytesReadDirect),
		zap.Int64("last_read_pos", b.stats.LastReadPos),
	)
	if b.config.Reporter != nil {
		b.config.Reporter.ReportBufferStats(b.name, b.closeReason, b.stats)
	}

	err := b.f.Close()
	b.f = nil
	switch {
	case flushErr != nil:
		return flushErr
	case err != nil:
		return encio.NewIOError(err, "closing "+b.name)
	default:
		return nil
	}
}
