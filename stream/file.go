package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stewi1014/hsstream/encio"
)

// ParseMode converts an fopen-style mode string ("r", "w", "a", "r+", "w+", "a+") into os.OpenFile flags.
// The 'b' and 't' modifiers are accepted and ignored.
func ParseMode(mode string) (int, error) {
	m := strings.Map(func(r rune) rune {
		if r == 'b' || r == 't' {
			return -1
		}
		return r
	}, mode)

	switch m {
	case "r":
		return os.O_RDONLY, nil
	case "r+":
		return os.O_RDWR, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	default:
		return 0, encio.NewError(encio.ErrOpenFailed, fmt.Sprintf("invalid mode %q", mode), "")
	}
}

func openOS(name, mode string) (*os.File, int, error) {
	flag, err := ParseMode(mode)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.OpenFile(name, flag, 0o644)
	if err != nil {
		return nil, 0, encio.NewIOError(fmt.Errorf("%w: %w", encio.ErrOpenFailed, err), "opening "+name)
	}
	return f, flag, nil
}

// File is a stream over an OS file, with every call going straight to the file.
// Positions follow the OS: seeking past the end is allowed, and reads there report io.EOF.
type File struct {
	cursor
	config     *Config
	f          *os.File
	name       string
	appendMode bool
}

// OpenFile opens name with an fopen-style mode. See ParseMode.
func OpenFile(name, mode string, config *Config) (*File, error) {
	f, flag, err := openOS(name, mode)
	if err != nil {
		return nil, err
	}

	return &File{
		config:     config.copyAndFill(),
		f:          f,
		name:       name,
		appendMode: flag&os.O_APPEND != 0,
	}, nil
}

// Name returns the name the file was opened with.
func (f *File) Name() string {
	return f.name
}

// OSFile returns the underlying file, or nil once closed.
func (f *File) OSFile() *os.File {
	return f.f
}

func (f *File) closedErr() error {
	return encio.NewError(encio.ErrClosed, f.name, "")
}

// Read implements io.Reader, with OS short-read semantics.
func (f *File) Read(p []byte) (int, error) {
	if f.f == nil {
		return 0, f.closedErr()
	}

	n, err := f.f.Read(p)
	f.advance(n)
	if err != nil && !errors.Is(err, io.EOF) {
		err = encio.NewIOError(err, "reading "+f.name)
	}
	return n, err
}

// WritesAtPosition implements PositionedWriter. Files opened for appending always write at the end.
func (f *File) WritesAtPosition() bool {
	return !f.appendMode
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	if f.f == nil {
		return 0, f.closedErr()
	}

	n, err := f.f.Write(p)
	f.advance(n)
	if f.appendMode {
		// appends land at the end regardless of where we were.
		if end, serr := f.f.Seek(0, io.SeekCurrent); serr == nil {
			f.pos = end
		}
	}
	if err != nil {
		return n, encio.NewIOError(err, "writing "+f.name)
	}
	return n, nil
}

func (f *File) seek(offset int64, whence int) error {
	if f.f == nil {
		return f.closedErr()
	}

	pos, err := f.f.Seek(offset, whence)
	if err != nil {
		return encio.NewIOError(err, "seeking "+f.name)
	}
	f.pos = pos
	return nil
}

// Skip moves forward n bytes.
func (f *File) Skip(n int64) error {
	if n < 0 {
		return encio.NewError(encio.ErrBadPosition, fmt.Sprintf("cannot skip %v bytes", n), "")
	}
	if err := f.seek(n, io.SeekCurrent); err != nil {
		return err
	}
	f.transferred += n
	return nil
}

// Rewind moves to the start of the file.
func (f *File) Rewind() error {
	return f.seek(0, io.SeekStart)
}

// SetPosition moves to pos. Positions past the end are allowed; negative ones are not.
func (f *File) SetPosition(pos int64) error {
	if pos < 0 {
		return encio.NewError(encio.ErrBadPosition, fmt.Sprintf("negative position %v", pos), "")
	}
	return f.seek(pos, io.SeekStart)
}

// FastFwd moves to the end of the file.
func (f *File) FastFwd() error {
	return f.seek(0, io.SeekEnd)
}

// AtEnd reports if the position is at or past the end of the file.
func (f *File) AtEnd() bool {
	return f.pos >= f.EOF()
}

// EOF returns the file size, or 0 if it can't be determined.
func (f *File) EOF() int64 {
	if f.f == nil {
		return 0
	}
	info, err := f.f.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}

// Truncate cuts the file at the current position.
func (f *File) Truncate() error {
	if f.f == nil {
		return f.closedErr()
	}
	if err := f.f.Truncate(f.pos); err != nil {
		return encio.NewIOError(err, "truncating "+f.name)
	}
	return nil
}

// Flush commits written data to storage.
func (f *File) Flush() error {
	if f.f == nil {
		return f.closedErr()
	}
	if err := f.f.Sync(); err != nil {
		return encio.NewIOError(err, "syncing "+f.name)
	}
	return nil
}

// Close closes the file. Further calls fail with ErrClosed.
func (f *File) Close() error {
	if f.f == nil {
		return f.closedErr()
	}

	err := f.f.Close()
	f.f = nil
	if err != nil {
		return encio.NewIOError(err, "closing "+f.name)
	}
	return nil
}
