package encio_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/maxatome/go-testdeep/td"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stewi1014/hsstream/encio"
)

// stingyWriter accepts at most max bytes per call, returning err once the limit of total is reached.
type stingyWriter struct {
	bytes.Buffer
	max   int
	total int
	err   error
}

func (w *stingyWriter) Write(p []byte) (int, error) {
	if w.Len() >= w.total {
		return 0, w.err
	}
	p = p[:min(len(p), w.max, w.total-w.Len())]
	return w.Buffer.Write(p)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) { return 0, nil }

type liarReader struct{}

func (liarReader) Read(p []byte) (int, error) { return len(p) + 1, nil }

type pastEndReader struct{}

func (pastEndReader) Read(p []byte) (int, error) {
	return 0, encio.NewIOError(encio.ErrReadPastEnd, "custom")
}

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.WarnLevel)
	old := encio.Logger()
	encio.SetLogger(zap.New(core))
	t.Cleanup(func() { encio.SetLogger(old) })
	return logs
}

func TestRead(t *testing.T) {
	data := []byte("0123456789")

	t.Run("whole", func(t *testing.T) {
		buff := make([]byte, 10)
		td.CmpNoError(t, encio.Read(buff, bytes.NewReader(data)))
		td.Cmp(t, buff, data)
	})

	t.Run("short reads", func(t *testing.T) {
		for name, r := range map[string]io.Reader{
			"one byte": iotest.OneByteReader(bytes.NewReader(data)),
			"half":     iotest.HalfReader(bytes.NewReader(data)),
			"data err": iotest.DataErrReader(bytes.NewReader(data)),
		} {
			buff := make([]byte, 10)
			td.CmpNoError(t, encio.Read(buff, r), name)
			td.Cmp(t, buff, data, name)
		}
	})

	t.Run("past end", func(t *testing.T) {
		buff := make([]byte, 16)
		err := encio.Read(buff, iotest.OneByteReader(bytes.NewReader(data)))
		td.CmpTrue(t, errors.Is(err, encio.ErrReadPastEnd), "got %v", err)
		td.Cmp(t, err, td.Isa(encio.IOError{}))
	})

	t.Run("past end passthrough", func(t *testing.T) {
		err := encio.Read(make([]byte, 4), pastEndReader{})
		td.CmpString(t, err, "custom: read past end")
	})

	t.Run("no progress", func(t *testing.T) {
		err := encio.Read(make([]byte, 4), zeroReader{})
		td.CmpTrue(t, errors.Is(err, io.ErrNoProgress), "got %v", err)
	})

	t.Run("bad reader", func(t *testing.T) {
		err := encio.Read(make([]byte, 4), liarReader{})
		td.Cmp(t, err.Error(), td.Contains("bad io.Reader implementation"))
	})

	t.Run("timeout", func(t *testing.T) {
		err := encio.Read(make([]byte, 4), iotest.TimeoutReader(iotest.OneByteReader(bytes.NewReader(data))))
		td.CmpTrue(t, errors.Is(err, iotest.ErrTimeout), "got %v", err)
	})
}

func TestWrite(t *testing.T) {
	data := []byte("0123456789")

	t.Run("whole", func(t *testing.T) {
		var buff bytes.Buffer
		td.CmpNoError(t, encio.Write(data, &buff))
		td.Cmp(t, buff.Bytes(), data)
	})

	t.Run("short writes are retried and logged", func(t *testing.T) {
		logs := observe(t)
		w := &stingyWriter{max: 3, total: 100}
		td.CmpNoError(t, encio.Write(data, w))
		td.Cmp(t, w.Bytes(), data)
		td.Cmp(t, logs.FilterMessage("short write without error, calling again").Len(), 3)
	})

	t.Run("no progress", func(t *testing.T) {
		observe(t)
		w := &stingyWriter{max: 3, total: 5}
		err := encio.Write(data, w)
		td.CmpTrue(t, errors.Is(err, io.ErrShortWrite), "got %v", err)
	})

	t.Run("writer error", func(t *testing.T) {
		observe(t)
		failed := errors.New("disk on fire")
		w := &stingyWriter{max: 4, total: 4, err: failed}
		td.Cmp(t, encio.Write(data, w), failed)
	})
}

func TestLogger(t *testing.T) {
	old := encio.Logger()
	defer encio.SetLogger(old)

	td.CmpNotNil(t, encio.Logger())

	l := zap.NewExample()
	encio.SetLogger(l)
	td.CmpShallow(t, encio.Logger(), l)

	encio.SetLogger(nil)
	td.CmpNotNil(t, encio.Logger())
	td.CmpFalse(t, encio.Logger() == l)
}
