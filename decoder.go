package hsstream

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/stewi1014/hsstream/encio"
	"github.com/stewi1014/hsstream/stream"
)

// NewDecoder returns a Decoder reading from s. A nil registry means DefaultRegistry.
// s must support SetPosition, as each value is read through a window over its atom body.
func NewDecoder(s stream.Stream, registry *Registry) *Decoder {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Decoder{
		s:        s,
		c:        stream.NewCodec(s, nil),
		registry: registry,
	}
}

// Decoder reads atoms written by an Encoder.
// It is safe for concurrent use.
type Decoder struct {
	mutex    sync.Mutex
	s        stream.Stream
	c        *stream.Codec
	sub      stream.Sub
	registry *Registry
}

// Decode reads the next atom and returns its value.
// Atoms with unregistered tags are skipped.
func (d *Decoder) Decode() (Streamable, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for {
		tag, size, err := d.next()
		if err != nil {
			return nil, err
		}

		v := d.registry.New(tag)
		if v == nil {
			if err := d.s.Skip(int64(size)); err != nil {
				return nil, err
			}
			continue
		}

		return v, d.body(v, size)
	}
}

// DecodeInto reads the next atom into v. The atom's tag must be the one v's type is registered under.
func (d *Decoder) DecodeInto(v Streamable) error {
	want, ok := d.registry.Tag(v)
	if !ok {
		return encio.NewError(encio.ErrMalformed, fmt.Sprintf("%T is not registered", v), "")
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	tag, size, err := d.next()
	if err != nil {
		return err
	}
	if tag != want {
		return encio.NewIOError(encio.ErrMalformed, fmt.Sprintf("want tag %#x for %T but got %#x", want, v, tag))
	}
	return d.body(v, size)
}

func (d *Decoder) next() (tag, size uint32, err error) {
	tag, size, err = d.c.ReadLEAtom()
	if err != nil {
		return 0, 0, err
	}
	if left := stream.SizeLeft(d.s); int64(size) > left {
		return 0, 0, encio.NewIOError(
			encio.ErrReadPastEnd,
			fmt.Sprintf("atom %#x claims %v bytes but only %v are left", tag, size, left),
		)
	}
	return tag, size, nil
}

// body reads v from the next size bytes, and leaves the stream after them however much v read.
func (d *Decoder) body(v Streamable, size uint32) error {
	start := d.s.Position()
	d.sub.Open(d.s, start, int64(size))
	defer d.sub.Close()

	if err := v.Read(stream.NewCodec(&d.sub, nil)); err != nil {
		if serr := d.s.SetPosition(start + int64(size)); serr != nil {
			return errors.Join(err, serr)
		}
		return err
	}
	if !d.sub.AtEnd() {
		encio.Logger().Warn("atom body not fully read",
			zap.String("type", fmt.Sprintf("%T", v)),
			zap.Uint32("size", size),
			zap.Int64("read", d.sub.Position()),
		)
	}
	return d.s.SetPosition(start + int64(size))
}
