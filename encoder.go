package hsstream

import (
	"fmt"
	"sync"

	"github.com/stewi1014/hsstream/encio"
	"github.com/stewi1014/hsstream/stream"
)

// NewEncoder returns an Encoder writing to s. A nil registry means DefaultRegistry.
func NewEncoder(s stream.Stream, registry *Registry) *Encoder {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &Encoder{
		c:        stream.NewCodec(s, nil),
		null:     stream.NewNull(nil),
		registry: registry,
	}
}

// Encoder writes registered Streamables as atoms.
// It is safe for concurrent use.
type Encoder struct {
	mutex    sync.Mutex
	c        *stream.Codec
	null     *stream.Null
	registry *Registry
}

// Encode writes v's tag and size, followed by v.
func (e *Encoder) Encode(v Streamable) error {
	tag, ok := e.registry.Tag(v)
	if !ok {
		return encio.NewError(encio.ErrMalformed, fmt.Sprintf("%T is not registered", v), "")
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	// measure first, so the header is right
	e.null.Reset()
	if err := v.Write(stream.NewCodec(e.null, nil)); err != nil {
		return err
	}
	size := e.null.BytesWritten()
	if size > 1<<32-1 {
		return encio.NewError(encio.ErrStringTooLong, fmt.Sprintf("%T encodes to %v bytes", v, size), "")
	}

	if err := e.c.WriteLEAtom(tag, uint32(size)); err != nil {
		return err
	}
	return v.Write(e.c)
}
