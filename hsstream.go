// Package hsstream provides binary serialisation of application types over positional byte streams.
//
// Goals include:
// Backend-agnostic: A value that implements Streamable reads and writes itself through a stream.Codec,
// and so works unchanged against files, buffered files, memory, ring buffers and substreams.
//
// Self-delimiting: The Encoder frames each value in an atom; a tag identifying its type and the size of its body.
// A Decoder can skip values it has no type registered for, and a value that misreads its own body cannot
// desynchronise the stream.
//
// hsstream/stream provides the stream backends and the typed Codec.
//
// hsstream/encio provides io helpers and error types shared by all packages.
package hsstream

import (
	"github.com/stewi1014/hsstream/stream"
)

// Streamable is implemented by types that serialise themselves through a Codec.
// Read must consume exactly what Write produced.
type Streamable interface {
	Read(c *stream.Codec) error
	Write(c *stream.Codec) error
}

// StreamSize returns the number of bytes v writes, without storing them.
func StreamSize(v Streamable) (int64, error) {
	null := stream.NewNull(nil)
	if err := v.Write(stream.NewCodec(null, nil)); err != nil {
		return 0, err
	}
	return null.BytesWritten(), nil
}

// Marshal returns the bytes v writes.
func Marshal(v Streamable) ([]byte, error) {
	ram := stream.NewRAM(nil)
	if err := v.Write(stream.NewCodec(ram, nil)); err != nil {
		return nil, err
	}
	return ram.Bytes(), nil
}

// Unmarshal reads v from data.
func Unmarshal(data []byte, v Streamable) error {
	return v.Read(stream.NewCodec(stream.NewReadOnly(data, nil), nil))
}
