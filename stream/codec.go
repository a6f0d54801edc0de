package stream

import (
	"fmt"
	"math"

	"github.com/stewi1014/hsstream/encio"
)

// Codec reads and writes typed binary fields on a Stream.
// All multi-byte values are little-endian unless the method name says otherwise.
// Fields are transferred whole; running out of data mid-field returns encio.ErrReadPastEnd.
//
// Batch methods transfer the whole slice in a single Read or Write on the stream.
//
// Codec is not safe for concurrent use.
type Codec struct {
	s      Stream
	config *Config
	buff   [12]byte
	arr    []byte
}

// NewCodec returns a Codec on s.
func NewCodec(s Stream, config *Config) *Codec {
	return &Codec{
		s:      s,
		config: config.copyAndFill(),
	}
}

// Stream returns the stream the Codec operates on.
func (c *Codec) Stream() Stream {
	return c.s
}

// Config returns the Codec's configuration.
func (c *Codec) Config() *Config {
	return c.config
}

// Read fills p from the stream.
func (c *Codec) Read(p []byte) error {
	return encio.Read(p, c.s)
}

// Write writes all of p to the stream.
func (c *Codec) Write(p []byte) error {
	return encio.Write(p, c.s)
}

// arrBuff returns a scratch buffer of n bytes for batch transfers.
func (c *Codec) arrBuff(n int) []byte {
	if cap(c.arr) < n {
		c.arr = make([]byte, n)
	}
	return c.arr[:n]
}

// ReadByte reads a single byte.
func (c *Codec) ReadByte() (byte, error) {
	if err := encio.Read(c.buff[:1], c.s); err != nil {
		return 0, err
	}
	return c.buff[0], nil
}

// WriteByte writes a single byte.
func (c *Codec) WriteByte(b byte) error {
	c.buff[0] = b
	return encio.Write(c.buff[:1], c.s)
}

// Read4Bytes reads 4 raw bytes.
func (c *Codec) Read4Bytes() (b [4]byte, err error) {
	err = encio.Read(b[:], c.s)
	return
}

// Read8Bytes reads 8 raw bytes.
func (c *Codec) Read8Bytes() (b [8]byte, err error) {
	err = encio.Read(b[:], c.s)
	return
}

// Read12Bytes reads 12 raw bytes.
func (c *Codec) Read12Bytes() (b [12]byte, err error) {
	err = encio.Read(b[:], c.s)
	return
}

// ReadBool reads a one-byte boolean. Any non-zero byte is true.
func (c *Codec) ReadBool() (bool, error) {
	b, err := c.ReadByte()
	return b != 0, err
}

// WriteBool writes a boolean as a single 0 or 1 byte.
func (c *Codec) WriteBool(v bool) error {
	if v {
		return c.WriteByte(1)
	}
	return c.WriteByte(0)
}

// ReadBools fills dst with one-byte booleans.
func (c *Codec) ReadBools(dst []bool) error {
	buff := c.arrBuff(len(dst))
	if err := encio.Read(buff, c.s); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = buff[i] != 0
	}
	return nil
}

// WriteBools writes src as one-byte booleans.
func (c *Codec) WriteBools(src []bool) error {
	buff := c.arrBuff(len(src))
	for i, v := range src {
		if v {
			buff[i] = 1
		} else {
			buff[i] = 0
		}
	}
	return encio.Write(buff, c.s)
}

// readN fills the first n bytes of the scratch buffer.
func (c *Codec) readN(n int) ([]byte, error) {
	buff := c.buff[:n]
	return buff, encio.Read(buff, c.s)
}

// readArray reads len(dst) values of width bytes in a single read.
func readArray[T any](c *Codec, dst []T, width int, decode func([]byte) T) error {
	buff := c.arrBuff(len(dst) * width)
	if err := encio.Read(buff, c.s); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = decode(buff[i*width:])
	}
	return nil
}

// writeArray writes src as values of width bytes in a single write.
func writeArray[T any](c *Codec, src []T, width int, encode func([]byte, T)) error {
	buff := c.arrBuff(len(src) * width)
	for i, v := range src {
		encode(buff[i*width:], v)
	}
	return encio.Write(buff, c.s)
}

// 16 bit

// ReadLE16 reads a little-endian uint16.
func (c *Codec) ReadLE16() (uint16, error) {
	buff, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return encio.DecodeUint16(buff), nil
}

// WriteLE16 writes a little-endian uint16.
func (c *Codec) WriteLE16(v uint16) error {
	encio.EncodeUint16(c.buff[:2], v)
	return encio.Write(c.buff[:2], c.s)
}

// ReadLE16s fills dst with little-endian uint16s.
func (c *Codec) ReadLE16s(dst []uint16) error {
	return readArray(c, dst, 2, encio.DecodeUint16)
}

// WriteLE16s writes src as little-endian uint16s.
func (c *Codec) WriteLE16s(src []uint16) error {
	return writeArray(c, src, 2, encio.EncodeUint16)
}

// ReadBE16 reads a big-endian uint16.
func (c *Codec) ReadBE16() (uint16, error) {
	buff, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return encio.DecodeUint16BE(buff), nil
}

// WriteBE16 writes a big-endian uint16.
func (c *Codec) WriteBE16(v uint16) error {
	encio.EncodeUint16BE(c.buff[:2], v)
	return encio.Write(c.buff[:2], c.s)
}

// ReadLEInt16 reads a little-endian int16.
func (c *Codec) ReadLEInt16() (int16, error) {
	v, err := c.ReadLE16()
	return int16(v), err
}

// WriteLEInt16 writes a little-endian int16.
func (c *Codec) WriteLEInt16(v int16) error {
	return c.WriteLE16(uint16(v))
}

// ReadLEInt16s fills dst with little-endian int16s.
func (c *Codec) ReadLEInt16s(dst []int16) error {
	return readArray(c, dst, 2, func(b []byte) int16 { return int16(encio.DecodeUint16(b)) })
}

// WriteLEInt16s writes src as little-endian int16s.
func (c *Codec) WriteLEInt16s(src []int16) error {
	return writeArray(c, src, 2, func(b []byte, v int16) { encio.EncodeUint16(b, uint16(v)) })
}

// 32 bit

// ReadLE32 reads a little-endian uint32.
func (c *Codec) ReadLE32() (uint32, error) {
	buff, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return encio.DecodeUint32(buff), nil
}

// WriteLE32 writes a little-endian uint32.
func (c *Codec) WriteLE32(v uint32) error {
	encio.EncodeUint32(c.buff[:4], v)
	return encio.Write(c.buff[:4], c.s)
}

// ReadLE32s fills dst with little-endian uint32s.
func (c *Codec) ReadLE32s(dst []uint32) error {
	return readArray(c, dst, 4, encio.DecodeUint32)
}

// WriteLE32s writes src as little-endian uint32s.
func (c *Codec) WriteLE32s(src []uint32) error {
	return writeArray(c, src, 4, encio.EncodeUint32)
}

// ReadBE32 reads a big-endian uint32.
func (c *Codec) ReadBE32() (uint32, error) {
	buff, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return encio.DecodeUint32BE(buff), nil
}

// WriteBE32 writes a big-endian uint32.
func (c *Codec) WriteBE32(v uint32) error {
	encio.EncodeUint32BE(c.buff[:4], v)
	return encio.Write(c.buff[:4], c.s)
}

// ReadLEInt32 reads a little-endian int32.
func (c *Codec) ReadLEInt32() (int32, error) {
	v, err := c.ReadLE32()
	return int32(v), err
}

// WriteLEInt32 writes a little-endian int32.
func (c *Codec) WriteLEInt32(v int32) error {
	return c.WriteLE32(uint32(v))
}

// ReadLEInt32s fills dst with little-endian int32s.
func (c *Codec) ReadLEInt32s(dst []int32) error {
	return readArray(c, dst, 4, func(b []byte) int32 { return int32(encio.DecodeUint32(b)) })
}

// WriteLEInt32s writes src as little-endian int32s.
func (c *Codec) WriteLEInt32s(src []int32) error {
	return writeArray(c, src, 4, func(b []byte, v int32) { encio.EncodeUint32(b, uint32(v)) })
}

// 64 bit

// ReadLE64 reads a little-endian uint64.
func (c *Codec) ReadLE64() (uint64, error) {
	buff, err := c.readN(8)
	if err != nil {
		return 0, err
	}
	return encio.DecodeUint64(buff), nil
}

// WriteLE64 writes a little-endian uint64.
func (c *Codec) WriteLE64(v uint64) error {
	encio.EncodeUint64(c.buff[:8], v)
	return encio.Write(c.buff[:8], c.s)
}

// ReadLE64s fills dst with little-endian uint64s.
func (c *Codec) ReadLE64s(dst []uint64) error {
	return readArray(c, dst, 8, encio.DecodeUint64)
}

// WriteLE64s writes src as little-endian uint64s.
func (c *Codec) WriteLE64s(src []uint64) error {
	return writeArray(c, src, 8, encio.EncodeUint64)
}

// ReadBE64 reads a big-endian uint64.
func (c *Codec) ReadBE64() (uint64, error) {
	buff, err := c.readN(8)
	if err != nil {
		return 0, err
	}
	return encio.DecodeUint64BE(buff), nil
}

// WriteBE64 writes a big-endian uint64.
func (c *Codec) WriteBE64(v uint64) error {
	encio.EncodeUint64BE(c.buff[:8], v)
	return encio.Write(c.buff[:8], c.s)
}

// floats

// ReadLEFloat reads a little-endian IEEE-754 float32.
func (c *Codec) ReadLEFloat() (float32, error) {
	v, err := c.ReadLE32()
	return math.Float32frombits(v), err
}

// WriteLEFloat writes a little-endian IEEE-754 float32.
func (c *Codec) WriteLEFloat(v float32) error {
	return c.WriteLE32(math.Float32bits(v))
}

// ReadLEFloats fills dst with little-endian float32s.
func (c *Codec) ReadLEFloats(dst []float32) error {
	return readArray(c, dst, 4, func(b []byte) float32 { return math.Float32frombits(encio.DecodeUint32(b)) })
}

// WriteLEFloats writes src as little-endian float32s.
func (c *Codec) WriteLEFloats(src []float32) error {
	return writeArray(c, src, 4, func(b []byte, v float32) { encio.EncodeUint32(b, math.Float32bits(v)) })
}

// ReadBEFloat reads a big-endian IEEE-754 float32.
func (c *Codec) ReadBEFloat() (float32, error) {
	v, err := c.ReadBE32()
	return math.Float32frombits(v), err
}

// WriteBEFloat writes a big-endian IEEE-754 float32.
func (c *Codec) WriteBEFloat(v float32) error {
	return c.WriteBE32(math.Float32bits(v))
}

// ReadLEDouble reads a little-endian IEEE-754 float64.
func (c *Codec) ReadLEDouble() (float64, error) {
	v, err := c.ReadLE64()
	return math.Float64frombits(v), err
}

// WriteLEDouble writes a little-endian IEEE-754 float64.
func (c *Codec) WriteLEDouble(v float64) error {
	return c.WriteLE64(math.Float64bits(v))
}

// ReadLEDoubles fills dst with little-endian float64s.
func (c *Codec) ReadLEDoubles(dst []float64) error {
	return readArray(c, dst, 8, func(b []byte) float64 { return math.Float64frombits(encio.DecodeUint64(b)) })
}

// WriteLEDoubles writes src as little-endian float64s.
func (c *Codec) WriteLEDoubles(src []float64) error {
	return writeArray(c, src, 8, func(b []byte, v float64) { encio.EncodeUint64(b, math.Float64bits(v)) })
}

// ReadBEDouble reads a big-endian IEEE-754 float64.
func (c *Codec) ReadBEDouble() (float64, error) {
	v, err := c.ReadBE64()
	return math.Float64frombits(v), err
}

// WriteBEDouble writes a big-endian IEEE-754 float64.
func (c *Codec) WriteBEDouble(v float64) error {
	return c.WriteBE64(math.Float64bits(v))
}

// atoms

// ReadLEAtom reads an atom header; a uint32 tag followed by a uint32 size.
func (c *Codec) ReadLEAtom() (tag, size uint32, err error) {
	buff, err := c.readN(8)
	if err != nil {
		return 0, 0, err
	}
	return encio.DecodeUint32(buff), encio.DecodeUint32(buff[4:]), nil
}

// WriteLEAtom writes an atom header in a single write.
func (c *Codec) WriteLEAtom(tag, size uint32) error {
	encio.EncodeUint32(c.buff[:4], tag)
	encio.EncodeUint32(c.buff[4:8], size)
	return encio.Write(c.buff[:8], c.s)
}

// text

// WriteString writes the bytes of s with no length or terminator.
func (c *Codec) WriteString(s string) error {
	return encio.Write([]byte(s), c.s)
}

// WriteFmt formats according to a format specifier and writes the result with no length or terminator.
func (c *Codec) WriteFmt(format string, a ...any) error {
	return encio.Write(fmt.Appendf(c.arrBuff(0), format, a...), c.s)
}
