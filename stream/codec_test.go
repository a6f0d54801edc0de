package stream_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/hsstream/encio"
	"github.com/stewi1014/hsstream/stream"
)

func TestCodecByteOrder(t *testing.T) {
	s := stream.NewRAM(nil)
	c := stream.NewCodec(s, nil)

	td.CmpNoError(t, c.WriteLE16(0x0102))
	td.CmpNoError(t, c.WriteBE16(0x0102))
	td.CmpNoError(t, c.WriteLE32(0x01020304))
	td.CmpNoError(t, c.WriteBE32(0x01020304))
	td.CmpNoError(t, c.WriteLE64(0x0102030405060708))
	td.CmpNoError(t, c.WriteBE64(0x0102030405060708))

	td.Cmp(t, s.Bytes(), []byte{
		0x02, 0x01,
		0x01, 0x02,
		0x04, 0x03, 0x02, 0x01,
		0x01, 0x02, 0x03, 0x04,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	})

	le16, err := c.ReadLE16()
	td.CmpNoError(t, err)
	td.Cmp(t, le16, uint16(0x0102))
	be16, err := c.ReadBE16()
	td.CmpNoError(t, err)
	td.Cmp(t, be16, uint16(0x0102))
	le32, err := c.ReadLE32()
	td.CmpNoError(t, err)
	td.Cmp(t, le32, uint32(0x01020304))
	be32, err := c.ReadBE32()
	td.CmpNoError(t, err)
	td.Cmp(t, be32, uint32(0x01020304))
	le64, err := c.ReadLE64()
	td.CmpNoError(t, err)
	td.Cmp(t, le64, uint64(0x0102030405060708))
	be64, err := c.ReadBE64()
	td.CmpNoError(t, err)
	td.Cmp(t, be64, uint64(0x0102030405060708))
}

func TestCodecFloats(t *testing.T) {
	s := stream.NewRAM(nil)
	c := stream.NewCodec(s, nil)

	td.CmpNoError(t, c.WriteLEFloat(1))
	td.Cmp(t, s.Bytes(), []byte{0x00, 0x00, 0x80, 0x3f})

	td.CmpNoError(t, c.WriteBEFloat(-2.5))
	td.CmpNoError(t, c.WriteLEDouble(math.Pi))
	td.CmpNoError(t, c.WriteBEDouble(math.Inf(-1)))

	f, err := c.ReadLEFloat()
	td.CmpNoError(t, err)
	td.Cmp(t, f, float32(1))
	f, err = c.ReadBEFloat()
	td.CmpNoError(t, err)
	td.Cmp(t, f, float32(-2.5))
	d, err := c.ReadLEDouble()
	td.CmpNoError(t, err)
	td.Cmp(t, d, math.Pi)
	d, err = c.ReadBEDouble()
	td.CmpNoError(t, err)
	td.CmpTrue(t, math.IsInf(d, -1))
}

func TestCodecFloatBits(t *testing.T) {
	negZero32 := float32(math.Copysign(0, -1))
	quietNaN32 := math.Float32frombits(0x7fc00001)
	negNaN32 := math.Float32frombits(0xffa00000)
	floats := []float32{negZero32, quietNaN32, negNaN32, math.MaxFloat32, math.SmallestNonzeroFloat32, float32(math.Inf(1))}

	negZero64 := math.Copysign(0, -1)
	quietNaN64 := math.Float64frombits(0x7ff8000000000001)
	negNaN64 := math.Float64frombits(0xfff4000000000000)
	doubles := []float64{negZero64, quietNaN64, negNaN64, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(-1)}

	s := stream.NewRAM(nil)
	c := stream.NewCodec(s, nil)
	for _, f := range floats {
		td.CmpNoError(t, c.WriteLEFloat(f))
		td.CmpNoError(t, c.WriteBEFloat(f))
	}
	for _, d := range doubles {
		td.CmpNoError(t, c.WriteLEDouble(d))
		td.CmpNoError(t, c.WriteBEDouble(d))
	}
	td.Cmp(t, s.Bytes()[:8], []byte{0, 0, 0, 0x80, 0x80, 0, 0, 0})

	for _, want := range floats {
		le, err := c.ReadLEFloat()
		td.CmpNoError(t, err)
		be, err := c.ReadBEFloat()
		td.CmpNoError(t, err)
		td.Cmp(t, math.Float32bits(le), math.Float32bits(want))
		td.Cmp(t, math.Float32bits(be), math.Float32bits(want))
	}
	for _, want := range doubles {
		le, err := c.ReadLEDouble()
		td.CmpNoError(t, err)
		be, err := c.ReadBEDouble()
		td.CmpNoError(t, err)
		td.Cmp(t, math.Float64bits(le), math.Float64bits(want))
		td.Cmp(t, math.Float64bits(be), math.Float64bits(want))
	}
	td.CmpTrue(t, s.AtEnd())

	d, err := stream.NewCodec(stream.NewReadOnly(make([]byte, 8), nil), nil).ReadLEDouble()
	td.CmpNoError(t, err)
	td.CmpFalse(t, math.Signbit(d))
}

func TestCodecBools(t *testing.T) {
	s := stream.NewRAM(nil)
	c := stream.NewCodec(s, nil)

	td.CmpNoError(t, c.WriteBool(true))
	td.CmpNoError(t, c.WriteBools([]bool{false, true, true}))
	td.Cmp(t, s.Bytes(), []byte{1, 0, 1, 1})

	// any non-zero byte is true
	s.Write([]byte{7})

	got := make([]bool, 5)
	td.CmpNoError(t, c.ReadBools(got))
	td.Cmp(t, got, []bool{true, false, true, true, true})
}

// countingStream counts calls to Read and Write.
type countingStream struct {
	*stream.RAM
	reads, writes int
}

func (c *countingStream) Read(p []byte) (int, error) {
	c.reads++
	return c.RAM.Read(p)
}

func (c *countingStream) Write(p []byte) (int, error) {
	c.writes++
	return c.RAM.Write(p)
}

func TestCodecBatchSingleTransfer(t *testing.T) {
	s := &countingStream{RAM: stream.NewRAM(nil)}
	c := stream.NewCodec(s, nil)

	u16 := []uint16{1, 2, 3, 0xffff}
	i16 := []int16{-1, 0, 1}
	u32 := []uint32{1, 2, 0xdeadbeef}
	i32 := []int32{math.MinInt32, -1, math.MaxInt32}
	u64 := []uint64{math.MaxUint64, 0}
	f32 := []float32{1.5, -0.25}
	f64 := []float64{math.E, 0}

	td.CmpNoError(t, c.WriteLE16s(u16))
	td.CmpNoError(t, c.WriteLEInt16s(i16))
	td.CmpNoError(t, c.WriteLE32s(u32))
	td.CmpNoError(t, c.WriteLEInt32s(i32))
	td.CmpNoError(t, c.WriteLE64s(u64))
	td.CmpNoError(t, c.WriteLEFloats(f32))
	td.CmpNoError(t, c.WriteLEDoubles(f64))
	td.Cmp(t, s.writes, 7)
	td.Cmp(t, s.EOF(), int64(4*2+3*2+3*4+3*4+2*8+2*4+2*8))

	gu16 := make([]uint16, len(u16))
	gi16 := make([]int16, len(i16))
	gu32 := make([]uint32, len(u32))
	gi32 := make([]int32, len(i32))
	gu64 := make([]uint64, len(u64))
	gf32 := make([]float32, len(f32))
	gf64 := make([]float64, len(f64))

	td.CmpNoError(t, c.ReadLE16s(gu16))
	td.CmpNoError(t, c.ReadLEInt16s(gi16))
	td.CmpNoError(t, c.ReadLE32s(gu32))
	td.CmpNoError(t, c.ReadLEInt32s(gi32))
	td.CmpNoError(t, c.ReadLE64s(gu64))
	td.CmpNoError(t, c.ReadLEFloats(gf32))
	td.CmpNoError(t, c.ReadLEDoubles(gf64))
	td.Cmp(t, s.reads, 7)

	td.Cmp(t, gu16, u16)
	td.Cmp(t, gi16, i16)
	td.Cmp(t, gu32, u32)
	td.Cmp(t, gi32, i32)
	td.Cmp(t, gu64, u64)
	td.Cmp(t, gf32, f32)
	td.Cmp(t, gf64, f64)
}

func TestCodecAtom(t *testing.T) {
	s := &countingStream{RAM: stream.NewRAM(nil)}
	c := stream.NewCodec(s, nil)

	td.CmpNoError(t, c.WriteLEAtom(0x4d4f4f56, 12))
	td.Cmp(t, s.writes, 1)
	td.Cmp(t, s.Bytes(), []byte{0x56, 0x4f, 0x4f, 0x4d, 12, 0, 0, 0})

	tag, size, err := c.ReadLEAtom()
	td.CmpNoError(t, err)
	td.Cmp(t, tag, uint32(0x4d4f4f56))
	td.Cmp(t, size, uint32(12))
}

func TestCodecReadPastEnd(t *testing.T) {
	c := stream.NewCodec(stream.NewReadOnly([]byte{1, 2, 3}, nil), nil)

	_, err := c.ReadLE32()
	td.CmpTrue(t, errors.Is(err, encio.ErrReadPastEnd), "got %v", err)

	var ioErr encio.IOError
	td.CmpTrue(t, errors.As(err, &ioErr))
}

func TestCodecFixedBytes(t *testing.T) {
	data := make([]byte, 24)
	for i := range data {
		data[i] = byte(i)
	}
	c := stream.NewCodec(stream.NewReadOnly(data, nil), nil)

	b4, err := c.Read4Bytes()
	td.CmpNoError(t, err)
	td.Cmp(t, b4, [4]byte{0, 1, 2, 3})
	b8, err := c.Read8Bytes()
	td.CmpNoError(t, err)
	td.Cmp(t, b8, [8]byte{4, 5, 6, 7, 8, 9, 10, 11})
	b12, err := c.Read12Bytes()
	td.CmpNoError(t, err)
	td.Cmp(t, b12[0], byte(12))
	td.Cmp(t, b12[11], byte(23))
}

func TestCodecText(t *testing.T) {
	s := stream.NewRAM(nil)
	c := stream.NewCodec(s, nil)

	td.CmpNoError(t, c.WriteString("count: "))
	td.CmpNoError(t, c.WriteFmt("%d/%s\n", 3, "four"))
	td.Cmp(t, string(s.Bytes()), "count: 3/four\n")

	td.CmpNoError(t, c.WriteFmt("%s", strings.Repeat("x", 100)))
	td.Cmp(t, s.EOF(), int64(14+100))
}

func BenchmarkCodecLE32s(b *testing.B) {
	src := make([]uint32, 1024)
	dst := make([]uint32, 1024)
	s := stream.NewRAM(nil)
	c := stream.NewCodec(s, nil)

	b.SetBytes(4 * 1024)
	for i := 0; i < b.N; i++ {
		s.Reset()
		if err := c.WriteLE32s(src); err != nil {
			b.Fatal(err)
		}
		if err := c.ReadLE32s(dst); err != nil {
			b.Fatal(err)
		}
	}
}
