package stream_test

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"unicode"

	"github.com/maxatome/go-testdeep/td"
	"pgregory.net/rapid"

	"github.com/stewi1014/hsstream/encio"
	"github.com/stewi1014/hsstream/stream"
)

// Values written through a Codec read back identical, in order.
func TestProperty_CodecRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		u16 := rapid.Uint16().Draw(rt, "u16")
		i32 := rapid.Int32().Draw(rt, "i32")
		u64 := rapid.Uint64().Draw(rt, "u64")
		f32 := rapid.Float32().Draw(rt, "f32")
		f64 := rapid.Float64().Draw(rt, "f64")
		b := rapid.Bool().Draw(rt, "b")
		str := rapid.StringOfN(rapid.RuneFrom([]rune{'𝄞', '✓'}, unicode.Latin, unicode.Han), 0, 300, -1).Draw(rt, "str")
		arr := rapid.SliceOfN(rapid.Uint32(), 0, 64).Draw(rt, "arr")

		c := stream.NewCodec(stream.NewRAM(nil), nil)
		td.CmpNoError(rt, c.WriteLE16(u16))
		td.CmpNoError(rt, c.WriteLEInt32(i32))
		td.CmpNoError(rt, c.WriteBE64(u64))
		td.CmpNoError(rt, c.WriteLEFloat(f32))
		td.CmpNoError(rt, c.WriteBEDouble(f64))
		td.CmpNoError(rt, c.WriteBool(b))
		td.CmpNoError(rt, c.WriteSafeString(str))
		td.CmpNoError(rt, c.WriteSafeWString(str))
		td.CmpNoError(rt, c.WriteLE32s(arr))

		gu16, err := c.ReadLE16()
		td.CmpNoError(rt, err)
		td.Cmp(rt, gu16, u16)
		gi32, err := c.ReadLEInt32()
		td.CmpNoError(rt, err)
		td.Cmp(rt, gi32, i32)
		gu64, err := c.ReadBE64()
		td.CmpNoError(rt, err)
		td.Cmp(rt, gu64, u64)
		gf32, err := c.ReadLEFloat()
		td.CmpNoError(rt, err)
		td.Cmp(rt, math.Float32bits(gf32), math.Float32bits(f32))
		gf64, err := c.ReadBEDouble()
		td.CmpNoError(rt, err)
		td.Cmp(rt, math.Float64bits(gf64), math.Float64bits(f64))
		gb, err := c.ReadBool()
		td.CmpNoError(rt, err)
		td.Cmp(rt, gb, b)
		gstr, err := c.ReadSafeString()
		td.CmpNoError(rt, err)
		td.Cmp(rt, gstr, str)
		gwstr, err := c.ReadSafeWString()
		td.CmpNoError(rt, err)
		td.Cmp(rt, gwstr, str)
		garr := make([]uint32, len(arr))
		td.CmpNoError(rt, c.ReadLE32s(garr))
		for i := range arr {
			td.Cmp(rt, garr[i], arr[i], "index %v", i)
		}

		td.CmpTrue(rt, c.Stream().AtEnd())
	})
}

// Writing size-1 bytes, reading size-2, then writing size-2 more wraps without loss.
func TestProperty_QueueWrap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.IntRange(3, 512).Draw(rt, "size")
		first := rapid.SliceOfN(rapid.Byte(), size-1, size-1).Draw(rt, "first")
		second := rapid.SliceOfN(rapid.Byte(), size-2, size-2).Draw(rt, "second")

		q := stream.NewQueue(size, nil)
		_, err := q.Write(first)
		td.CmpNoError(rt, err)

		got := make([]byte, size-2)
		td.CmpNoError(rt, encio.Read(got, q))
		td.Cmp(rt, got, first[:size-2])

		_, err = q.Write(second)
		td.CmpNoError(rt, err)
		td.Cmp(rt, q.Free(), 0)

		want := append(append([]byte{}, first[size-2:]...), second...)
		got = make([]byte, len(want))
		td.CmpNoError(rt, encio.Read(got, q))
		td.Cmp(rt, got, want)
	})
}

// A Queue behaves as a bounded FIFO.
func TestProperty_QueueFIFO(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := rapid.IntRange(2, 64).Draw(rt, "size")
		q := stream.NewQueue(size, nil)
		var model []byte

		steps := rapid.IntRange(1, 100).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(rt, "write") {
				p := rapid.SliceOfN(rapid.Byte(), 0, size).Draw(rt, "p")
				n, err := q.Write(p)
				if len(p) > size-1-len(model) {
					td.CmpTrue(rt, errors.Is(err, encio.ErrBufferOverrun), "got %v", err)
					td.Cmp(rt, n, 0)
					continue
				}
				td.CmpNoError(rt, err)
				model = append(model, p...)
			} else {
				n := rapid.IntRange(0, size).Draw(rt, "n")
				p := make([]byte, n)
				_, err := q.Read(p)
				if n > len(model) {
					td.CmpTrue(rt, errors.Is(err, encio.ErrReadPastEnd), "got %v", err)
					continue
				}
				td.CmpNoError(rt, err)
				td.Cmp(rt, string(p), string(model[:n]))
				model = model[n:]
			}

			td.Cmp(rt, q.Unread(), len(model))
			td.Cmp(rt, q.EOF()-q.Position(), int64(len(model)))
		}
	})
}

// No sequence of operations on a Sub touches bytes of its base outside the window,
// whether or not the base writes at its position.
func TestProperty_SubIsolation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		baseLen := rapid.IntRange(1, 200).Draw(rt, "baseLen")
		offset := rapid.IntRange(0, baseLen).Draw(rt, "offset")
		length := rapid.IntRange(0, baseLen-offset).Draw(rt, "length")

		var (
			base     stream.Stream
			contents func() []byte
		)
		switch kind := rapid.SampledFrom([]string{"writeonly", "ram", "queue"}).Draw(rt, "base"); kind {
		case "writeonly":
			buff := make([]byte, baseLen)
			base = stream.NewWriteOnly(buff, nil)
			contents = func() []byte { return buff }
		case "ram":
			ram := stream.NewRAM(nil)
			ram.Write(make([]byte, baseLen))
			base = ram
			contents = ram.Bytes
		case "queue":
			q := stream.NewQueue(baseLen+1, nil)
			q.Write(make([]byte, baseLen))
			base = q
			contents = q.Ring
		}
		positioned := stream.WritesAtPosition(base)
		sizeBefore := len(contents())

		sub := stream.NewSub(base, int64(offset), int64(length), nil)

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				p := rapid.SliceOfN(rapid.Byte().Filter(func(b byte) bool { return b != 0 }), 1, baseLen).Draw(rt, "p")
				_, err := sub.Write(p)
				if !positioned {
					td.CmpTrue(rt, errors.Is(err, encio.ErrUnsupported), "got %v", err)
				}
			case 1:
				sub.SetPosition(rapid.Int64Range(-10, int64(baseLen)+10).Draw(rt, "pos"))
			case 2:
				sub.Skip(rapid.Int64Range(0, int64(baseLen)).Draw(rt, "skip"))
			}

			td.CmpTrue(rt, sub.Position() >= 0 && sub.Position() <= sub.EOF())
		}

		got := contents()
		td.Cmp(rt, len(got), sizeBefore, "base grew")
		for i, b := range got {
			if !positioned || i < offset || i >= offset+length {
				td.Cmp(rt, b, byte(0), "byte %v outside window [%v, %v)", i, offset, offset+length)
			}
		}
	})
}

// Memory streams never leave [0, EOF()], whatever they are asked to do.
func TestProperty_MemoryPositionBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 100).Draw(rt, "data")
		ram := stream.NewRAM(nil)
		ram.Write(data)
		streams := []stream.Stream{stream.NewReadOnly(data, nil), ram}

		steps := rapid.IntRange(1, 50).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			op := rapid.IntRange(0, 3).Draw(rt, "op")
			arg := rapid.Int64Range(-20, 120).Draw(rt, "arg")

			for _, s := range streams {
				before := s.Position()
				switch op {
				case 0:
					if err := s.Skip(arg); err != nil {
						td.Cmp(rt, s.Position(), before)
					}
				case 1:
					if err := s.SetPosition(arg); err != nil {
						td.Cmp(rt, s.Position(), before)
					}
				case 2:
					if arg >= 0 {
						p := make([]byte, arg)
						n, _ := s.Read(p)
						td.Cmp(rt, string(p[:n]), string(data[before:before+int64(n)]))
					}
				case 3:
					s.Rewind()
				}

				td.CmpTrue(rt, s.Position() >= 0 && s.Position() <= s.EOF(), "position %v, eof %v", s.Position(), s.EOF())
				td.Cmp(rt, s.AtEnd(), s.Position() == s.EOF())
			}
		}
	})
}

// batchEquivalence checks that a batch method writes the same bytes, and moves the position as far,
// as one scalar call per element, and that either encoding reads back with either method.
func batchEquivalence[T any](
	t *testing.T,
	gen *rapid.Generator[T],
	writeAll func(*stream.Codec, []T) error,
	writeOne func(*stream.Codec, T) error,
	readAll func(*stream.Codec, []T) error,
	readOne func(*stream.Codec) (T, error),
	bits func(T) uint64,
) {
	t.Helper()
	rapid.Check(t, func(rt *rapid.T) {
		vals := rapid.SliceOfN(gen, 0, 40).Draw(rt, "vals")

		batch := stream.NewWriteOnly(make([]byte, 512), nil)
		scalar := stream.NewWriteOnly(make([]byte, 512), nil)
		td.CmpNoError(rt, writeAll(stream.NewCodec(batch, nil), vals))
		cs := stream.NewCodec(scalar, nil)
		for _, v := range vals {
			td.CmpNoError(rt, writeOne(cs, v))
		}
		td.CmpTrue(rt, bytes.Equal(batch.Bytes(), scalar.Bytes()), "% x != % x", batch.Bytes(), scalar.Bytes())
		td.Cmp(rt, batch.Position(), scalar.Position())

		fromBatch := stream.NewReadOnly(batch.Bytes(), nil)
		fromScalar := stream.NewReadOnly(scalar.Bytes(), nil)
		got := make([]T, len(vals))
		td.CmpNoError(rt, readAll(stream.NewCodec(fromScalar, nil), got))
		cb := stream.NewCodec(fromBatch, nil)
		for i, v := range vals {
			one, err := readOne(cb)
			td.CmpNoError(rt, err)
			td.Cmp(rt, bits(one), bits(v), "scalar read %v", i)
			td.Cmp(rt, bits(got[i]), bits(v), "batch read %v", i)
		}
		td.Cmp(rt, fromBatch.Position(), fromScalar.Position())
		td.CmpTrue(rt, fromBatch.AtEnd())
	})
}

func TestProperty_BatchMatchesScalar(t *testing.T) {
	t.Run("bools", func(t *testing.T) {
		batchEquivalence(t, rapid.Bool(),
			(*stream.Codec).WriteBools, (*stream.Codec).WriteBool,
			(*stream.Codec).ReadBools, (*stream.Codec).ReadBool,
			func(v bool) uint64 {
				if v {
					return 1
				}
				return 0
			})
	})
	t.Run("uint16", func(t *testing.T) {
		batchEquivalence(t, rapid.Uint16(),
			(*stream.Codec).WriteLE16s, (*stream.Codec).WriteLE16,
			(*stream.Codec).ReadLE16s, (*stream.Codec).ReadLE16,
			func(v uint16) uint64 { return uint64(v) })
	})
	t.Run("int16", func(t *testing.T) {
		batchEquivalence(t, rapid.Int16(),
			(*stream.Codec).WriteLEInt16s, (*stream.Codec).WriteLEInt16,
			(*stream.Codec).ReadLEInt16s, (*stream.Codec).ReadLEInt16,
			func(v int16) uint64 { return uint64(v) })
	})
	t.Run("uint32", func(t *testing.T) {
		batchEquivalence(t, rapid.Uint32(),
			(*stream.Codec).WriteLE32s, (*stream.Codec).WriteLE32,
			(*stream.Codec).ReadLE32s, (*stream.Codec).ReadLE32,
			func(v uint32) uint64 { return uint64(v) })
	})
	t.Run("int32", func(t *testing.T) {
		batchEquivalence(t, rapid.Int32(),
			(*stream.Codec).WriteLEInt32s, (*stream.Codec).WriteLEInt32,
			(*stream.Codec).ReadLEInt32s, (*stream.Codec).ReadLEInt32,
			func(v int32) uint64 { return uint64(v) })
	})
	t.Run("uint64", func(t *testing.T) {
		batchEquivalence(t, rapid.Uint64(),
			(*stream.Codec).WriteLE64s, (*stream.Codec).WriteLE64,
			(*stream.Codec).ReadLE64s, (*stream.Codec).ReadLE64,
			func(v uint64) uint64 { return v })
	})
	// every bit pattern, NaN payloads and negative zero included
	t.Run("float32", func(t *testing.T) {
		batchEquivalence(t, rapid.Map(rapid.Uint32(), math.Float32frombits),
			(*stream.Codec).WriteLEFloats, (*stream.Codec).WriteLEFloat,
			(*stream.Codec).ReadLEFloats, (*stream.Codec).ReadLEFloat,
			func(v float32) uint64 { return uint64(math.Float32bits(v)) })
	})
	t.Run("float64", func(t *testing.T) {
		batchEquivalence(t, rapid.Map(rapid.Uint64(), math.Float64frombits),
			(*stream.Codec).WriteLEDoubles, (*stream.Codec).WriteLEDouble,
			(*stream.Codec).ReadLEDoubles, (*stream.Codec).ReadLEDouble,
			math.Float64bits)
	})
}
