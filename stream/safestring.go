package stream

import (
	"fmt"
	"unicode/utf16"

	"github.com/stewi1014/hsstream/encio"
)

// Safe strings are length-prefixed, with no terminator.
// The short forms use a uint16 length and the long forms a uint32 length, both little-endian.
// Narrow strings count bytes; wide strings count UTF-16 code units, each written as a little-endian uint16.

const (
	maxShortLen = 1<<16 - 1
	maxLongLen  = 1<<32 - 1
)

// checkLen makes sure a decoded length is sane before anything is allocated for it.
func (c *Codec) checkLen(n int64, width int64) error {
	size := n * width
	if uint64(size) > uint64(encio.TooBig) {
		return encio.NewIOError(
			encio.ErrMalformed,
			fmt.Sprintf("decoded string length %v is bigger than encio.TooBig (%v bytes)", n, encio.TooBig),
		)
	}
	if left := SizeLeft(c.s); size > left {
		return encio.NewIOError(
			encio.ErrReadPastEnd,
			fmt.Sprintf("decoded string of %v bytes but only %v are left", size, left),
		)
	}
	return nil
}

// WriteSafeString writes s with a uint16 length prefix.
// Strings longer than 65535 bytes fail with ErrStringTooLong and nothing is written.
func (c *Codec) WriteSafeString(s string) error {
	if len(s) > maxShortLen {
		return encio.NewError(
			encio.ErrStringTooLong,
			fmt.Sprintf("%v bytes don't fit a 16 bit length", len(s)),
			"",
		)
	}

	buff := c.arrBuff(2 + len(s))
	encio.EncodeUint16(buff, uint16(len(s)))
	copy(buff[2:], s)
	return encio.Write(buff, c.s)
}

// ReadSafeString reads a string with a uint16 length prefix.
func (c *Codec) ReadSafeString() (string, error) {
	n, err := c.ReadLE16()
	if err != nil {
		return "", err
	}
	return c.readString(int64(n))
}

// WriteSafeStringLong writes s with a uint32 length prefix.
func (c *Codec) WriteSafeStringLong(s string) error {
	if int64(len(s)) > maxLongLen {
		return encio.NewError(
			encio.ErrStringTooLong,
			fmt.Sprintf("%v bytes don't fit a 32 bit length", len(s)),
			"",
		)
	}

	buff := c.arrBuff(4 + len(s))
	encio.EncodeUint32(buff, uint32(len(s)))
	copy(buff[4:], s)
	return encio.Write(buff, c.s)
}

// ReadSafeStringLong reads a string with a uint32 length prefix.
func (c *Codec) ReadSafeStringLong() (string, error) {
	n, err := c.ReadLE32()
	if err != nil {
		return "", err
	}
	return c.readString(int64(n))
}

func (c *Codec) readString(n int64) (string, error) {
	if n == 0 {
		return "", nil
	}
	if err := c.checkLen(n, 1); err != nil {
		return "", err
	}

	buff := make([]byte, n)
	if err := encio.Read(buff, c.s); err != nil {
		return "", err
	}
	return string(buff), nil
}

// WriteSafeWString writes s as UTF-16 with a uint16 code unit count.
// Strings longer than 65535 code units fail with ErrStringTooLong and nothing is written.
func (c *Codec) WriteSafeWString(s string) error {
	units := utf16.Encode([]rune(s))
	if len(units) > maxShortLen {
		return encio.NewError(
			encio.ErrStringTooLong,
			fmt.Sprintf("%v code units don't fit a 16 bit length", len(units)),
			"",
		)
	}
	return c.writeWide(2, uint32(len(units)), units)
}

// ReadSafeWString reads a UTF-16 string with a uint16 code unit count.
func (c *Codec) ReadSafeWString() (string, error) {
	n, err := c.ReadLE16()
	if err != nil {
		return "", err
	}
	return c.readWide(int64(n))
}

// WriteSafeWStringLong writes s as UTF-16 with a uint32 code unit count.
func (c *Codec) WriteSafeWStringLong(s string) error {
	units := utf16.Encode([]rune(s))
	if int64(len(units)) > maxLongLen {
		return encio.NewError(
			encio.ErrStringTooLong,
			fmt.Sprintf("%v code units don't fit a 32 bit length", len(units)),
			"",
		)
	}
	return c.writeWide(4, uint32(len(units)), units)
}

// ReadSafeWStringLong reads a UTF-16 string with a uint32 code unit count.
func (c *Codec) ReadSafeWStringLong() (string, error) {
	n, err := c.ReadLE32()
	if err != nil {
		return "", err
	}
	return c.readWide(int64(n))
}

func (c *Codec) writeWide(prefix int, n uint32, units []uint16) error {
	buff := c.arrBuff(prefix + len(units)*2)
	if prefix == 2 {
		encio.EncodeUint16(buff, uint16(n))
	} else {
		encio.EncodeUint32(buff, n)
	}
	for i, u := range units {
		encio.EncodeUint16(buff[prefix+i*2:], u)
	}
	return encio.Write(buff, c.s)
}

func (c *Codec) readWide(n int64) (string, error) {
	if n == 0 {
		return "", nil
	}
	if err := c.checkLen(n, 2); err != nil {
		return "", err
	}

	units := make([]uint16, n)
	if err := c.ReadLE16s(units); err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}
