package encio

import (
	"io"
)

// Buffer is an append-only buffer for data with an independent read offset. It operates similar to bytes.Buffer,
// except read data is retained, so the read offset can be moved back over it.
type Buffer struct {
	buff []byte
	off  int
}

// Read implements io.Reader
func (b *Buffer) Read(buff []byte) (int, error) {
	if len(buff) == 0 {
		return 0, nil
	}
	if b.Len() == 0 {
		return 0, io.EOF
	}
	n := copy(buff, b.buff[b.off:])
	b.off += n
	return n, nil
}

// ReadByte implements io.ByteReader
func (b *Buffer) ReadByte() (byte, error) {
	if b.Len() == 0 {
		return 0, io.EOF
	}
	by := b.buff[b.off]
	b.off++
	return by, nil
}

// Write implements io.Writer. Data is always appended, regardless of the read offset.
func (b *Buffer) Write(buff []byte) (int, error) {
	return copy(b.buff[b.grow(len(buff)):], buff), nil
}

// WriteByte implements io.ByteWriter
func (b *Buffer) WriteByte(by byte) error {
	b.buff[b.grow(1)] = by
	return nil
}

// Len returns the length of the unread portion of the buffer
func (b *Buffer) Len() int {
	return len(b.buff) - b.off
}

// Size returns the total number of bytes held, read or not.
func (b *Buffer) Size() int {
	return len(b.buff)
}

// Offset returns the read offset.
func (b *Buffer) Offset() int {
	return b.off
}

// SetOffset moves the read offset. off is clamped to [0, Size()].
func (b *Buffer) SetOffset(off int) {
	b.off = min(max(off, 0), len(b.buff))
}

// Bytes returns all held bytes. The slice is only valid until the next write.
func (b *Buffer) Bytes() []byte {
	return b.buff
}

// Truncate discards all bytes after n. The read offset is pulled back if it was past n.
func (b *Buffer) Truncate(n int) {
	n = min(max(n, 0), len(b.buff))
	b.buff = b.buff[:n]
	if b.off > n {
		b.off = n
	}
}

// Reset empties the buffer, keeping the allocation.
func (b *Buffer) Reset() {
	b.buff = b.buff[:0]
	b.off = 0
}

func (b *Buffer) grow(n int) int {
	l := len(b.buff)
	if l+n <= cap(b.buff) {
		b.buff = b.buff[:l+n]
		return l
	}

	// must allocate
	nb := make([]byte, l+n, cap(b.buff)*2+n)
	copy(nb, b.buff)
	b.buff = nb
	return l
}
