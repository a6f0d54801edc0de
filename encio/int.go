package encio

// Fixed-width byte order primitives. buff must be at least as long as the encoded width.

// EncodeUint16 writes a little-endian uint16 to buff.
func EncodeUint16(buff []byte, n uint16) {
	buff[0] = uint8(n)
	buff[1] = uint8(n >> 8)
}

// DecodeUint16 reads a little-endian uint16 from buff.
func DecodeUint16(buff []byte) uint16 {
	return uint16(buff[0]) | uint16(buff[1])<<8
}

// EncodeUint16BE writes a big-endian uint16 to buff.
func EncodeUint16BE(buff []byte, n uint16) {
	buff[0] = uint8(n >> 8)
	buff[1] = uint8(n)
}

// DecodeUint16BE reads a big-endian uint16 from buff.
func DecodeUint16BE(buff []byte) uint16 {
	return uint16(buff[0])<<8 | uint16(buff[1])
}

// EncodeUint32 writes a little-endian uint32 to buff.
func EncodeUint32(buff []byte, n uint32) {
	buff[0] = uint8(n)
	buff[1] = uint8(n >> 8)
	buff[2] = uint8(n >> 16)
	buff[3] = uint8(n >> 24)
}

// DecodeUint32 reads a little-endian uint32 from buff.
func DecodeUint32(buff []byte) uint32 {
	n := uint32(buff[0])
	n |= uint32(buff[1]) << 8
	n |= uint32(buff[2]) << 16
	n |= uint32(buff[3]) << 24
	return n
}

// EncodeUint32BE writes a big-endian uint32 to buff.
func EncodeUint32BE(buff []byte, n uint32) {
	buff[0] = uint8(n >> 24)
	buff[1] = uint8(n >> 16)
	buff[2] = uint8(n >> 8)
	buff[3] = uint8(n)
}

// DecodeUint32BE reads a big-endian uint32 from buff.
func DecodeUint32BE(buff []byte) uint32 {
	n := uint32(buff[0]) << 24
	n |= uint32(buff[1]) << 16
	n |= uint32(buff[2]) << 8
	n |= uint32(buff[3])
	return n
}

// EncodeUint64 writes a little-endian uint64 to buff.
func EncodeUint64(buff []byte, n uint64) {
	buff[0] = uint8(n)
	buff[1] = uint8(n >> 8)
	buff[2] = uint8(n >> 16)
	buff[3] = uint8(n >> 24)
	buff[4] = uint8(n >> 32)
	buff[5] = uint8(n >> 40)
	buff[6] = uint8(n >> 48)
	buff[7] = uint8(n >> 56)
}

// DecodeUint64 reads a little-endian uint64 from buff.
func DecodeUint64(buff []byte) uint64 {
	n := uint64(buff[0])
	n |= uint64(buff[1]) << 8
	n |= uint64(buff[2]) << 16
	n |= uint64(buff[3]) << 24
	n |= uint64(buff[4]) << 32
	n |= uint64(buff[5]) << 40
	n |= uint64(buff[6]) << 48
	n |= uint64(buff[7]) << 56
	return n
}

// EncodeUint64BE writes a big-endian uint64 to buff.
func EncodeUint64BE(buff []byte, n uint64) {
	buff[0] = uint8(n >> 56)
	buff[1] = uint8(n >> 48)
	buff[2] = uint8(n >> 40)
	buff[3] = uint8(n >> 32)
	buff[4] = uint8(n >> 24)
	buff[5] = uint8(n >> 16)
	buff[6] = uint8(n >> 8)
	buff[7] = uint8(n)
}

// DecodeUint64BE reads a big-endian uint64 from buff.
func DecodeUint64BE(buff []byte) uint64 {
	n := uint64(buff[0]) << 56
	n |= uint64(buff[1]) << 48
	n |= uint64(buff[2]) << 40
	n |= uint64(buff[3]) << 32
	n |= uint64(buff[4]) << 24
	n |= uint64(buff[5]) << 16
	n |= uint64(buff[6]) << 8
	n |= uint64(buff[7])
	return n
}
