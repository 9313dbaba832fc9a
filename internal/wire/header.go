// Package wire implements the bit-exact framing and message codec shared by
// both transports. A message is always an 8-byte header followed by its
// payload; every multi-byte field is big-endian network byte order.
package wire

import "encoding/binary"

// HeaderSize is the fixed size of the shared header, in bytes.
const HeaderSize = 8

// MaxPayloadLen is the largest payload the 24-bit length field can express.
const MaxPayloadLen = 1<<24 - 1

// Header is the 8-byte frame header common to both channels.
//
//	offset 0   1 byte   message type
//	offset 1   3 bytes  payload length (big-endian uint24)
//	offset 4   4 bytes  sequence number (big-endian uint32)
type Header struct {
	Type     byte
	Length   uint32 // low 24 bits significant
	Sequence uint32
}

// PutHeader writes h into buf[0:8]. buf must have length >= 8.
func PutHeader(buf []byte, h Header) {
	buf[0] = h.Type
	buf[1] = byte(h.Length >> 16)
	buf[2] = byte(h.Length >> 8)
	buf[3] = byte(h.Length)
	binary.BigEndian.PutUint32(buf[4:8], h.Sequence)
}

// GetHeader reads a Header from buf[0:8]. buf must have length >= 8.
func GetHeader(buf []byte) Header {
	return Header{
		Type:     buf[0],
		Length:   uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]),
		Sequence: binary.BigEndian.Uint32(buf[4:8]),
	}
}
