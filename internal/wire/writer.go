package wire

import (
	"encoding/binary"
	"math"
)

// Writer builds a message payload. All multi-byte writes are big-endian.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

func (w *Writer) WriteU8(v byte) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteF32 writes v as its raw IEEE-754 bits in network byte order.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString writes a 1-byte length prefix followed by the ASCII bytes.
// Names longer than 255 bytes are truncated — lobby/player display names
// have no legitimate reason to exceed that.
func (w *Writer) WriteString(s string) {
	if len(s) > 255 {
		s = s[:255]
	}
	w.WriteU8(byte(len(s)))
	w.buf = append(w.buf, s...)
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the current payload length.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Frame wraps the accumulated payload with the shared 8-byte header,
// producing a complete on-wire message.
func (w *Writer) Frame(msgType byte, sequence uint32) []byte {
	payload := w.buf
	out := make([]byte, HeaderSize+len(payload))
	PutHeader(out, Header{Type: msgType, Length: uint32(len(payload)), Sequence: sequence})
	copy(out[HeaderSize:], payload)
	return out
}
