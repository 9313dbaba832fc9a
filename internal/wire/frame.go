package wire

import (
	"fmt"
	"io"
)

// ReadReliableFrame reads one complete message from a reliable-channel
// byte stream: exactly the 4-byte prefix (type + 24-bit length), then
// exactly that many payload bytes plus the 4-byte sequence field before
// the message is complete.
func ReadReliableFrame(r io.Reader) (Header, []byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return Header{}, nil, fmt.Errorf("wire: read frame prefix: %w", err)
	}
	msgType := prefix[0]
	length := uint32(prefix[1])<<16 | uint32(prefix[2])<<8 | uint32(prefix[3])
	if length > MaxPayloadLen {
		return Header{}, nil, fmt.Errorf("wire: frame length %d exceeds %d", length, MaxPayloadLen)
	}

	rest := make([]byte, 4+length)
	if _, err := io.ReadFull(r, rest); err != nil {
		return Header{}, nil, fmt.Errorf("wire: read frame body (%d bytes): %w", len(rest), err)
	}

	h := Header{
		Type:     msgType,
		Length:   length,
		Sequence: uint32(rest[0])<<24 | uint32(rest[1])<<16 | uint32(rest[2])<<8 | uint32(rest[3]),
	}
	return h, rest[4:], nil
}

// WriteReliableFrame writes msg, framed with the shared header, to w. The
// sequence field is reserved (zero) on the reliable channel.
func WriteReliableFrame(w io.Writer, msg ReliableMessage) error {
	payload := msg.Encode()
	if len(payload) > MaxPayloadLen {
		return fmt.Errorf("wire: payload length %d exceeds %d", len(payload), MaxPayloadLen)
	}
	frame := make([]byte, HeaderSize+len(payload))
	PutHeader(frame, Header{Type: msg.Type(), Length: uint32(len(payload)), Sequence: 0})
	copy(frame[HeaderSize:], payload)
	_, err := w.Write(frame)
	return err
}

// EncodeDatagramFrame builds a complete outbound UDP packet for msg at the
// given per-direction sequence number.
func EncodeDatagramFrame(msg DatagramMessage, sequence uint32) []byte {
	payload := msg.Encode()
	frame := make([]byte, HeaderSize+len(payload))
	PutHeader(frame, Header{Type: msg.Type(), Length: uint32(len(payload)), Sequence: sequence})
	copy(frame[HeaderSize:], payload)
	return frame
}

// DecodeDatagramFrame validates and splits a complete UDP packet's bytes
// into its header and payload. The datagram's total size must equal the
// header's declared payload length plus the 8-byte header exactly, since
// there is no further framing layer underneath it.
func DecodeDatagramFrame(packet []byte) (Header, []byte, error) {
	if len(packet) < HeaderSize {
		return Header{}, nil, fmt.Errorf("wire: datagram shorter than header (%d bytes)", len(packet))
	}
	h := GetHeader(packet)
	if int(h.Length)+HeaderSize != len(packet) {
		return Header{}, nil, fmt.Errorf("wire: datagram length %d does not match header length %d+8", len(packet), h.Length)
	}
	return h, packet[HeaderSize:], nil
}
