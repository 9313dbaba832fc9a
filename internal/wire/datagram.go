package wire

import "fmt"

// EntityCreateSize is the fixed size of one EntityCreate payload, or one
// record inside a GameState payload: 4 netId + 1 kind + 4 hp + 4 x + 4 y.
const EntityCreateSize = 17

// EntityUpdateRecordSize is the fixed size of one EntityUpdate record:
// 4 netId + 4 hp + 4 x + 4 y.
const EntityUpdateRecordSize = 16

// DatagramMessage is implemented by every datagram-channel message. A
// decode either yields a concrete DatagramMessage or an error, never a
// panic.
type DatagramMessage interface {
	Type() byte
	Encode() []byte
}

type ClientPing struct{ Timestamp uint32 }

func (ClientPing) Type() byte { return MsgClientPing }

func (m ClientPing) Encode() []byte {
	w := NewWriter()
	w.WriteU32(m.Timestamp)
	return w.Bytes()
}

type PlayerAssignment struct{ NetID uint32 }

func (PlayerAssignment) Type() byte { return MsgPlayerAssignment }

func (m PlayerAssignment) Encode() []byte {
	w := NewWriter()
	w.WriteU32(m.NetID)
	return w.Bytes()
}

// EntityRecord is one 17-byte record: netId, entity-type tag, hp, x, y.
type EntityRecord struct {
	NetID uint32
	Kind  byte
	HP    int32
	X, Y  float32
}

func (r EntityRecord) encode(w *Writer) {
	w.WriteU32(r.NetID)
	w.WriteU8(r.Kind)
	w.WriteI32(r.HP)
	w.WriteF32(r.X)
	w.WriteF32(r.Y)
}

func decodeEntityRecord(r *Reader) EntityRecord {
	return EntityRecord{
		NetID: r.ReadU32(),
		Kind:  r.ReadU8(),
		HP:    r.ReadI32(),
		X:     r.ReadF32(),
		Y:     r.ReadF32(),
	}
}

type EntityCreate struct{ Record EntityRecord }

func (EntityCreate) Type() byte { return MsgEntityCreate }

func (m EntityCreate) Encode() []byte {
	w := NewWriter()
	m.Record.encode(w)
	return w.Bytes()
}

// EntityUpdateRecord is one 16-byte record: netId, hp, x, y.
type EntityUpdateRecord struct {
	NetID uint32
	HP    int32
	X, Y  float32
}

func (r EntityUpdateRecord) encode(w *Writer) {
	w.WriteU32(r.NetID)
	w.WriteI32(r.HP)
	w.WriteF32(r.X)
	w.WriteF32(r.Y)
}

type EntityUpdate struct{ Records []EntityUpdateRecord }

func (EntityUpdate) Type() byte { return MsgEntityUpdate }

func (m EntityUpdate) Encode() []byte {
	w := NewWriter()
	for _, r := range m.Records {
		r.encode(w)
	}
	return w.Bytes()
}

type EntityDestroy struct{ NetIDs []uint32 }

func (EntityDestroy) Type() byte { return MsgEntityDestroy }

func (m EntityDestroy) Encode() []byte {
	w := NewWriter()
	for _, id := range m.NetIDs {
		w.WriteU32(id)
	}
	return w.Bytes()
}

type GameState struct{ Records []EntityRecord }

func (GameState) Type() byte { return MsgGameState }

func (m GameState) Encode() []byte {
	w := NewWriter()
	w.WriteU32(uint32(len(m.Records)))
	for _, r := range m.Records {
		r.encode(w)
	}
	return w.Bytes()
}

// PlayerInput is exactly 2 bytes, {event_type, direction}.
type PlayerInput struct {
	EventType     byte
	DirectionMask byte
}

func (PlayerInput) Type() byte { return MsgPlayerInput }

func (m PlayerInput) Encode() []byte {
	w := NewWriter()
	w.WriteU8(m.EventType)
	w.WriteU8(m.DirectionMask)
	return w.Bytes()
}

// DecodeDatagram validates and parses a complete datagram-channel message
// (header already stripped; payload is exactly the header's declared
// length). It enforces the per-type length rules strictly: any violation
// returns an error and no partial message is handed back.
func DecodeDatagram(msgType byte, payload []byte) (DatagramMessage, error) {
	n := len(payload)
	r := NewReader(payload)
	switch msgType {
	case MsgClientPing:
		if n != 4 {
			return nil, fmt.Errorf("wire: ClientPing length must be 4, got %d", n)
		}
		return ClientPing{Timestamp: r.ReadU32()}, nil
	case MsgPlayerAssignment:
		if n != 4 {
			return nil, fmt.Errorf("wire: PlayerAssignment length must be 4, got %d", n)
		}
		return PlayerAssignment{NetID: r.ReadU32()}, nil
	case MsgEntityCreate:
		if n != EntityCreateSize {
			return nil, fmt.Errorf("wire: EntityCreate length must be %d, got %d", EntityCreateSize, n)
		}
		return EntityCreate{Record: decodeEntityRecord(r)}, nil
	case MsgEntityUpdate:
		if n == 0 || n%EntityUpdateRecordSize != 0 {
			return nil, fmt.Errorf("wire: EntityUpdate length must be a positive multiple of %d, got %d", EntityUpdateRecordSize, n)
		}
		count := n / EntityUpdateRecordSize
		records := make([]EntityUpdateRecord, count)
		for i := 0; i < count; i++ {
			records[i] = EntityUpdateRecord{
				NetID: r.ReadU32(),
				HP:    r.ReadI32(),
				X:     r.ReadF32(),
				Y:     r.ReadF32(),
			}
		}
		return EntityUpdate{Records: records}, nil
	case MsgEntityDestroy:
		if n == 0 || n%4 != 0 {
			return nil, fmt.Errorf("wire: EntityDestroy length must be a positive multiple of 4, got %d", n)
		}
		count := n / 4
		ids := make([]uint32, count)
		for i := 0; i < count; i++ {
			ids[i] = r.ReadU32()
		}
		return EntityDestroy{NetIDs: ids}, nil
	case MsgGameState:
		if n < 4 || (n-4)%EntityCreateSize != 0 {
			return nil, fmt.Errorf("wire: GameState length must be >= 4 with (length-4) a multiple of %d, got %d", EntityCreateSize, n)
		}
		count := int(r.ReadU32())
		if count*EntityCreateSize != n-4 {
			return nil, fmt.Errorf("wire: GameState declared count %d does not match payload length %d", count, n)
		}
		records := make([]EntityRecord, count)
		for i := 0; i < count; i++ {
			records[i] = decodeEntityRecord(r)
		}
		return GameState{Records: records}, nil
	case MsgPlayerInput:
		if n != 2 {
			return nil, fmt.Errorf("wire: PlayerInput length must be 2, got %d", n)
		}
		return PlayerInput{EventType: r.ReadU8(), DirectionMask: r.ReadU8()}, nil
	default:
		return nil, fmt.Errorf("wire: unknown datagram message type 0x%02x", msgType)
	}
}
