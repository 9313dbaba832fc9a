package wire

import "fmt"

// ReliableMessage is implemented by every control-plane message.
type ReliableMessage interface {
	Type() byte
	Encode() []byte
}

type Connect struct{}

func (Connect) Type() byte     { return MsgConnect }
func (Connect) Encode() []byte { return nil }

type ConnectAck struct{ ClientID byte }

func (ConnectAck) Type() byte { return MsgConnectAck }
func (m ConnectAck) Encode() []byte {
	w := NewWriter()
	w.WriteU8(m.ClientID)
	return w.Bytes()
}

type ConnectNak struct{ Reason byte }

func (ConnectNak) Type() byte { return MsgConnectNak }
func (m ConnectNak) Encode() []byte {
	w := NewWriter()
	w.WriteU8(m.Reason)
	return w.Bytes()
}

type CreateLobby struct {
	MaxPlayers byte
	Name       string
}

func (CreateLobby) Type() byte { return MsgCreateLobby }
func (m CreateLobby) Encode() []byte {
	w := NewWriter()
	w.WriteU8(m.MaxPlayers)
	w.WriteString(m.Name)
	return w.Bytes()
}

type CreateLobbyAck struct{ LobbyID uint32 }

func (CreateLobbyAck) Type() byte { return MsgCreateLobbyAck }
func (m CreateLobbyAck) Encode() []byte {
	w := NewWriter()
	w.WriteU32(m.LobbyID)
	return w.Bytes()
}

type JoinLobby struct{ LobbyID uint32 }

func (JoinLobby) Type() byte { return MsgJoinLobby }
func (m JoinLobby) Encode() []byte {
	w := NewWriter()
	w.WriteU32(m.LobbyID)
	return w.Bytes()
}

// PlayerInfo describes one lobby occupant, sent inside JoinLobbyAck and
// PlayerJoined.
type PlayerInfo struct {
	ClientID byte
	Name     string
	Ready    bool
}

func (p PlayerInfo) encode(w *Writer) {
	w.WriteU8(p.ClientID)
	w.WriteString(p.Name)
	if p.Ready {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

func decodePlayerInfo(r *Reader) PlayerInfo {
	return PlayerInfo{
		ClientID: r.ReadU8(),
		Name:     r.ReadString(),
		Ready:    r.ReadU8() != 0,
	}
}

type JoinLobbyAck struct {
	LobbyID      uint32
	YourPlayerID byte
	Players      []PlayerInfo
}

func (JoinLobbyAck) Type() byte { return MsgJoinLobbyAck }
func (m JoinLobbyAck) Encode() []byte {
	w := NewWriter()
	w.WriteU32(m.LobbyID)
	w.WriteU8(m.YourPlayerID)
	w.WriteU8(byte(len(m.Players)))
	for _, p := range m.Players {
		p.encode(w)
	}
	return w.Bytes()
}

type LeaveLobby struct{}

func (LeaveLobby) Type() byte     { return MsgLeaveLobby }
func (LeaveLobby) Encode() []byte { return nil }

type LeaveLobbyAck struct{}

func (LeaveLobbyAck) Type() byte     { return MsgLeaveLobbyAck }
func (LeaveLobbyAck) Encode() []byte { return nil }

type PlayerJoined struct{ Info PlayerInfo }

func (PlayerJoined) Type() byte { return MsgPlayerJoined }
func (m PlayerJoined) Encode() []byte {
	w := NewWriter()
	m.Info.encode(w)
	return w.Bytes()
}

type PlayerLeft struct{ ClientID byte }

func (PlayerLeft) Type() byte { return MsgPlayerLeft }
func (m PlayerLeft) Encode() []byte {
	w := NewWriter()
	w.WriteU8(m.ClientID)
	return w.Bytes()
}

type Ready struct{}

func (Ready) Type() byte     { return MsgReady }
func (Ready) Encode() []byte { return nil }

type GameStart struct {
	UDPPort  uint16
	ServerID uint32
}

func (GameStart) Type() byte { return MsgGameStart }
func (m GameStart) Encode() []byte {
	w := NewWriter()
	w.WriteU16(m.UDPPort)
	w.WriteU32(m.ServerID)
	return w.Bytes()
}

type Error struct{ Code byte }

func (Error) Type() byte { return MsgError }
func (m Error) Encode() []byte {
	w := NewWriter()
	w.WriteU8(m.Code)
	return w.Bytes()
}

// DecodeReliable validates and parses a complete reliable-channel message.
func DecodeReliable(msgType byte, payload []byte) (ReliableMessage, error) {
	n := len(payload)
	r := NewReader(payload)
	switch msgType {
	case MsgConnect:
		if n != 0 {
			return nil, fmt.Errorf("wire: Connect length must be 0, got %d", n)
		}
		return Connect{}, nil
	case MsgConnectAck:
		if n != 1 {
			return nil, fmt.Errorf("wire: ConnectAck length must be 1, got %d", n)
		}
		return ConnectAck{ClientID: r.ReadU8()}, nil
	case MsgConnectNak:
		if n != 1 {
			return nil, fmt.Errorf("wire: ConnectNak length must be 1, got %d", n)
		}
		return ConnectNak{Reason: r.ReadU8()}, nil
	case MsgCreateLobby:
		if n < 2 {
			return nil, fmt.Errorf("wire: CreateLobby length must be >= 2, got %d", n)
		}
		return CreateLobby{MaxPlayers: r.ReadU8(), Name: r.ReadString()}, nil
	case MsgCreateLobbyAck:
		if n != 4 {
			return nil, fmt.Errorf("wire: CreateLobbyAck length must be 4, got %d", n)
		}
		return CreateLobbyAck{LobbyID: r.ReadU32()}, nil
	case MsgJoinLobby:
		if n != 4 {
			return nil, fmt.Errorf("wire: JoinLobby length must be 4, got %d", n)
		}
		return JoinLobby{LobbyID: r.ReadU32()}, nil
	case MsgJoinLobbyAck:
		if n < 6 {
			return nil, fmt.Errorf("wire: JoinLobbyAck length must be >= 6, got %d", n)
		}
		lobbyID := r.ReadU32()
		yourID := r.ReadU8()
		count := int(r.ReadU8())
		players := make([]PlayerInfo, count)
		for i := 0; i < count; i++ {
			if r.Remaining() <= 0 {
				return nil, fmt.Errorf("wire: JoinLobbyAck truncated player list")
			}
			players[i] = decodePlayerInfo(r)
		}
		return JoinLobbyAck{LobbyID: lobbyID, YourPlayerID: yourID, Players: players}, nil
	case MsgLeaveLobby:
		if n != 0 {
			return nil, fmt.Errorf("wire: LeaveLobby length must be 0, got %d", n)
		}
		return LeaveLobby{}, nil
	case MsgLeaveLobbyAck:
		if n != 0 {
			return nil, fmt.Errorf("wire: LeaveLobbyAck length must be 0, got %d", n)
		}
		return LeaveLobbyAck{}, nil
	case MsgPlayerJoined:
		if n < 3 {
			return nil, fmt.Errorf("wire: PlayerJoined length must be >= 3, got %d", n)
		}
		return PlayerJoined{Info: decodePlayerInfo(r)}, nil
	case MsgPlayerLeft:
		if n != 1 {
			return nil, fmt.Errorf("wire: PlayerLeft length must be 1, got %d", n)
		}
		return PlayerLeft{ClientID: r.ReadU8()}, nil
	case MsgReady:
		if n != 0 {
			return nil, fmt.Errorf("wire: Ready length must be 0, got %d", n)
		}
		return Ready{}, nil
	case MsgGameStart:
		if n != 6 {
			return nil, fmt.Errorf("wire: GameStart length must be 6, got %d", n)
		}
		return GameStart{UDPPort: r.ReadU16(), ServerID: r.ReadU32()}, nil
	case MsgError:
		if n != 1 {
			return nil, fmt.Errorf("wire: Error length must be 1, got %d", n)
		}
		return Error{Code: r.ReadU8()}, nil
	default:
		return nil, fmt.Errorf("wire: unknown reliable message type 0x%02x", msgType)
	}
}
