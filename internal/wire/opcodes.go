package wire

// Datagram channel message types, resolved against the original protocol
// header (Server/include/UdpMessageType.hpp).
const (
	MsgClientPing       byte = 0x00
	MsgPlayerAssignment byte = 0x01
	MsgEntityCreate     byte = 0x10
	MsgEntityUpdate     byte = 0x11
	MsgEntityDestroy    byte = 0x12
	MsgGameState        byte = 0x13
	MsgPlayerInput      byte = 0x20
)

// EntityTypeTag values used in EntityCreate/GameState records.
const (
	EntityTypePlayer           byte = 0x01
	EntityTypeEnemy            byte = 0x02
	EntityTypeProjectile       byte = 0x03
	EntityTypeAlliedProjectile byte = 0x04
)

// PlayerInput event types.
const (
	InputEventMove  byte = 0x01
	InputEventShoot byte = 0x02
	InputEventQuit  byte = 0x03
)

// PlayerInput direction mask bits.
const (
	DirUp    byte = 1 << 0
	DirDown  byte = 1 << 1
	DirLeft  byte = 1 << 2
	DirRight byte = 1 << 3
	DirFire  byte = 1 << 4
)

// Reliable channel message types, assigned sequentially starting at 0x01
// in declaration order.
const (
	MsgConnect byte = iota + 0x01
	MsgConnectAck
	MsgConnectNak
	MsgCreateLobby
	MsgCreateLobbyAck
	MsgJoinLobby
	MsgJoinLobbyAck
	MsgLeaveLobby
	MsgLeaveLobbyAck
	MsgPlayerJoined
	MsgPlayerLeft
	MsgReady
	MsgGameStart
	MsgError
)

// ConnectNak / Error reason codes.
const (
	ReasonGameFull          byte = 0x01
	ReasonLobbyFull         byte = 0x02
	ReasonUnexpectedMessage byte = 0x03
	ReasonProtocolViolation byte = 0x04
	ReasonServerError       byte = 0x05
)
