// Package session implements the per-client connection state machine:
// connecting through in-game, with the timeouts and UDP-silence handling
// that drive its transitions.
package session

import "fmt"

// State is a peer's current place in the connection lifecycle.
type State int

const (
	StateConnecting State = iota
	StateConnected
	StateInLobby
	StateReady
	StateInGame
	StateError
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateInLobby:
		return "InLobby"
	case StateReady:
		return "Ready"
	case StateInGame:
		return "InGame"
	case StateError:
		return "Error"
	case StateDisconnected:
		return "Disconnected"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}
