package server

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rtype/server/internal/core/event"
	"github.com/rtype/server/internal/lobby"
	"github.com/rtype/server/internal/ops"
	"github.com/rtype/server/internal/session"
	"github.com/rtype/server/internal/sim"
	"github.com/rtype/server/internal/transport"
	"github.com/rtype/server/internal/wire"
)

// handleReliable dispatches one decoded control-plane message against
// peer's current connection state. A message that fails to decode counts
// toward the malformed-packet disconnect threshold; a well-formed message
// in the wrong state is answered and otherwise ignored.
func (s *Server) handleReliable(peer *session.Peer, msg transport.IncomingMessage) {
	decoded, err := wire.DecodeReliable(msg.Type, msg.Payload)
	if err != nil {
		s.recordViolation(peer, "decode error", zap.Error(err))
		return
	}

	switch m := decoded.(type) {
	case wire.Connect:
		s.handleConnect(peer)
	case wire.CreateLobby:
		s.handleCreateLobby(peer, m)
	case wire.JoinLobby:
		s.handleJoinLobby(peer, m)
	case wire.LeaveLobby:
		s.handleLeaveLobby(peer)
	case wire.Ready:
		s.handleReady(peer)
	default:
		s.rejectUnexpected(peer, "message type not accepted from clients")
	}
}

// recordViolation implements the malformed-packet policy: drop, log at
// debug, and disconnect with Error(ProtocolViolation) once the client
// crosses the repeat-offense threshold.
func (s *Server) recordViolation(peer *session.Peer, reason string, fields ...zap.Field) {
	s.log.Debug("protocol violation", append(fields, zap.Int("client", peer.ClientID), zap.String("reason", reason))...)
	if s.violations.Record(peer.ClientID, time.Now()) {
		peer.Sess.Send(wire.Error{Code: wire.ReasonProtocolViolation})
		s.sessions.SetState(peer.ClientID, session.StateError)
		ops.RecordDisconnect("protocol_violation")
		peer.Sess.Close()
	}
}

// rejectUnexpected answers a well-formed message in the wrong state with
// Error(UnexpectedMessage); the connection keeps its current state.
func (s *Server) rejectUnexpected(peer *session.Peer, reason string) {
	s.log.Debug("unexpected message for state",
		zap.Int("client", peer.ClientID),
		zap.String("state", peer.State.String()),
		zap.String("reason", reason))
	peer.Sess.Send(wire.Error{Code: wire.ReasonUnexpectedMessage})
}

func (s *Server) handleConnect(peer *session.Peer) {
	if peer.State != session.StateConnecting {
		s.rejectUnexpected(peer, "Connect outside Connecting")
		return
	}
	// The protocol carries no username on Connect; peers get a stable
	// placeholder for lobby rosters.
	if peer.Username == "" {
		peer.Username = fmt.Sprintf("player%d", peer.ClientID)
	}
	s.sessions.SetState(peer.ClientID, session.StateConnected)
	peer.Sess.Send(wire.ConnectAck{ClientID: byte(peer.ClientID)})
	ops.ConnectedClients.Set(float64(len(s.sessions.Peers())))
}

func (s *Server) handleCreateLobby(peer *session.Peer, m wire.CreateLobby) {
	if peer.State != session.StateConnected {
		s.rejectUnexpected(peer, "CreateLobby outside Connected")
		return
	}
	l, err := s.lobbies.Create(peer.ClientID, peer.Username, int(m.MaxPlayers), m.Name)
	if err != nil {
		peer.Sess.Send(wire.ConnectNak{Reason: wire.ReasonLobbyFull})
		return
	}
	s.sessions.SetState(peer.ClientID, session.StateInLobby)
	peer.Sess.Send(wire.CreateLobbyAck{LobbyID: l.ID})
	ops.ActiveLobbies.Set(float64(s.lobbies.Count()))
}

func (s *Server) handleJoinLobby(peer *session.Peer, m wire.JoinLobby) {
	if peer.State != session.StateConnected {
		s.rejectUnexpected(peer, "JoinLobby outside Connected")
		return
	}
	l, err := s.lobbies.Join(peer.ClientID, peer.Username, m.LobbyID)
	if err != nil {
		peer.Sess.Send(wire.ConnectNak{Reason: wire.ReasonLobbyFull})
		return
	}
	s.sessions.SetState(peer.ClientID, session.StateInLobby)
	peer.Sess.Send(wire.JoinLobbyAck{
		LobbyID:      l.ID,
		YourPlayerID: byte(peer.ClientID),
		Players:      occupantsToPlayerInfo(l),
	})
	s.broadcastToLobby(l, peer.ClientID, wire.PlayerJoined{
		Info: wire.PlayerInfo{ClientID: byte(peer.ClientID), Name: peer.Username},
	})
}

func (s *Server) handleLeaveLobby(peer *session.Peer) {
	if peer.State != session.StateInLobby && peer.State != session.StateReady {
		s.rejectUnexpected(peer, "LeaveLobby outside lobby")
		return
	}
	lobbyID, _ := s.lobbies.LobbyOf(peer.ClientID)
	s.lobbyBroadcastLeave(lobbyID, peer.ClientID)
	s.lobbies.Leave(peer.ClientID)
	s.sessions.SetState(peer.ClientID, session.StateConnected)
	peer.Sess.Send(wire.LeaveLobbyAck{})
}

func (s *Server) lobbyBroadcastLeave(lobbyID uint32, clientID int) {
	l, ok := s.lobbies.Get(lobbyID)
	if !ok {
		return
	}
	s.broadcastToLobby(l, clientID, wire.PlayerLeft{ClientID: byte(clientID)})
}

func (s *Server) handleReady(peer *session.Peer) {
	if peer.State != session.StateInLobby {
		s.rejectUnexpected(peer, "Ready outside InLobby")
		return
	}
	s.sessions.SetState(peer.ClientID, session.StateReady)
	l, allReady := s.lobbies.SetReady(peer.ClientID, true)
	if !allReady {
		return
	}
	if err := s.lobbies.StartGame(l.ID); err != nil {
		return
	}
	s.startGame(l)
}

// startGame spawns a player avatar per occupant, tells every client to
// switch to the datagram channel, and binds each one's UDP source address
// expectation by the IP its TCP session connected from. Avatar creation is
// handed to the simulation goroutine — this handler runs on a session
// goroutine and must not touch the registry.
func (s *Server) startGame(l *lobby.Lobby) {
	standard := s.presets.Weapons["standard"]
	occupants := append([]lobby.Occupant(nil), l.Players...)

	s.enqueueSim(func() {
		for i, occ := range occupants {
			pos := sim.SpawnPosition(i, len(occupants), s.cfg.World.Height)
			id := s.world.SpawnPlayer(occ.ClientID, pos, &standard)
			event.Emit(s.loop.Bus, event.PlayerJoined{Player: id, ClientID: occ.ClientID})
		}
	})

	for _, occ := range occupants {
		peer, ok := s.sessions.Peer(occ.ClientID)
		if !ok {
			continue
		}
		s.sessions.SetState(occ.ClientID, session.StateInGame)
		if ip := s.clientIP(occ.ClientID); ip != "" {
			s.udp.ExpectClient(ip, occ.ClientID)
		}
		peer.Sess.Send(wire.GameStart{UDPPort: s.cfg.Network.UDPPort, ServerID: 1})
	}
}

func (s *Server) broadcastToLobby(l *lobby.Lobby, exceptClientID int, msg wire.ReliableMessage) {
	for _, occ := range l.Players {
		if occ.ClientID == exceptClientID {
			continue
		}
		if peer, ok := s.sessions.Peer(occ.ClientID); ok {
			peer.Sess.Send(msg)
		}
	}
}

func occupantsToPlayerInfo(l *lobby.Lobby) []wire.PlayerInfo {
	out := make([]wire.PlayerInfo, len(l.Players))
	for i, occ := range l.Players {
		out[i] = wire.PlayerInfo{ClientID: byte(occ.ClientID), Name: occ.Username, Ready: occ.Ready}
	}
	return out
}
