package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rtype/server/internal/ops"
	"github.com/rtype/server/internal/session"
	"github.com/rtype/server/internal/sim"
	"github.com/rtype/server/internal/transport"
	"github.com/rtype/server/internal/wire"
)

// datagramLoop consumes the UDP socket's demuxed inbound packets and turns
// validated PlayerInput datagrams into queued client events. ClientPing
// and anything else on this channel adds no input event; the only
// simulation-thread work any datagram can schedule is the one-time
// PlayerAssignment lookup for a client that has not received it yet.
func (s *Server) datagramLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case dgram, ok := <-s.udp.Incoming():
			if !ok {
				return nil
			}
			s.handleDatagram(dgram)
		}
	}
}

func (s *Server) handleDatagram(dgram transport.IncomingDatagram) {
	if dgram.ClientID == 0 {
		return
	}
	if !s.datagramLimiter.Allow(dgram.ClientID) {
		return
	}
	h, payload, err := wire.DecodeDatagramFrame(dgram.Data)
	if err != nil {
		s.log.Debug("malformed datagram", zap.Int("client", dgram.ClientID), zap.Error(err))
		return
	}
	decoded, err := wire.DecodeDatagram(h.Type, payload)
	if err != nil {
		s.log.Debug("malformed datagram", zap.Int("client", dgram.ClientID), zap.Error(err))
		return
	}

	switch m := decoded.(type) {
	case wire.PlayerInput:
		s.queue.Push(sim.ClientEvent{
			ClientID:      dgram.ClientID,
			EventType:     m.EventType,
			DirectionMask: m.DirectionMask,
		})
		s.sessions.NoteUDP(dgram.ClientID)
	case wire.ClientPing:
		s.sessions.NoteUDP(dgram.ClientID)
	}

	// First datagram from a freshly bound client: schedule its
	// PlayerAssignment. The world lookup happens on the simulation
	// goroutine; netIDSent just keeps this from re-enqueueing per packet.
	if rt := s.clientRuntime(dgram.ClientID); rt != nil && !rt.netIDSent.Load() {
		clientID := dgram.ClientID
		s.enqueueSim(func() { s.assignNetID(clientID) })
	}
}

// assignNetID sends PlayerAssignment once the client's avatar exists, so
// the client learns which NetId is its own before the first snapshot
// arrives. Runs on the simulation goroutine.
func (s *Server) assignNetID(clientID int) {
	rt := s.clientRuntime(clientID)
	if rt == nil || rt.netIDSent.Load() {
		return
	}
	entID, ok := s.world.PlayerEntity(clientID)
	if !ok {
		return
	}
	ne, ok := s.world.NetworkEntities.Get(entID)
	if !ok {
		return
	}
	rt.netIDSent.Store(true)
	s.sendDatagram(clientID, rt, wire.PlayerAssignment{NetID: ne.NetID})
}

// simLoop drives the fixed-timestep accumulator in real time and
// broadcasts the resulting delta after every batch of ticks it runs.
func (s *Server) simLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.loop.StepSize())
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			s.runSimCommands()
			s.applySilenceGrace(now)

			start := time.Now()
			ran := s.loop.Advance(dt)
			if ran > 0 {
				ops.RecordTick(time.Since(start))
				ops.TicksRun.Add(float64(ran))
				if ran > 1 {
					ops.CatchupTicksRun.Add(float64(ran - 1))
				}
				ops.EntityCount.Set(float64(s.world.NetworkEntities.Len()))
				s.ops.Heartbeat()
				s.broadcastSnapshot()
			}
			s.checkTimeouts(now)
		}
	}
}

// applySilenceGrace zeroes the input component of every in-game client
// whose datagram channel has gone quiet past the grace window: the avatar
// coasts to a stop instead of continuing on its last held keys. The
// entity itself survives until the disconnect threshold.
func (s *Server) applySilenceGrace(now time.Time) {
	grace := s.cfg.Network.InputSilenceGrace()
	for _, peer := range s.sessions.Peers() {
		if peer.State != session.StateInGame || !peer.UDPSilent(now, grace) {
			continue
		}
		id, ok := s.world.PlayerEntity(peer.ClientID)
		if !ok {
			continue
		}
		if in, ok := s.world.Inputs.Get(id); ok {
			*in = sim.Input{}
		}
	}
}

// broadcastSnapshot computes and sends each in-game client's delta since
// its own last-acknowledged tick. The wire protocol defines no explicit
// acknowledgment packet, so delivery is assumed optimistically the moment
// a datagram is handed to the UDP socket — consistent with the channel's
// best-effort contract.
func (s *Server) broadcastSnapshot() {
	tick := s.loop.CurrentTick()
	var allCreatedNetIDs []uint32

	for _, peer := range s.sessions.Peers() {
		if peer.State != session.StateInGame {
			continue
		}
		rt := s.clientRuntime(peer.ClientID)
		if rt == nil {
			continue
		}
		d := s.ring.DeltaSince(rt.lastAckedTick, rt.hasAcked)

		if d.Full != nil {
			s.sendDatagram(peer.ClientID, rt, d.Full)
		}
		for i := range d.Creates {
			s.sendDatagram(peer.ClientID, rt, d.Creates[i])
			allCreatedNetIDs = append(allCreatedNetIDs, d.Creates[i].Record.NetID)
		}
		if d.Update != nil {
			s.sendDatagram(peer.ClientID, rt, d.Update)
		}
		if d.Destroy != nil {
			s.sendDatagram(peer.ClientID, rt, d.Destroy)
		}

		rt.lastAckedTick = tick
		rt.hasAcked = true
	}

	if len(allCreatedNetIDs) > 0 {
		s.world.MarkSynced(allCreatedNetIDs)
	}
}

func (s *Server) clientRuntime(clientID int) *clientRuntime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[clientID]
}

func (s *Server) sendDatagram(clientID int, rt *clientRuntime, msg wire.DatagramMessage) {
	rt.outDatagramSeq++
	packet := wire.EncodeDatagramFrame(msg, rt.outDatagramSeq)
	if err := s.udp.Send(clientID, packet); err != nil {
		s.log.Debug("udp send failed", zap.Int("client", clientID), zap.Error(err))
		return
	}
	ops.SnapshotBytesSent.Add(float64(len(packet)))
}

// udpDisconnectMultiple scales the input-silence grace window up to the
// threshold past which a silent in-game client is dropped entirely.
const udpDisconnectMultiple = 10

// checkTimeouts disconnects peers that have exceeded a state deadline or
// gone UDP-silent past the disconnect threshold.
func (s *Server) checkTimeouts(now time.Time) {
	timedOut := s.sessions.TimedOut(now,
		s.cfg.Network.ConnectTimeout(),
		s.cfg.Network.ReadyTimeout(),
		s.cfg.Network.InputSilenceGrace()*udpDisconnectMultiple,
	)
	for _, peer := range timedOut {
		s.sessions.SetState(peer.ClientID, session.StateDisconnected)
		peer.Sess.Close()
		s.disconnectClient(peer.ClientID, "timeout")
	}
}
