// Package server wires the transport, session, lobby, simulation, and
// snapshot packages into one running game server. The connection
// lifecycle is substantial enough — five state-gated control messages, a
// UDP-binding handshake, two ticker-driven loops — to deserve its own
// package and its own tests rather than living in main.
package server

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rtype/server/internal/config"
	"github.com/rtype/server/internal/core/event"
	"github.com/rtype/server/internal/lobby"
	"github.com/rtype/server/internal/ops"
	"github.com/rtype/server/internal/ratelimit"
	"github.com/rtype/server/internal/session"
	"github.com/rtype/server/internal/sim"
	"github.com/rtype/server/internal/snapshot"
	"github.com/rtype/server/internal/transport"
	"github.com/rtype/server/internal/wire"
)

// clientRuntime is the per-connection bookkeeping that belongs to neither
// session.Peer (connection lifecycle) nor sim.World (simulation state): the
// outbound datagram sequence counter and the client's last-acknowledged
// snapshot tick.
type clientRuntime struct {
	sess *transport.Session

	// netIDSent is the fast-path filter read by the datagram goroutine;
	// the remaining fields belong to the simulation goroutine only.
	netIDSent atomic.Bool

	outDatagramSeq uint32
	lastAckedTick  uint32
	hasAcked       bool
}

// Server owns every long-lived component and is the single place that
// understands how they fit together.
type Server struct {
	cfg *config.Config
	log *zap.Logger

	sessions *session.Manager
	lobbies  *lobby.Manager

	world    *sim.World
	presets  *sim.Presets
	loop     *sim.Loop
	queue    *sim.InputQueue
	ring     *snapshot.Ring
	director *sim.Director

	tcp *transport.Server
	udp *transport.UDPServer
	ops *ops.Server

	violations      *ratelimit.ViolationTracker
	datagramLimiter *ratelimit.PerClientLimiter

	mu      sync.Mutex
	clients map[int]*clientRuntime

	// simCmds carries world mutations requested by network goroutines to
	// the simulation goroutine, which is the registry's only owner.
	simCmds chan func()
}

// New builds every component but starts nothing — construction has no
// side effects beyond opening the listen sockets, keeping "build the
// world" separate from "start the loop."
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	presets, err := sim.LoadPresets()
	if err != nil {
		return nil, fmt.Errorf("server: load presets: %w", err)
	}

	world := sim.NewWorld(1)
	ring := snapshot.NewRing(cfg.Sim.SnapshotHistory, cfg.Sim.PositionDeltaThreshold)
	queue := sim.NewInputQueue()
	loop := sim.NewLoop(world, queue, ring, cfg.World.Width, cfg.World.Height,
		cfg.Sim.MaxCatchupTicks, sim.StepForRate(cfg.Sim.TickRate))
	director := sim.NewDirector(world, presets, cfg.World.Width, cfg.World.Height, 1)
	loop.PostTick = func(tick uint32, dt time.Duration) { director.Update(dt) }

	event.Subscribe(loop.Bus, func(ev event.EnemyKilled) {
		log.Debug("event: EnemyKilled", zap.Int("killer_client", ev.KillerClientID), zap.Int("reward", ev.Reward))
	})
	event.Subscribe(loop.Bus, func(ev event.PlayerKilled) {
		log.Info("event: PlayerKilled")
	})
	event.Subscribe(loop.Bus, func(ev event.PlayerJoined) {
		log.Info("event: PlayerJoined", zap.Int("client", ev.ClientID))
	})
	event.Subscribe(loop.Bus, func(ev event.PlayerDisconnected) {
		log.Info("event: PlayerDisconnected", zap.Int("client", ev.ClientID))
	})

	tcpAddr := fmt.Sprintf(":%d", cfg.Network.ListenPort)
	tcp, err := transport.NewServer(tcpAddr, cfg.Network.InQueueSize, cfg.Network.OutQueueSize, log)
	if err != nil {
		return nil, fmt.Errorf("server: tcp listen: %w", err)
	}
	udpAddr := fmt.Sprintf(":%d", cfg.Network.UDPPort)
	udp, err := transport.NewUDPServer(udpAddr, log)
	if err != nil {
		return nil, fmt.Errorf("server: udp listen: %w", err)
	}

	opsAddr := fmt.Sprintf(":%d", cfg.Ops.MetricsPort)
	opsServer := ops.NewServer(opsAddr, 3*time.Second, log)

	return &Server{
		cfg:      cfg,
		log:      log,
		sessions: session.NewManager(int(cfg.Network.MaxClients)),
		lobbies:  lobby.NewManager(int(cfg.Network.MaxClients)),
		world:    world,
		presets:  presets,
		loop:     loop,
		queue:    queue,
		ring:     ring,
		director: director,
		tcp:      tcp,
		udp:      udp,
		ops:      opsServer,
		violations: ratelimit.NewViolationTracker(
			cfg.Limits.MalformedPacketsPerWindow, cfg.Limits.MalformedWindow()),
		datagramLimiter: ratelimit.New(float64(cfg.Limits.DatagramsPerSecond), cfg.Limits.DatagramsPerSecond),
		clients:         make(map[int]*clientRuntime, cfg.Network.MaxClients),
		simCmds:         make(chan func(), 256),
	}, nil
}

// enqueueSim hands fn to the simulation goroutine, which runs it before its
// next batch of ticks. This is the only way a network goroutine may reach
// the registry.
func (s *Server) enqueueSim(fn func()) {
	s.simCmds <- fn
}

// runSimCommands drains and executes every pending command. Called from the
// simulation goroutine only.
func (s *Server) runSimCommands() {
	for {
		select {
		case fn := <-s.simCmds:
			fn()
		default:
			return
		}
	}
}

// Run starts every subsystem and blocks until ctx is canceled or a fatal
// component error occurs, then shuts everything down in reverse order.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	s.ops.Start()
	go s.tcp.AcceptLoop()
	go s.udp.ReadLoop()

	g.Go(func() error { return s.acceptLoop(ctx) })
	g.Go(func() error { return s.datagramLoop(ctx) })
	g.Go(func() error { return s.simLoop(ctx) })

	s.log.Info("server ready",
		zap.String("tcp", s.tcp.Addr().String()),
		zap.String("udp", s.udp.Addr().String()))

	err := g.Wait()
	s.shutdown()
	return err
}

func (s *Server) shutdown() {
	s.log.Info("shutting down")

	// Tell every peer the session is over, give their writer goroutines a
	// moment to drain, then tear the sockets down.
	peers := s.sessions.Peers()
	for _, p := range peers {
		p.Sess.Send(wire.Error{Code: wire.ReasonServerError})
	}
	time.Sleep(250 * time.Millisecond)
	for _, p := range peers {
		p.Sess.Close()
	}

	s.tcp.Shutdown()
	s.udp.Close()
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.ops.Shutdown(shCtx)
}

// acceptLoop consumes newly established TCP sessions and spawns one reader
// goroutine per session.
func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sess, ok := <-s.tcp.NewSessions():
			if !ok {
				return nil
			}
			go s.serveSession(ctx, sess)
		}
	}
}

// serveSession drives one client's reliable-channel lifecycle from Connect
// through disconnect.
func (s *Server) serveSession(ctx context.Context, sess *transport.Session) {
	peer, err := s.sessions.Connect(sess)
	if err != nil {
		sess.Send(wire.ConnectNak{Reason: wire.ReasonGameFull})
		sess.Close()
		return
	}
	s.mu.Lock()
	s.clients[peer.ClientID] = &clientRuntime{sess: sess}
	s.mu.Unlock()

	defer s.disconnectClient(peer.ClientID, "closed")

	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Done():
			return
		case msg := <-sess.InQueue:
			s.handleReliable(peer, msg)
		}
	}
}

func (s *Server) disconnectClient(clientID int, reason string) {
	s.mu.Lock()
	delete(s.clients, clientID)
	s.mu.Unlock()
	if lobbyID, ok := s.lobbies.LobbyOf(clientID); ok {
		s.lobbyBroadcastLeave(lobbyID, clientID)
	}
	s.lobbies.Leave(clientID)
	s.sessions.Remove(clientID)
	s.violations.Forget(clientID)
	s.datagramLimiter.Forget(clientID)

	// The avatar is destroyed on disconnect, on the simulation goroutine;
	// every other peer learns of it via the next delta's EntityDestroy.
	s.enqueueSim(func() {
		if entID, ok := s.world.PlayerEntity(clientID); ok {
			s.world.Destroy(entID)
		}
		event.Emit(s.loop.Bus, event.PlayerDisconnected{ClientID: clientID})
	})

	ops.RecordDisconnect(reason)
	ops.ConnectedClients.Set(float64(len(s.sessions.Peers())))
	ops.ActiveLobbies.Set(float64(s.lobbies.Count()))
}

func (s *Server) clientIP(clientID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return ""
	}
	host, _, err := net.SplitHostPort(c.sess.Addr)
	if err != nil {
		return strings.TrimSpace(c.sess.Addr)
	}
	return host
}
