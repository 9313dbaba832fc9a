package transport

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rtype/server/internal/wire"
)

// IncomingMessage is one decoded frame off a Session's reliable stream,
// handed to the connection state machine for validation and dispatch.
type IncomingMessage struct {
	Type    byte
	Payload []byte
}

// Session is one client's reliable-channel TCP connection. Network I/O
// runs in dedicated goroutines; InQueue/OutQueue are the only points where
// the simulation/session-management side touches it, so no lock is needed
// beyond what Close already takes.
type Session struct {
	ID   uint64
	conn net.Conn

	InQueue  chan IncomingMessage      // the owner reads decoded frames here
	OutQueue chan wire.ReliableMessage // the writer goroutine encodes and sends these

	Addr string

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, inSize, outSize int, log *zap.Logger) *Session {
	return &Session{
		ID:       id,
		conn:     conn,
		InQueue:  make(chan IncomingMessage, inSize),
		OutQueue: make(chan wire.ReliableMessage, outSize),
		Addr:     conn.RemoteAddr().String(),
		closeCh:  make(chan struct{}),
		log:      log.With(zap.Uint64("session", id)),
	}
}

// Start launches the reader and writer goroutines. There is no handshake
// banner on this protocol — the first thing either side sends is a
// Connect.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// Send queues a message for the writer goroutine. Non-blocking: a full
// OutQueue means a stalled or malicious peer, so the session is dropped
// rather than applying backpressure to the whole server loop.
func (s *Session) Send(msg wire.ReliableMessage) {
	if s.closed.Load() {
		return
	}
	select {
	case s.OutQueue <- msg:
	default:
		s.log.Warn("out queue full, disconnecting slow client")
		s.Close()
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool { return s.closed.Load() }

// Done reports when the session has closed, so a consumer of InQueue knows
// to stop waiting rather than blocking forever on a channel nothing will
// ever send on again.
func (s *Session) Done() <-chan struct{} { return s.closeCh }

func (s *Session) readLoop() {
	defer s.Close()
	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		h, payload, err := wire.ReadReliableFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		select {
		case s.InQueue <- IncomingMessage{Type: h.Type, Payload: payload}:
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeLoop() {
	defer s.Close()
	for {
		select {
		case msg := <-s.OutQueue:
			s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := wire.WriteReliableFrame(s.conn, msg); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
