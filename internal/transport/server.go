// Package transport owns the two physical channels: one TCP stream per
// connected peer for the reliable control plane, and one UDP socket for
// the whole game's best-effort data plane.
package transport

import (
	"fmt"
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Server accepts TCP connections on the reliable channel and turns each
// one into a Session. New and dead sessions are communicated to the
// owning goroutine via channels, never by direct callback, so accept and
// game logic stay on separate goroutines with no shared lock.
type Server struct {
	listener net.Listener
	nextID   atomic.Uint64
	newConns chan *Session
	inSize   int
	outSize  int
	log      *zap.Logger
	closeCh  chan struct{}
}

func NewServer(bindAddr string, inSize, outSize int, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: ln,
		newConns: make(chan *Session, 64),
		inSize:   inSize,
		outSize:  outSize,
		log:      log,
		closeCh:  make(chan struct{}),
	}, nil
}

// AcceptLoop runs in its own goroutine: accept, wrap in a Session, start
// its read/write loops, and hand it off on NewSessions.
func (s *Server) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := s.nextID.Add(1)
		sess := NewSession(conn, id, s.inSize, s.outSize, s.log)
		sess.Start()

		s.log.Info("client connected", zap.Uint64("session", id), zap.String("addr", sess.Addr))

		select {
		case s.newConns <- sess:
		default:
			s.log.Warn("new-connection queue full, dropping", zap.Uint64("session", id))
			sess.Close()
		}
	}
}

func (s *Server) NewSessions() <-chan *Session { return s.newConns }

func (s *Server) Shutdown() {
	close(s.closeCh)
	s.listener.Close()
}

func (s *Server) Addr() net.Addr { return s.listener.Addr() }

func (s *Server) String() string {
	return fmt.Sprintf("transport.Server{addr=%s}", s.listener.Addr())
}
