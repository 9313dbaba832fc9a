package transport

import (
	"net"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rtype/server/internal/wire"
)

func TestSessionCloseIsIdempotentAndSignalsDone(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()
	s := NewSession(srv, 1, 4, 4, zap.NewNop())

	s.Close()
	s.Close() // must not panic or double-close

	select {
	case <-s.Done():
	default:
		t.Fatal("expected Done() to be closed after Close()")
	}
	if !s.IsClosed() {
		t.Fatal("expected IsClosed() to be true after Close()")
	}
}

func TestSendOnClosedSessionIsNoop(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()
	s := NewSession(srv, 1, 4, 4, zap.NewNop())
	s.Close()

	s.Send(wire.ConnectAck{ClientID: 1})
	select {
	case <-s.OutQueue:
		t.Fatal("expected Send on a closed session not to enqueue anything")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestSendFullQueueDisconnectsSlowClient(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()
	s := NewSession(srv, 1, 4, 1, zap.NewNop()) // out queue size 1

	s.OutQueue <- wire.ConnectAck{ClientID: 1} // fill the queue without a writer draining it
	s.Send(wire.ConnectAck{ClientID: 2})        // must not block; drops the session instead

	select {
	case <-s.Done():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("expected Send on a full OutQueue to close the session")
	}
}
