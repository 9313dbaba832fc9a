package transport

import (
	"net"
	"testing"

	"go.uber.org/zap"
)

func newTestUDPServer(t *testing.T) *UDPServer {
	t.Helper()
	u, err := NewUDPServer("127.0.0.1:0", zap.NewNop())
	if err != nil {
		t.Fatalf("new udp server: %v", err)
	}
	t.Cleanup(u.Close)
	return u
}

func TestClientIDForBindsOnFirstExpectedPacket(t *testing.T) {
	u := newTestUDPServer(t)
	u.ExpectClient("127.0.0.1", 42)

	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 5000}
	id, ok := u.clientIDFor(addr)
	if !ok || id != 42 {
		t.Fatalf("clientIDFor = (%d, %v), want (42, true)", id, ok)
	}
}

func TestClientIDForUnexpectedAddressIsDropped(t *testing.T) {
	u := newTestUDPServer(t)
	addr := &net.UDPAddr{IP: net.ParseIP("10.0.0.5"), Port: 5000}
	if _, ok := u.clientIDFor(addr); ok {
		t.Fatal("expected an address nobody is expecting to be rejected")
	}
}

func TestClientIDForStaysBoundAfterExpectationConsumed(t *testing.T) {
	u := newTestUDPServer(t)
	u.ExpectClient("127.0.0.1", 7)
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 5001}

	u.clientIDFor(addr)
	// A second datagram from the exact same address still resolves, even
	// though the one-shot IP expectation was consumed by the first call.
	id, ok := u.clientIDFor(addr)
	if !ok || id != 7 {
		t.Fatalf("clientIDFor (second call) = (%d, %v), want (7, true)", id, ok)
	}
}

func TestClientIDForSameIPDifferentPortNotAutoBound(t *testing.T) {
	u := newTestUDPServer(t)
	u.ExpectClient("127.0.0.1", 7)
	first := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 5001}
	u.clientIDFor(first)

	second := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 5002}
	if _, ok := u.clientIDFor(second); ok {
		t.Fatal("expected the one-shot IP expectation to be consumed by the first bind")
	}
}

func TestSendWithoutBoundAddressIsNoop(t *testing.T) {
	u := newTestUDPServer(t)
	if err := u.Send(99, []byte("hi")); err != nil {
		t.Fatalf("Send to an unbound client should be a silent no-op, got %v", err)
	}
}
