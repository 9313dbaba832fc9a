package transport

import (
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
)

// IncomingDatagram is one raw UDP packet, still un-decoded, tagged with
// the ClientId the server has bound to its source address (0 if
// unrecognized — the caller decides whether to drop it).
type IncomingDatagram struct {
	ClientID int
	Data     []byte
}

// UDPServer is the single datagram-channel socket shared by the whole
// game. Clients are not self-identifying on this channel, so the server
// binds a ClientId to a UDP source address the first time a packet
// arrives from an IP that was told to expect one via GameStart.
type UDPServer struct {
	conn *net.UDPConn
	log  *zap.Logger

	mu           sync.Mutex
	expectedIP   map[string]int       // ip -> ClientId, set at GameStart
	addrToClient map[string]int       // bound udp addr -> ClientId
	clientAddr   map[int]*net.UDPAddr // ClientId -> bound udp addr

	incoming chan IncomingDatagram
	closeCh  chan struct{}
}

func NewUDPServer(bindAddr string, log *zap.Logger) (*UDPServer, error) {
	addr, err := net.ResolveUDPAddr("udp", bindAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve udp addr: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen udp: %w", err)
	}
	return &UDPServer{
		conn:         conn,
		log:          log,
		expectedIP:   make(map[string]int, 8),
		addrToClient: make(map[string]int, 8),
		clientAddr:   make(map[int]*net.UDPAddr, 8),
		incoming:     make(chan IncomingDatagram, 256),
		closeCh:      make(chan struct{}),
	}, nil
}

// ExpectClient records that the next unrecognized datagram from ip should
// be bound to clientID. Called when GameStart is sent to that client.
func (u *UDPServer) ExpectClient(ip string, clientID int) {
	u.mu.Lock()
	u.expectedIP[ip] = clientID
	u.mu.Unlock()
}

// clientIDFor resolves a bound source address to a ClientId, if any,
// binding the address on the first packet from an expected IP.
func (u *UDPServer) clientIDFor(addr *net.UDPAddr) (int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	key := addr.String()
	if id, ok := u.addrToClient[key]; ok {
		return id, true
	}
	id, ok := u.expectedIP[addr.IP.String()]
	if !ok {
		return 0, false
	}
	u.addrToClient[key] = id
	u.clientAddr[id] = addr
	delete(u.expectedIP, addr.IP.String())
	return id, true
}

// ReadLoop runs in its own goroutine, demuxing incoming datagrams by
// source address and pushing them onto Incoming.
func (u *UDPServer) ReadLoop() {
	buf := make([]byte, 2048)
	for {
		n, addr, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-u.closeCh:
				return
			default:
			}
			u.log.Debug("udp read error", zap.Error(err))
			continue
		}
		clientID, ok := u.clientIDFor(addr)
		if !ok {
			u.log.Debug("dropping datagram from unrecognized address", zap.String("addr", addr.String()))
			continue
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		select {
		case u.incoming <- IncomingDatagram{ClientID: clientID, Data: data}:
		default:
			u.log.Warn("udp incoming queue full, dropping datagram")
		}
	}
}

func (u *UDPServer) Incoming() <-chan IncomingDatagram { return u.incoming }

// Send writes packet to clientID's bound address. A no-op if the client
// has not yet sent a datagram the server could bind a ClientId to.
func (u *UDPServer) Send(clientID int, packet []byte) error {
	u.mu.Lock()
	addr, ok := u.clientAddr[clientID]
	u.mu.Unlock()
	if !ok {
		return nil
	}
	_, err := u.conn.WriteToUDP(packet, addr)
	return err
}

func (u *UDPServer) Close() {
	close(u.closeCh)
	u.conn.Close()
}

func (u *UDPServer) Addr() net.Addr { return u.conn.LocalAddr() }
