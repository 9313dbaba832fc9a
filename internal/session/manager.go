package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/rtype/server/internal/transport"
)

// Peer is one client's connection-lifecycle record.
type Peer struct {
	ClientID int
	Sess     *transport.Session
	Username string

	State State

	connectedAt time.Time
	readyAt     time.Time
	lastUDP     time.Time
	sawFirstUDP bool
}

// Manager allocates ClientIds and tracks every peer's state-machine
// position. It does not itself decode or send wire messages — callers
// drive transitions by calling the Set* methods as the corresponding
// message arrives, keeping this package free of wire-format knowledge.
type Manager struct {
	mu         sync.Mutex
	maxClients int
	peers      map[int]*Peer
	used       map[int]bool
}

func NewManager(maxClients int) *Manager {
	return &Manager{
		maxClients: maxClients,
		peers:      make(map[int]*Peer, maxClients),
		used:       make(map[int]bool, maxClients),
	}
}

// Connect allocates the next free ClientId for sess and moves it to
// Connecting. Returns an error if the server is full.
func (m *Manager) Connect(sess *transport.Session) (*Peer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := 1; id <= m.maxClients; id++ {
		if !m.used[id] {
			m.used[id] = true
			p := &Peer{ClientID: id, Sess: sess, State: StateConnecting, connectedAt: time.Now()}
			m.peers[id] = p
			return p, nil
		}
	}
	return nil, fmt.Errorf("session: server full (%d/%d clients)", m.maxClients, m.maxClients)
}

func (m *Manager) Peer(clientID int) (*Peer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.peers[clientID]
	return p, ok
}

func (m *Manager) SetState(clientID int, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.peers[clientID]
	if !ok {
		return
	}
	p.State = s
	switch s {
	case StateConnected:
		p.connectedAt = time.Now()
	case StateReady:
		p.readyAt = time.Now()
	}
}

// NoteUDP records that clientID's datagram channel is alive this instant.
func (m *Manager) NoteUDP(clientID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.peers[clientID]; ok {
		p.lastUDP = time.Now()
		p.sawFirstUDP = true
	}
}

// Remove frees clientID's slot entirely.
func (m *Manager) Remove(clientID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.peers, clientID)
	delete(m.used, clientID)
}

func (m *Manager) Peers() []*Peer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Peer, 0, len(m.peers))
	for _, p := range m.peers {
		out = append(out, p)
	}
	return out
}

// TimedOut returns peers whose current state has exceeded its deadline:
// the Connecting/Ready timeouts and the InGame UDP-silence disconnect
// threshold.
func (m *Manager) TimedOut(now time.Time, connectTimeout, readyTimeout, udpDisconnectThreshold time.Duration) []*Peer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Peer
	for _, p := range m.peers {
		switch p.State {
		case StateConnecting:
			if now.Sub(p.connectedAt) > connectTimeout {
				out = append(out, p)
			}
		case StateReady:
			if now.Sub(p.readyAt) > readyTimeout {
				out = append(out, p)
			}
		case StateInGame:
			if p.sawFirstUDP && now.Sub(p.lastUDP) > udpDisconnectThreshold {
				out = append(out, p)
			}
		}
	}
	return out
}

// UDPSilent reports whether the peer's datagram channel has been silent
// longer than grace — the case where its input is treated as all-false
// without crossing the disconnect threshold.
func (p *Peer) UDPSilent(now time.Time, grace time.Duration) bool {
	return p.sawFirstUDP && now.Sub(p.lastUDP) > grace
}
