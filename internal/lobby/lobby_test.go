package lobby

import "testing"

func TestCreateRejectsSizeOutOfRange(t *testing.T) {
	m := NewManager(4)
	if _, err := m.Create(1, "alice", 1, "room"); err == nil {
		t.Fatal("expected error for size below 2")
	}
	if _, err := m.Create(1, "alice", 5, "room"); err == nil {
		t.Fatal("expected error for size above maxSize")
	}
}

func TestOneLobbyPerClient(t *testing.T) {
	m := NewManager(4)
	l, err := m.Create(1, "alice", 2, "room")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.Create(1, "alice", 2, "room2"); err == nil {
		t.Fatal("expected second Create by same client to fail")
	}
	if _, err := m.Join(1, "alice", l.ID); err == nil {
		t.Fatal("expected Join by already-in-lobby client to fail")
	}
}

func TestJoinFullLobbyFails(t *testing.T) {
	m := NewManager(4)
	l, _ := m.Create(1, "alice", 2, "room")
	if _, err := m.Join(2, "bob", l.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Join(3, "carol", l.ID); err == nil {
		t.Fatal("expected join to a full lobby to fail")
	}
}

func TestSetReadyRequiresAllOccupants(t *testing.T) {
	m := NewManager(4)
	l, _ := m.Create(1, "alice", 2, "room")
	m.Join(2, "bob", l.ID)

	if _, allReady := m.SetReady(1, true); allReady {
		t.Fatal("expected allReady false with one occupant still not ready")
	}
	l2, allReady := m.SetReady(2, true)
	if !allReady {
		t.Fatal("expected allReady true once every occupant is ready")
	}
	if l2.Status != StatusReady {
		t.Fatalf("status = %v, want Ready", l2.Status)
	}
}

func TestSetReadySingleOccupantNeverReady(t *testing.T) {
	m := NewManager(4)
	m.Create(1, "alice", 2, "room")
	if _, allReady := m.SetReady(1, true); allReady {
		t.Fatal("a lobby of one should never report allReady")
	}
}

func TestLeaveEmptyLobbyIsDestroyed(t *testing.T) {
	m := NewManager(4)
	l, _ := m.Create(1, "alice", 2, "room")
	m.Leave(1)
	if _, ok := m.Get(l.ID); ok {
		t.Fatal("expected lobby to be destroyed once its last occupant leaves")
	}
}

func TestLeaveDropsLobbyBackToWaiting(t *testing.T) {
	m := NewManager(4)
	l, _ := m.Create(1, "alice", 3, "room")
	m.Join(2, "bob", l.ID)
	m.Join(3, "carol", l.ID)
	m.SetReady(1, true)
	m.SetReady(2, true)
	m.SetReady(3, true)

	l2, _ := m.Leave(3)
	if l2.Status != StatusWaiting {
		t.Fatalf("status = %v, want Waiting after an occupant leaves a ready lobby", l2.Status)
	}
}

func TestStartGameRequiresReadyStatus(t *testing.T) {
	m := NewManager(4)
	l, _ := m.Create(1, "alice", 2, "room")
	if err := m.StartGame(l.ID); err == nil {
		t.Fatal("expected StartGame on a non-Ready lobby to fail")
	}
	m.Join(2, "bob", l.ID)
	m.SetReady(1, true)
	m.SetReady(2, true)
	if err := m.StartGame(l.ID); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if _, ok := m.Get(l.ID); !ok {
		t.Fatal("lobby should still exist once InGame")
	}
}
