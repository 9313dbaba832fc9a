package ecs

import "testing"

type health struct {
	hp int
}

type position struct {
	x, y float64
}

func TestSparseStoreSetGetRemove(t *testing.T) {
	s := NewSparseStore[health]()
	id := NewEntityID(3, 0)

	if _, ok := s.Get(id); ok {
		t.Fatal("Get on an empty store should report absent")
	}

	s.Set(id, health{hp: 100})
	h, ok := s.Get(id)
	if !ok || h.hp != 100 {
		t.Fatalf("Get = (%v, %v), want ({100}, true)", h, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	// Get hands back a mutable pointer into the store.
	h.hp = 50
	h2, _ := s.Get(id)
	if h2.hp != 50 {
		t.Fatalf("mutation through Get pointer lost: hp = %d", h2.hp)
	}

	s.Remove(id)
	if s.Has(id) || s.Len() != 0 {
		t.Fatal("Remove should clear the slot and the count")
	}
}

// Erasure clears the slot without shifting any other index.
func TestSparseStoreRemoveDoesNotShift(t *testing.T) {
	s := NewSparseStore[health]()
	a, b, c := NewEntityID(0, 0), NewEntityID(1, 0), NewEntityID(2, 0)
	s.Set(a, health{hp: 1})
	s.Set(b, health{hp: 2})
	s.Set(c, health{hp: 3})

	s.Remove(b)

	if h, ok := s.Get(c); !ok || h.hp != 3 {
		t.Fatalf("entity at index 2 disturbed by removing index 1: (%v, %v)", h, ok)
	}
	if s.Has(b) {
		t.Fatal("removed slot still present")
	}
}

func TestEntityPoolMonotonicAllocation(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	b := p.Create()
	if a.Index() != 0 || b.Index() != 1 {
		t.Fatalf("indices = %d, %d, want 0, 1", a.Index(), b.Index())
	}

	p.Destroy(a)
	if p.Alive(a) {
		t.Fatal("destroyed entity still alive")
	}

	// The index is never reissued within a session; a stale handle stays
	// invalid even as new entities are minted.
	c := p.Create()
	if c.Index() == a.Index() {
		t.Fatalf("index %d reused after destroy", a.Index())
	}
	if p.Alive(a) {
		t.Fatal("stale handle revived by later allocation")
	}
}

func TestRegistryRemoveAllClearsEveryStore(t *testing.T) {
	healths := NewSparseStore[health]()
	positions := NewSparseStore[position]()
	reg := NewRegistry()
	reg.Register(healths)
	reg.Register(positions)

	id := NewEntityID(0, 0)
	healths.Set(id, health{hp: 10})
	positions.Set(id, position{x: 1, y: 2})

	reg.RemoveAll(id)

	if healths.Has(id) || positions.Has(id) {
		t.Fatal("RemoveAll left a component behind")
	}
}

func TestEachVisitsPresentOnly(t *testing.T) {
	s := NewSparseStore[health]()
	s.Set(NewEntityID(0, 0), health{hp: 1})
	s.Set(NewEntityID(5, 0), health{hp: 2})
	s.Remove(NewEntityID(0, 0))

	visited := 0
	s.Each(func(id EntityID, h *health) {
		visited++
		if h.hp != 2 {
			t.Errorf("visited unexpected component %+v", h)
		}
	})
	if visited != 1 {
		t.Fatalf("visited %d entities, want 1", visited)
	}
}

func TestEach2IntersectsStores(t *testing.T) {
	healths := NewSparseStore[health]()
	positions := NewSparseStore[position]()

	both := NewEntityID(1, 0)
	healths.Set(NewEntityID(0, 0), health{hp: 1})
	healths.Set(both, health{hp: 2})
	positions.Set(both, position{x: 9})
	positions.Set(NewEntityID(2, 0), position{x: 7})

	visited := 0
	Each2(healths, positions, func(id EntityID, h *health, p *position) {
		visited++
		if id != both || h.hp != 2 || p.x != 9 {
			t.Errorf("unexpected visit: id=%v h=%+v p=%+v", id, h, p)
		}
	})
	if visited != 1 {
		t.Fatalf("visited %d entities, want 1", visited)
	}
}
