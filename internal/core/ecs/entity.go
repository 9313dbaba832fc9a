package ecs

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale
// handles held by code that raced the teardown. The index half is what
// addresses dense component storage.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// EntityPool allocates entity indices from a monotonic counter. Indices are
// not reused while the pool is live — a destroyed index is only handed out
// again if the pool is reset, which happens at session teardown, not during
// normal play. The generation counter exists purely to catch stale handles;
// it does not by itself recycle anything.
type EntityPool struct {
	generations []uint32
	nextIndex   uint32
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 1024),
	}
}

// Create mints the next entity index. Indices are never reused within a
// session; a free list for churn-heavy entities is omitted — a match's
// entity count never approaches a scale where monotonic growth matters
// for its lifetime.
func (p *EntityPool) Create() EntityID {
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Destroy bumps the slot's generation so any EntityID still referencing it
// is recognized as stale. The index itself is never reissued.
func (p *EntityPool) Destroy(id EntityID) {
	idx := id.Index()
	if idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // already destroyed
	}
	p.generations[idx]++
}

// Count returns the number of indices ever allocated, including destroyed
// ones — the high-water mark of dense component storage.
func (p *EntityPool) Count() int {
	return int(p.nextIndex)
}
