package ecs

// Each2 iterates over entities that have both component A and B, scanning
// whichever store is smaller and probing the other by index.
func Each2[A, B any](sa *SparseStore[A], sb *SparseStore[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for idx, present := range sa.present {
			if !present {
				continue
			}
			if sb.Has(sa.ids[idx]) {
				b, _ := sb.Get(sa.ids[idx])
				fn(sa.ids[idx], &sa.data[idx], b)
			}
		}
	} else {
		for idx, present := range sb.present {
			if !present {
				continue
			}
			if sa.Has(sb.ids[idx]) {
				a, _ := sa.Get(sb.ids[idx])
				fn(sb.ids[idx], a, &sb.data[idx])
			}
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](sa *SparseStore[A], sb *SparseStore[B], sc *SparseStore[C], fn func(EntityID, *A, *B, *C)) {
	smallest := sa.Len()
	which := 0
	if sb.Len() < smallest {
		smallest = sb.Len()
		which = 1
	}
	if sc.Len() < smallest {
		which = 2
	}

	switch which {
	case 0:
		for idx, present := range sa.present {
			if !present {
				continue
			}
			id := sa.ids[idx]
			if b, ok := sb.Get(id); ok {
				if c, ok := sc.Get(id); ok {
					fn(id, &sa.data[idx], b, c)
				}
			}
		}
	case 1:
		for idx, present := range sb.present {
			if !present {
				continue
			}
			id := sb.ids[idx]
			if a, ok := sa.Get(id); ok {
				if c, ok := sc.Get(id); ok {
					fn(id, a, &sb.data[idx], c)
				}
			}
		}
	case 2:
		for idx, present := range sc.present {
			if !present {
				continue
			}
			id := sc.ids[idx]
			if a, ok := sa.Get(id); ok {
				if b, ok := sb.Get(id); ok {
					fn(id, a, b, &sc.data[idx])
				}
			}
		}
	}
}
