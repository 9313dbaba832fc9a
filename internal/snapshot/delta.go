package snapshot

import (
	"sort"

	"github.com/rtype/server/internal/sim"
	"github.com/rtype/server/internal/wire"
)

// Delta is the set of datagram-channel messages a client needs to catch up
// from its last acknowledged tick to the current one. Full is set instead
// of the rest when no matching baseline is retained.
type Delta struct {
	Full    *wire.GameState
	Creates []wire.EntityCreate
	Update  *wire.EntityUpdate
	Destroy *wire.EntityDestroy
}

func toEntityRecord(r sim.EntitySnapshot) wire.EntityRecord {
	return wire.EntityRecord{
		NetID: r.NetID,
		Kind:  byte(r.EntityType),
		HP:    int32(r.HP),
		X:     float32(r.X),
		Y:     float32(r.Y),
	}
}

func toUpdateRecord(r sim.EntitySnapshot) wire.EntityUpdateRecord {
	return wire.EntityUpdateRecord{
		NetID: r.NetID,
		HP:    int32(r.HP),
		X:     float32(r.X),
		Y:     float32(r.Y),
	}
}

func fullGameState(s worldSnapshot) *wire.GameState {
	records := make([]wire.EntityRecord, len(s.records))
	for i, r := range s.records {
		records[i] = toEntityRecord(r)
	}
	return &wire.GameState{Records: records}
}

// DeltaSince computes what to send a client whose last acknowledged tick
// is lastAckedTick. hasAcked distinguishes "never acknowledged anything"
// from "acknowledged tick 0", since tick 0 is never produced (ticks start
// at 1).
func (r *Ring) DeltaSince(lastAckedTick uint32, hasAcked bool) Delta {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.latest()
	if !ok {
		return Delta{}
	}
	if !hasAcked {
		return Delta{Full: fullGameState(cur)}
	}
	old, ok := r.find(lastAckedTick)
	if !ok {
		return Delta{Full: fullGameState(cur)}
	}

	var creates []wire.EntityCreate
	var updates []wire.EntityUpdateRecord
	for _, rec := range cur.records {
		oldRec, existed := old.byNetID[rec.NetID]
		if !existed || !rec.Synced {
			creates = append(creates, wire.EntityCreate{Record: toEntityRecord(rec)})
			continue
		}
		if changed(oldRec, rec, r.posThreshold) {
			updates = append(updates, toUpdateRecord(rec))
		}
	}

	var destroyed []uint32
	for netID := range old.byNetID {
		if _, stillPresent := cur.byNetID[netID]; !stillPresent {
			destroyed = append(destroyed, netID)
		}
	}
	sort.Slice(destroyed, func(i, j int) bool { return destroyed[i] < destroyed[j] })

	d := Delta{Creates: creates}
	if len(updates) > 0 {
		d.Update = &wire.EntityUpdate{Records: updates}
	}
	if len(destroyed) > 0 {
		d.Destroy = &wire.EntityDestroy{NetIDs: destroyed}
	}
	return d
}
