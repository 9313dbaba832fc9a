package snapshot

import (
	"testing"
	"time"

	"github.com/rtype/server/internal/sim"
)

func snap(netID uint32, hp int, x, y float64, synced bool) sim.EntitySnapshot {
	return sim.EntitySnapshot{NetID: netID, HP: hp, X: x, Y: y, Synced: synced}
}

// The ring never retains more than maxHistory snapshots.
func TestRingBoundedHistory(t *testing.T) {
	r := NewRing(3, DefaultPosThreshold)
	for tick := uint32(1); tick <= 10; tick++ {
		r.Append(tick, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, true)})
	}
	if got := r.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
}

// A client with no acknowledged baseline gets a full resend.
func TestDeltaSinceUnackedClientGetsFull(t *testing.T) {
	r := NewRing(128, DefaultPosThreshold)
	r.Append(1, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, true)})

	d := r.DeltaSince(0, false)
	if d.Full == nil {
		t.Fatal("expected a full GameState for a never-acknowledged client")
	}
	if len(d.Full.Records) != 1 {
		t.Fatalf("expected 1 record in full state, got %d", len(d.Full.Records))
	}
}

// A baseline tick that has already aged out of the ring also forces a
// full resend rather than a (now meaningless) delta.
func TestDeltaSinceEvictedBaselineGetsFull(t *testing.T) {
	r := NewRing(2, DefaultPosThreshold)
	r.Append(1, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, true)})
	r.Append(2, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, true)})
	r.Append(3, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, true)})

	d := r.DeltaSince(1, true)
	if d.Full == nil {
		t.Fatal("expected full resend once the acknowledged baseline tick has been evicted")
	}
}

// An entity present only in the new snapshot is a Create; one that
// disappears is a Destroy; one whose position moved past the threshold is
// an Update.
func TestDeltaSinceCreateUpdateDestroy(t *testing.T) {
	r := NewRing(128, 5.0)
	r.Append(1, time.Now(), []sim.EntitySnapshot{
		snap(1, 100, 0, 0, true),
		snap(2, 50, 10, 10, true),
	})
	r.Append(2, time.Now(), []sim.EntitySnapshot{
		snap(1, 100, 0, 100, true), // moved past threshold -> update
		snap(3, 80, 5, 5, true),    // new -> create
		// netID 2 is gone -> destroy
	})

	d := r.DeltaSince(1, true)
	if len(d.Creates) != 1 || d.Creates[0].Record.NetID != 3 {
		t.Fatalf("expected one create for netID 3, got %+v", d.Creates)
	}
	if d.Update == nil || len(d.Update.Records) != 1 || d.Update.Records[0].NetID != 1 {
		t.Fatalf("expected one update for netID 1, got %+v", d.Update)
	}
	if d.Destroy == nil || len(d.Destroy.NetIDs) != 1 || d.Destroy.NetIDs[0] != 2 {
		t.Fatalf("expected one destroy for netID 2, got %+v", d.Destroy)
	}
}

// An unsynced entity (one whose prior Create datagram was never
// acknowledged) is re-sent as a Create even if it already existed in the
// baseline snapshot.
func TestDeltaSinceUnsyncedEntityResendsAsCreate(t *testing.T) {
	r := NewRing(128, DefaultPosThreshold)
	r.Append(1, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, false)})
	r.Append(2, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, false)})

	d := r.DeltaSince(1, true)
	if len(d.Creates) != 1 || d.Creates[0].Record.NetID != 1 {
		t.Fatalf("expected unsynced entity to resend as a create, got %+v", d.Creates)
	}
}

// An entity that drifted 2 world units (below the 5.0 threshold) is
// suppressed; the new entity still goes out as a Create.
func TestDeltaSinceSubThresholdDriftSuppressed(t *testing.T) {
	r := NewRing(128, 5.0)
	r.Append(1, time.Now(), []sim.EntitySnapshot{snap(100, 50, 10, 10, true)})
	r.Append(2, time.Now(), []sim.EntitySnapshot{
		snap(100, 50, 12, 10, true),
		snap(200, 30, 0, 0, true),
	})

	d := r.DeltaSince(1, true)
	if len(d.Creates) != 1 || d.Creates[0].Record.NetID != 200 {
		t.Fatalf("expected one create for netID 200, got %+v", d.Creates)
	}
	if d.Update != nil {
		t.Fatalf("expected no update for a 2-unit drift, got %+v", d.Update)
	}
}

// Boundary: a position delta of exactly POS_THRESHOLD must not be emitted
// (the comparison is strict >).
func TestDeltaSinceExactThresholdNotEmitted(t *testing.T) {
	r := NewRing(128, 5.0)
	r.Append(1, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, true)})
	r.Append(2, time.Now(), []sim.EntitySnapshot{snap(1, 100, 5, 0, true)})

	d := r.DeltaSince(1, true)
	if d.Update != nil {
		t.Fatalf("a drift of exactly the threshold must be suppressed, got %+v", d.Update)
	}
}

func TestDeltaSinceNoChangesIsEmpty(t *testing.T) {
	r := NewRing(128, DefaultPosThreshold)
	r.Append(1, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, true)})
	r.Append(2, time.Now(), []sim.EntitySnapshot{snap(1, 100, 0, 0, true)})

	d := r.DeltaSince(1, true)
	if len(d.Creates) != 0 || d.Update != nil || d.Destroy != nil {
		t.Fatalf("expected no deltas for an unchanged world, got %+v", d)
	}
}
