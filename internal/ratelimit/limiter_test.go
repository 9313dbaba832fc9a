package ratelimit

import (
	"testing"
	"time"
)

func TestPerClientLimiterBucketsAreIndependent(t *testing.T) {
	l := New(1, 1)
	if !l.Allow(1) {
		t.Fatal("expected first event for client 1 to be allowed")
	}
	if l.Allow(1) {
		t.Fatal("expected second immediate event for client 1 to be denied")
	}
	if !l.Allow(2) {
		t.Fatal("expected client 2's bucket to be independent of client 1's")
	}
}

func TestPerClientLimiterForgetResetsBucket(t *testing.T) {
	l := New(1, 1)
	l.Allow(1)
	if l.Allow(1) {
		t.Fatal("expected bucket to be exhausted")
	}
	l.Forget(1)
	if !l.Allow(1) {
		t.Fatal("expected a fresh bucket after Forget")
	}
}

func TestViolationTrackerTripsAtThreshold(t *testing.T) {
	tr := NewViolationTracker(3, time.Minute)
	now := time.Now()
	if tr.Record(1, now) {
		t.Fatal("should not trip on violation 1 of 3")
	}
	if tr.Record(1, now) {
		t.Fatal("should not trip on violation 2 of 3")
	}
	if !tr.Record(1, now) {
		t.Fatal("should trip on violation 3 of 3")
	}
}

func TestViolationTrackerWindowResets(t *testing.T) {
	tr := NewViolationTracker(2, time.Minute)
	now := time.Now()
	tr.Record(1, now)
	later := now.Add(2 * time.Minute)
	if tr.Record(1, later) {
		t.Fatal("a violation in a fresh window should not immediately trip")
	}
}

func TestViolationTrackerForgetClearsHistory(t *testing.T) {
	tr := NewViolationTracker(2, time.Minute)
	now := time.Now()
	tr.Record(1, now)
	tr.Forget(1)
	if tr.Record(1, now) {
		t.Fatal("expected a forgotten client's count to restart from zero")
	}
}
