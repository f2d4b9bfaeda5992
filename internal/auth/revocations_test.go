package auth

import (
	"testing"
	"time"
)

func TestRevocationsCleanExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newRevocations(func() time.Time { return now })

	r.Add("old", now.Add(-time.Minute))
	r.Add("edge", now)
	r.Add("live", now.Add(time.Hour))

	if got := r.CleanExpired(); got != 2 {
		t.Fatalf("CleanExpired() = %d, want 2", got)
	}
	if got := r.Size(); got != 1 {
		t.Fatalf("Size() = %d, want 1", got)
	}
	if !r.Revoked("live") {
		t.Fatalf("live token should stay revoked")
	}
	if r.Revoked("old") {
		t.Fatalf("old token should be pruned")
	}
}
