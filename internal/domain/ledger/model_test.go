package ledger

import (
	"errors"
	"testing"
	"time"
)

func TestNewEntry_Retention(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)
	key := Key{EventID: "e1", MatchID: "m1", PlayerID: "p1"}

	entry := NewEntry(key, now, 0)
	if !entry.RetainedUntil.Equal(now.Add(DefaultRetention)) {
		t.Fatalf("expected default retention, got %s", entry.RetainedUntil)
	}
	if entry.Expired(now.Add(DefaultRetention - time.Second)) {
		t.Fatalf("entry must not expire before retention ends")
	}
	if !entry.Expired(now.Add(DefaultRetention)) {
		t.Fatalf("entry must expire when retention ends")
	}

	short := NewEntry(key, now, time.Hour)
	if !short.RetainedUntil.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected custom retention, got %s", short.RetainedUntil)
	}
}

func TestKey_Validate(t *testing.T) {
	if err := (Key{EventID: "e1", MatchID: "m1"}).Validate(); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if err := (Key{EventID: "e1", MatchID: "m1", PlayerID: "p1"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
