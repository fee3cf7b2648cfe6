package match

import (
	"errors"
	"testing"
	"time"
)

func valuePtr(v ConfirmationValue) *ConfirmationValue { return &v }
func intPtr(v int) *int                               { return &v }

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{from: StatusScheduled, to: StatusCompleted, want: true},
		{from: StatusScheduled, to: StatusCancelled, want: true},
		{from: StatusScheduled, to: StatusScheduled, want: false},
		{from: StatusCompleted, to: StatusScheduled, want: false},
		{from: StatusCompleted, to: StatusCancelled, want: false},
		{from: StatusCancelled, to: StatusScheduled, want: false},
		{from: StatusCancelled, to: StatusCompleted, want: false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Fatalf("%s -> %s: got=%v want=%v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestMatch_IsPending(t *testing.T) {
	at := time.Date(2026, 2, 5, 5, 0, 0, 0, time.UTC)
	m := NewScheduled("m1", "team-1", at, at.Add(-48*time.Hour))

	if !m.IsPending(at.Add(-time.Minute)) {
		t.Fatalf("expected pending before scheduled time")
	}
	if !m.IsPending(at) {
		t.Fatalf("expected pending at scheduled time")
	}
	if m.IsPending(at.Add(time.Second)) {
		t.Fatalf("expected not pending after scheduled time")
	}
	if !m.IsOverdue(at.Add(time.Second)) {
		t.Fatalf("expected overdue after scheduled time")
	}

	m.Status = StatusCancelled
	if m.IsPending(at.Add(-time.Minute)) {
		t.Fatalf("cancelled match must not be pending")
	}
}

func TestConfirmationEvent_Validate(t *testing.T) {
	base := ConfirmationEvent{MatchID: "m1", EventID: "e1", PlayerID: "p1", PlayerName: "Budi"}

	tests := []struct {
		name    string
		mutate  func(*ConfirmationEvent)
		wantErr bool
	}{
		{name: "value only", mutate: func(e *ConfirmationEvent) { e.Value = valuePtr(ConfirmationAttending) }},
		{name: "guest only", mutate: func(e *ConfirmationEvent) { e.GuestDelta = intPtr(1) }},
		{name: "value and guests", mutate: func(e *ConfirmationEvent) {
			e.Value = valuePtr(ConfirmationAttending)
			e.GuestDelta = intPtr(-1)
		}},
		{name: "nothing to apply", mutate: func(_ *ConfirmationEvent) {}, wantErr: true},
		{name: "unknown value", mutate: func(e *ConfirmationEvent) { e.Value = valuePtr("maybe-later") }, wantErr: true},
		{name: "zero guest delta", mutate: func(e *ConfirmationEvent) { e.GuestDelta = intPtr(0) }, wantErr: true},
		{name: "missing event id", mutate: func(e *ConfirmationEvent) {
			e.EventID = " "
			e.Value = valuePtr(ConfirmationAbsent)
		}, wantErr: true},
		{name: "missing player id", mutate: func(e *ConfirmationEvent) {
			e.PlayerID = ""
			e.Value = valuePtr(ConfirmationAbsent)
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := base
			tt.mutate(&event)
			err := event.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidEvent) {
				t.Fatalf("expected ErrInvalidEvent, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMatch_ApplyClampsGuestsAndKeepsOriginal(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)
	original := NewScheduled("m1", "team-1", now.Add(24*time.Hour), now)

	added := original.Apply(NewConfirmationUpdate(ConfirmationEvent{
		MatchID: "m1", EventID: "e1", PlayerID: "p1", PlayerName: "Budi", GuestDelta: intPtr(1),
	}, now))
	removed := added.Apply(NewConfirmationUpdate(ConfirmationEvent{
		MatchID: "m1", EventID: "e2", PlayerID: "p1", PlayerName: "Budi", GuestDelta: intPtr(-3),
	}, now))

	if got := added.ExtraGuests["p1"]; got != 1 {
		t.Fatalf("expected 1 guest, got %d", got)
	}
	if got := removed.ExtraGuests["p1"]; got != 0 {
		t.Fatalf("expected guests clamped to 0, got %d", got)
	}
	if len(original.ExtraGuests) != 0 || len(original.DisplayNames) != 0 {
		t.Fatalf("apply must not mutate the receiver")
	}
	if removed.DisplayNames["p1"] != "Budi" {
		t.Fatalf("expected display name recorded, got %q", removed.DisplayNames["p1"])
	}
}

func TestNewConfirmationUpdate_FallsBackToPlayerID(t *testing.T) {
	update := NewConfirmationUpdate(ConfirmationEvent{
		MatchID: " m1 ", EventID: "e1", PlayerID: " p1 ", Value: valuePtr(ConfirmationUndecided),
	}, time.Now())

	if update.MatchID != "m1" || update.PlayerID != "p1" {
		t.Fatalf("expected trimmed ids, got match=%q player=%q", update.MatchID, update.PlayerID)
	}
	if update.PlayerName != "p1" {
		t.Fatalf("expected player id as display name, got %q", update.PlayerName)
	}
}
