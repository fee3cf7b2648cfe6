package match

import (
	"reflect"
	"testing"
	"time"
)

func TestBuildView_GroupsAndTotal(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)
	m := NewScheduled("m1", "team-1", time.Date(2026, 2, 5, 5, 0, 0, 0, time.UTC), now)

	apply := func(playerID, name string, value *ConfirmationValue, guests *int, at time.Time) {
		m = m.Apply(NewConfirmationUpdate(ConfirmationEvent{
			MatchID: m.ID, EventID: playerID + at.String(), PlayerID: playerID, PlayerName: name,
			Value: value, GuestDelta: guests,
		}, at))
	}

	apply("p2", "Andi", valuePtr(ConfirmationAttending), nil, now.Add(2*time.Minute))
	apply("p1", "Budi", valuePtr(ConfirmationAttending), nil, now.Add(time.Minute))
	apply("p3", "Citra", valuePtr(ConfirmationAbsent), nil, now.Add(3*time.Minute))
	apply("p1", "Budi", nil, intPtr(2), now.Add(4*time.Minute))
	apply("p4", "Dewi", valuePtr(ConfirmationUndecided), nil, now.Add(5*time.Minute))

	view := BuildView(m, "nonce-1")

	if view.Nonce != "nonce-1" {
		t.Fatalf("unexpected nonce: %q", view.Nonce)
	}
	if view.TotalAttending != 4 {
		t.Fatalf("expected total 4 (2 players + 2 guests), got %d", view.TotalAttending)
	}
	if view.DateLabel != "Thu,05.02@05:00" {
		t.Fatalf("unexpected date label: %q", view.DateLabel)
	}
	if len(view.Groups) != len(ConfirmationKinds()) {
		t.Fatalf("expected one group per kind, got %d", len(view.Groups))
	}

	attending := view.Groups[0]
	if attending.Value != ConfirmationAttending || !attending.Attending {
		t.Fatalf("expected attending group first, got %+v", attending)
	}
	if got := view.AttendingPlayerIDs(); !reflect.DeepEqual(got, []string{"p1", "p2"}) {
		t.Fatalf("expected chronological attending order, got %v", got)
	}
	if attending.Entries[0].ExtraGuests != 2 || attending.Entries[0].DisplayName != "Budi" {
		t.Fatalf("unexpected first attending entry: %+v", attending.Entries[0])
	}
	if len(view.Groups[1].Entries) != 1 || view.Groups[1].Entries[0].PlayerID != "p3" {
		t.Fatalf("unexpected absent group: %+v", view.Groups[1])
	}
	if len(view.Groups[2].Entries) != 1 || view.Groups[2].Entries[0].PlayerID != "p4" {
		t.Fatalf("unexpected undecided group: %+v", view.Groups[2])
	}
}

func TestBuildView_PlayerChangingMindAppearsOnce(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)
	m := NewScheduled("m1", "team-1", now.Add(time.Hour), now)

	m = m.Apply(NewConfirmationUpdate(ConfirmationEvent{
		MatchID: "m1", EventID: "e1", PlayerID: "p1", PlayerName: "Budi", Value: valuePtr(ConfirmationAbsent),
	}, now))
	m = m.Apply(NewConfirmationUpdate(ConfirmationEvent{
		MatchID: "m1", EventID: "e2", PlayerID: "p1", PlayerName: "Budi B.", Value: valuePtr(ConfirmationAttending),
	}, now.Add(time.Minute)))

	view := BuildView(m, "")
	if view.TotalAttending != 1 {
		t.Fatalf("expected total 1, got %d", view.TotalAttending)
	}
	if len(view.Groups[1].Entries) != 0 {
		t.Fatalf("expected absent group empty, got %+v", view.Groups[1].Entries)
	}
	if view.Groups[0].Entries[0].DisplayName != "Budi B." {
		t.Fatalf("expected latest display name, got %q", view.Groups[0].Entries[0].DisplayName)
	}
}

func TestBuildView_GuestsWithoutConfirmationStillCount(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)
	m := NewScheduled("m1", "team-1", now.Add(time.Hour), now)
	m.ExtraGuests["p9"] = 3
	m.ExtraGuests["p8"] = -2

	view := BuildView(m, "")
	if view.TotalAttending != 3 {
		t.Fatalf("expected only positive guest counts in total, got %d", view.TotalAttending)
	}
	for _, group := range view.Groups {
		if len(group.Entries) != 0 {
			t.Fatalf("expected no entries without confirmations, got %+v", group)
		}
	}
}
