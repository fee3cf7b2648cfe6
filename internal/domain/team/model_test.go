package team

import (
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/schedule"
)

func TestNew_UsesDefaultSchedule(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)
	got := New(" -100123 ", " Tigers ", now)

	if got.ID != "-100123" || got.Name != "Tigers" {
		t.Fatalf("expected trimmed id and name, got %q %q", got.ID, got.Name)
	}
	if schedule.FormatRecurrence(got.Schedule) != "1@05:00,4@05:00" {
		t.Fatalf("unexpected default schedule: %s", schedule.FormatRecurrence(got.Schedule))
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestTeam_Validate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		mutate func(*Team)
	}{
		{name: "missing id", mutate: func(t *Team) { t.ID = "" }},
		{name: "missing name", mutate: func(t *Team) { t.Name = "" }},
		{name: "bad slot", mutate: func(t *Team) { t.Schedule = []schedule.WeeklySlot{{Weekday: 9}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team := New("t1", "Tigers", now)
			tt.mutate(&team)
			if err := team.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
