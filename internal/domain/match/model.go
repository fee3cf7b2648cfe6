package match

import (
	"time"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is reachable from s. Only SCHEDULED
// matches move, and never back to SCHEDULED.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusScheduled && next.IsTerminal()
}

// Confirmation is a player's latest response for one match.
type Confirmation struct {
	Value      ConfirmationValue `json:"value"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// Match is one occurrence of a team's weekly activity.
type Match struct {
	ID              string
	TeamID          string
	ScheduledAt     time.Time
	Status          Status
	Squad           map[string]Confirmation
	ExtraGuests     map[string]int
	DisplayNames    map[string]string
	LinkedMessageID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewScheduled builds an empty SCHEDULED match.
func NewScheduled(id, teamID string, scheduledAt, now time.Time) Match {
	return Match{
		ID:           id,
		TeamID:       teamID,
		ScheduledAt:  scheduledAt.UTC(),
		Status:       StatusScheduled,
		Squad:        map[string]Confirmation{},
		ExtraGuests:  map[string]int{},
		DisplayNames: map[string]string{},
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
}

// IsPending reports whether the match is SCHEDULED and has not started yet.
// A match is still accepting confirmations at exactly its scheduled minute.
func (m Match) IsPending(now time.Time) bool {
	return m.Status == StatusScheduled && !m.ScheduledAt.Before(now)
}

// IsOverdue reports a SCHEDULED match whose time has passed but that nobody
// has completed yet.
func (m Match) IsOverdue(now time.Time) bool {
	return m.Status == StatusScheduled && m.ScheduledAt.Before(now)
}

func (m Match) HasPrimaryConfirmation(playerID string) bool {
	_, ok := m.Squad[playerID]
	return ok
}

func (m Match) Clone() Match {
	copied := m
	copied.Squad = make(map[string]Confirmation, len(m.Squad))
	for k, v := range m.Squad {
		copied.Squad[k] = v
	}
	copied.ExtraGuests = make(map[string]int, len(m.ExtraGuests))
	for k, v := range m.ExtraGuests {
		copied.ExtraGuests[k] = v
	}
	copied.DisplayNames = make(map[string]string, len(m.DisplayNames))
	for k, v := range m.DisplayNames {
		copied.DisplayNames[k] = v
	}
	return copied
}
