package team

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/schedule"
)

// Player is a member profile kept on the team.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Karma int    `json:"karma"`
}

// Team is a group that plays on a weekly schedule. ID is the external
// identifier of the chat the team lives in.
type Team struct {
	ID        string
	Name      string
	Schedule  []schedule.WeeklySlot
	Players   map[string]Player
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(id, name string, now time.Time) Team {
	return Team{
		ID:        strings.TrimSpace(id),
		Name:      strings.TrimSpace(name),
		Schedule:  schedule.DefaultSchedule(),
		Players:   map[string]Player{},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	for _, slot := range t.Schedule {
		if err := slot.Validate(); err != nil {
			return fmt.Errorf("team schedule: %w", err)
		}
	}

	return nil
}

func (t Team) Clone() Team {
	copied := t
	copied.Schedule = append([]schedule.WeeklySlot(nil), t.Schedule...)
	copied.Players = make(map[string]Player, len(t.Players))
	for k, v := range t.Players {
		copied.Players[k] = v
	}
	return copied
}
