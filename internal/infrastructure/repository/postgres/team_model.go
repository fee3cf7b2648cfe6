package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/domain/schedule"
	"github.com/riskibarqy/matchday/internal/domain/team"
)

type teamTableModel struct {
	ID        int64     `db:"id,readonly"`
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	Schedule  string    `db:"schedule"`
	Players   string    `db:"players"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func teamToRow(t team.Team) (teamTableModel, error) {
	scheduleJSON, err := encodeSchedule(t.Schedule)
	if err != nil {
		return teamTableModel{}, err
	}
	players := t.Players
	if players == nil {
		players = map[string]team.Player{}
	}
	playersJSON, err := sonic.MarshalString(players)
	if err != nil {
		return teamTableModel{}, fmt.Errorf("encode team players: %w", err)
	}

	return teamTableModel{
		PublicID:  t.ID,
		Name:      t.Name,
		Schedule:  scheduleJSON,
		Players:   playersJSON,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}, nil
}

func teamFromRow(row teamTableModel) (team.Team, error) {
	out := team.Team{
		ID:        row.PublicID,
		Name:      row.Name,
		Players:   map[string]team.Player{},
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if err := sonic.UnmarshalString(row.Schedule, &out.Schedule); err != nil {
		return team.Team{}, fmt.Errorf("decode schedule of team %s: %w", row.PublicID, err)
	}
	if row.Players != "" {
		if err := sonic.UnmarshalString(row.Players, &out.Players); err != nil {
			return team.Team{}, fmt.Errorf("decode players of team %s: %w", row.PublicID, err)
		}
	}
	out.Schedule = schedule.Normalize(out.Schedule)

	return out, nil
}

func encodeSchedule(slots []schedule.WeeklySlot) (string, error) {
	if slots == nil {
		slots = []schedule.WeeklySlot{}
	}
	raw, err := sonic.MarshalString(slots)
	if err != nil {
		return "", fmt.Errorf("encode schedule: %w", err)
	}
	return raw, nil
}
