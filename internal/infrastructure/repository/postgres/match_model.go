package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday/internal/domain/match"
)

type matchTableModel struct {
	ID              int64          `db:"id,readonly"`
	PublicID        string         `db:"public_id"`
	TeamID          string         `db:"team_public_id"`
	ScheduledAt     time.Time      `db:"scheduled_at"`
	Status          string         `db:"status"`
	Squad           string         `db:"squad"`
	ExtraGuests     string         `db:"extra_guests"`
	DisplayNames    string         `db:"display_names"`
	LinkedMessageID sql.NullString `db:"linked_message_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func matchToRow(m match.Match) (matchTableModel, error) {
	squad, err := encodeJSONObject(m.Squad)
	if err != nil {
		return matchTableModel{}, fmt.Errorf("encode squad: %w", err)
	}
	guests, err := encodeJSONObject(m.ExtraGuests)
	if err != nil {
		return matchTableModel{}, fmt.Errorf("encode extra guests: %w", err)
	}
	names, err := encodeJSONObject(m.DisplayNames)
	if err != nil {
		return matchTableModel{}, fmt.Errorf("encode display names: %w", err)
	}

	return matchTableModel{
		PublicID:        m.ID,
		TeamID:          m.TeamID,
		ScheduledAt:     m.ScheduledAt.UTC(),
		Status:          string(m.Status),
		Squad:           squad,
		ExtraGuests:     guests,
		DisplayNames:    names,
		LinkedMessageID: nullString(m.LinkedMessageID),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}, nil
}

func matchFromRow(row matchTableModel) (match.Match, error) {
	out := match.Match{
		ID:              row.PublicID,
		TeamID:          row.TeamID,
		ScheduledAt:     row.ScheduledAt.UTC(),
		Status:          match.Status(row.Status),
		Squad:           map[string]match.Confirmation{},
		ExtraGuests:     map[string]int{},
		DisplayNames:    map[string]string{},
		LinkedMessageID: row.LinkedMessageID.String,
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
	}
	if err := decodeJSONObject(row.Squad, &out.Squad); err != nil {
		return match.Match{}, fmt.Errorf("decode squad of match %s: %w", row.PublicID, err)
	}
	if err := decodeJSONObject(row.ExtraGuests, &out.ExtraGuests); err != nil {
		return match.Match{}, fmt.Errorf("decode extra guests of match %s: %w", row.PublicID, err)
	}
	if err := decodeJSONObject(row.DisplayNames, &out.DisplayNames); err != nil {
		return match.Match{}, fmt.Errorf("decode display names of match %s: %w", row.PublicID, err)
	}

	return out, nil
}

func encodeJSONObject[V any](value map[string]V) (string, error) {
	if len(value) == 0 {
		return "{}", nil
	}
	return sonic.MarshalString(value)
}

func decodeJSONObject[V any](raw string, out *map[string]V) error {
	if raw == "" {
		return nil
	}
	return sonic.UnmarshalString(raw, out)
}
