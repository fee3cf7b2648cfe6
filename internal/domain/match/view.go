package match

import (
	"sort"
	"time"
)

const dateLabelLayout = "Mon,02.01@15:04"

type RenderEntry struct {
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	ExtraGuests int       `json:"extra_guests"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type RenderGroup struct {
	Value     ConfirmationValue `json:"value"`
	Label     string            `json:"label"`
	Attending bool              `json:"attending"`
	Entries   []RenderEntry     `json:"entries"`
}

// RenderModel is the read-only projection handed to message templates.
type RenderModel struct {
	MatchID         string        `json:"match_id"`
	TeamID          string        `json:"team_id"`
	Nonce           string        `json:"nonce"`
	Status          Status        `json:"status"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DateLabel       string        `json:"date_label"`
	LinkedMessageID string        `json:"linked_message_id,omitempty"`
	Groups          []RenderGroup `json:"groups"`
	TotalAttending  int           `json:"total_attending"`
}

// BuildView groups the squad by confirmation kind. Groups follow
// ConfirmationKinds order; entries are ordered by recorded time, then player id.
func BuildView(m Match, nonce string) RenderModel {
	view := RenderModel{
		MatchID:         m.ID,
		TeamID:          m.TeamID,
		Nonce:           nonce,
		Status:          m.Status,
		ScheduledAt:     m.ScheduledAt,
		DateLabel:       m.ScheduledAt.UTC().Format(dateLabelLayout),
		LinkedMessageID: m.LinkedMessageID,
	}

	byValue := make(map[ConfirmationValue][]RenderEntry, len(confirmationKinds))
	for playerID, confirmation := range m.Squad {
		byValue[confirmation.Value] = append(byValue[confirmation.Value], RenderEntry{
			PlayerID:    playerID,
			DisplayName: displayName(m, playerID),
			ExtraGuests: positive(m.ExtraGuests[playerID]),
			RecordedAt:  confirmation.RecordedAt,
		})
		if confirmation.Value.IsAttending() {
			view.TotalAttending++
		}
	}

	view.Groups = make([]RenderGroup, 0, len(confirmationKinds))
	for _, kind := range confirmationKinds {
		entries := byValue[kind.Value]
		sort.Slice(entries, func(i, j int) bool {
			if !entries[i].RecordedAt.Equal(entries[j].RecordedAt) {
				return entries[i].RecordedAt.Before(entries[j].RecordedAt)
			}
			return entries[i].PlayerID < entries[j].PlayerID
		})
		if entries == nil {
			entries = []RenderEntry{}
		}
		view.Groups = append(view.Groups, RenderGroup{
			Value:     kind.Value,
			Label:     kind.Label,
			Attending: kind.Attending,
			Entries:   entries,
		})
	}

	for _, guests := range m.ExtraGuests {
		view.TotalAttending += positive(guests)
	}

	return view
}

// AttendingPlayerIDs lists players whose confirmation counts toward attendance.
func (v RenderModel) AttendingPlayerIDs() []string {
	var out []string
	for _, group := range v.Groups {
		if !group.Attending {
			continue
		}
		for _, entry := range group.Entries {
			out = append(out, entry.PlayerID)
		}
	}
	return out
}

func displayName(m Match, playerID string) string {
	if name := m.DisplayNames[playerID]; name != "" {
		return name
	}
	return playerID
}

func positive(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
