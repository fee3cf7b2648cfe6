package httpapi

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/schedule"
	"github.com/riskibarqy/matchday/internal/domain/team"
)

type registerTeamRequest struct {
	TeamID string `json:"team_id" validate:"required,max=128"`
	Name   string `json:"name" validate:"required,max=200"`
}

type setScheduleRequest struct {
	Definition string `json:"definition" validate:"required,max=512"`
}

type linkMessageRequest struct {
	MessageID string `json:"message_id" validate:"required,max=256"`
}

type confirmationRequest struct {
	EventID      string  `json:"event_id" validate:"required,max=256"`
	PlayerID     string  `json:"player_id" validate:"required,max=128"`
	PlayerName   string  `json:"player_name" validate:"max=200"`
	Confirmation *string `json:"confirmation" validate:"omitempty,oneof=attending absent undecided"`
	GuestDelta   *int    `json:"guest_delta" validate:"omitempty,min=-10,max=10"`
}

type statsRequest struct {
	Season int `validate:"required,min=2000,max=2100"`
}

type slotDTO struct {
	Day    int    `json:"day"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Label  string `json:"label"`
}

type playerDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Karma int    `json:"karma"`
}

type teamDTO struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Schedule     string      `json:"schedule"`
	Slots        []slotDTO   `json:"slots"`
	Players      []playerDTO `json:"players"`
	CreatedAtUTC string      `json:"created_at_utc"`
	UpdatedAtUTC string      `json:"updated_at_utc"`
}

type registerTeamResponse struct {
	Created bool    `json:"created"`
	Team    teamDTO `json:"team"`
}

type setScheduleResponse struct {
	Team                  teamDTO `json:"team"`
	CancelledPendingMatch bool    `json:"cancelled_pending_match"`
}

type nextMatchResponse struct {
	WasCreated bool              `json:"was_created"`
	Match      match.RenderModel `json:"match"`
}

type confirmationResponse struct {
	Accepted  bool               `json:"accepted"`
	Duplicate bool               `json:"duplicate"`
	Rejected  bool               `json:"rejected"`
	Refresh   bool               `json:"refresh"`
	Match     *match.RenderModel `json:"match,omitempty"`
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	_, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	slots := make([]slotDTO, 0, len(v.Schedule))
	for _, slot := range v.Schedule {
		slots = append(slots, slotDTO{
			Day:    slot.Weekday,
			Hour:   slot.Hour,
			Minute: slot.Minute,
			Label:  slot.Label(),
		})
	}

	players := make([]playerDTO, 0, len(v.Players))
	for _, p := range v.Players {
		players = append(players, playerDTO{ID: p.ID, Name: p.Name, Karma: p.Karma})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })

	return teamDTO{
		ID:           v.ID,
		Name:         v.Name,
		Schedule:     schedule.FormatRecurrence(v.Schedule),
		Slots:        slots,
		Players:      players,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (r confirmationRequest) toEvent(matchID string) match.ConfirmationEvent {
	event := match.ConfirmationEvent{
		MatchID:    matchID,
		EventID:    r.EventID,
		PlayerID:   r.PlayerID,
		PlayerName: r.PlayerName,
		GuestDelta: r.GuestDelta,
	}
	if r.Confirmation != nil {
		value := match.ConfirmationValue(*r.Confirmation)
		event.Value = &value
	}
	return event
}
