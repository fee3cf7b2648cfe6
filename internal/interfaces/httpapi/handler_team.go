package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchday/internal/usecase"
)

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterTeam")
	defer span.End()

	var req registerTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, created, err := h.teamService.Register(ctx, usecase.RegisterTeamInput{
		TeamID: req.TeamID,
		Name:   req.Name,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register team failed", "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, registerTeamResponse{
		Created: created,
		Team:    teamToDTO(ctx, item),
	})
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	tagSpan(span, "team_id", teamID)
	item, err := h.teamService.Get(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(ctx, item))
}

func (h *Handler) SetTeamSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetTeamSchedule")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	tagSpan(span, "team_id", teamID)
	var req setScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.teamService.SetSchedule(ctx, teamID, req.Definition)
	if err != nil {
		h.logger.WarnContext(ctx, "set team schedule failed", "team_id", teamID, "definition", req.Definition, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, setScheduleResponse{
		Team:                  teamToDTO(ctx, result.Team),
		CancelledPendingMatch: result.CancelledPendingMatch,
	})
}

func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamStats")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	tagSpan(span, "team_id", teamID)
	rawSeason := strings.TrimSpace(r.URL.Query().Get("season"))
	season, err := strconv.Atoi(rawSeason)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: season must be a year, got %q", usecase.ErrInvalidInput, rawSeason))
		return
	}
	if err := h.validateRequest(ctx, statsRequest{Season: season}); err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.statsService.SeasonStats(ctx, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get team stats failed", "team_id", teamID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}
