package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ResolveNextMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveNextMatch")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	tagSpan(span, "team_id", teamID)
	m, created, err := h.matchService.ResolveNextMatchForTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve next match failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	view, err := h.matchService.MatchView(m, "")
	if err != nil {
		h.logger.ErrorContext(ctx, "build match view failed", "match_id", m.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, nextMatchResponse{WasCreated: created, Match: view})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	tagSpan(span, "match_id", matchID)
	m, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	view, err := h.matchService.MatchView(m, r.URL.Query().Get("nonce"))
	if err != nil {
		h.logger.ErrorContext(ctx, "build match view failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) LinkMatchMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LinkMatchMessage")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	tagSpan(span, "match_id", matchID)
	var req linkMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.matchService.LinkMessage(ctx, matchID, req.MessageID); err != nil {
		h.logger.WarnContext(ctx, "link match message failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"match_id":   matchID,
		"message_id": strings.TrimSpace(req.MessageID),
	})
}

// SubmitConfirmation runs the advisory check before applying the event so the
// caller can tell a rejected action apart from a duplicate delivery.
func (h *Handler) SubmitConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitConfirmation")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	tagSpan(span, "match_id", matchID)
	var req confirmationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	event := req.toEvent(matchID)
	duplicate, err := h.matchService.IsDuplicate(ctx, event)
	if err != nil {
		h.logger.WarnContext(ctx, "lookup confirmation failed", "match_id", matchID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if duplicate {
		writeSuccess(ctx, w, http.StatusOK, confirmationResponse{Duplicate: true})
		return
	}

	ok, err := h.matchService.ValidateConfirmation(ctx, event)
	if err != nil {
		h.logger.WarnContext(ctx, "validate confirmation failed", "match_id", matchID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeSuccess(ctx, w, http.StatusOK, confirmationResponse{Rejected: true})
		return
	}

	result, err := h.matchService.ProcessConfirmation(ctx, event)
	if err != nil {
		h.logger.WarnContext(ctx, "process confirmation failed", "match_id", matchID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	resp := confirmationResponse{
		Accepted:  result.Accepted,
		Duplicate: result.Duplicate,
		Rejected:  !result.Accepted && !result.Duplicate,
		Refresh:   result.Accepted,
	}
	if result.Accepted {
		view, err := h.matchService.MatchView(result.Match, "")
		if err != nil {
			h.logger.ErrorContext(ctx, "build match view failed", "match_id", matchID, "error", err)
			writeError(ctx, w, err)
			return
		}
		resp.Match = &view
	}

	writeSuccess(ctx, w, http.StatusOK, resp)
}
