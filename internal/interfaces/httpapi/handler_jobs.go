package httpapi

import (
	"net/http"
	"time"
)

type purgeLedgerResponse struct {
	Purged     int64  `json:"purged"`
	DurationMs int64  `json:"duration_ms"`
	RanAtUTC   string `json:"ran_at_utc"`
}

// RunRolloverJob is called by the external scheduler to make sure every team
// has its next match.
func (h *Handler) RunRolloverJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRolloverJob")
	defer span.End()

	result, err := h.matchService.ResolveAllTeams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run rollover job failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if result.FailedCount > 0 {
		h.logger.WarnContext(ctx, "rollover job finished with failures",
			"failed", result.FailedCount,
			"created", result.CreatedCount,
		)
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunPurgeLedgerJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPurgeLedgerJob")
	defer span.End()

	started := time.Now()
	purged, err := h.matchService.PurgeLedger(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run purge ledger job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, purgeLedgerResponse{
		Purged:     purged,
		DurationMs: time.Since(started).Milliseconds(),
		RanAtUTC:   started.UTC().Format(time.RFC3339),
	})
}
