package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/matchday/internal/domain/schedule"
	"github.com/riskibarqy/matchday/internal/domain/team"
)

const (
	rolloverStatusCreated = "created"
	rolloverStatusPending = "pending"
	rolloverStatusSkipped = "skipped"
	rolloverStatusFailed  = "failed"
)

type RolloverTeamResult struct {
	TeamID      string    `json:"team_id"`
	MatchID     string    `json:"match_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at,omitempty"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	DurationMs  int64     `json:"duration_ms"`
}

type RolloverResult struct {
	Teams        []RolloverTeamResult `json:"teams"`
	CreatedCount int                  `json:"created_count"`
	PendingCount int                  `json:"pending_count"`
	SkippedCount int                  `json:"skipped_count"`
	FailedCount  int                  `json:"failed_count"`
}

// ResolveAllTeams resolves the next match of every registered team. Teams are
// independent, so they run in parallel on a bounded worker pool.
func (s *MatchService) ResolveAllTeams(ctx context.Context) (RolloverResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ResolveAllTeams")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return RolloverResult{}, dependencyError("list teams", err)
	}
	if len(teams) == 0 {
		return RolloverResult{Teams: []RolloverTeamResult{}}, nil
	}

	pool, err := ants.NewPool(s.cfg.RolloverWorkers)
	if err != nil {
		return RolloverResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan RolloverTeamResult, len(teams))
	var createdCount, pendingCount, skippedCount, failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, item := range teams {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.rolloverTeam(ctx, item)
			switch row.Status {
			case rolloverStatusCreated:
				createdCount.Add(1)
			case rolloverStatusPending:
				pendingCount.Add(1)
			case rolloverStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return RolloverResult{}, fmt.Errorf("submit rollover task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := RolloverResult{Teams: make([]RolloverTeamResult, 0, len(teams))}
	for row := range results {
		out.Teams = append(out.Teams, row)
	}
	sort.Slice(out.Teams, func(i, j int) bool {
		return out.Teams[i].TeamID < out.Teams[j].TeamID
	})

	out.CreatedCount = int(createdCount.Load())
	out.PendingCount = int(pendingCount.Load())
	out.SkippedCount = int(skippedCount.Load())
	out.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "match rollover finished",
		"teams", len(teams),
		"created", out.CreatedCount,
		"pending", out.PendingCount,
		"skipped", out.SkippedCount,
		"failed", out.FailedCount,
	)

	return out, nil
}

func (s *MatchService) rolloverTeam(ctx context.Context, t team.Team) (row RolloverTeamResult) {
	started := time.Now()
	row.TeamID = t.ID
	defer func() {
		row.DurationMs = time.Since(started).Milliseconds()
	}()

	if len(schedule.Normalize(t.Schedule)) == 0 {
		row.Status = rolloverStatusSkipped
		row.Message = "team has no schedule"
		return row
	}

	m, created, err := s.ResolveNextMatch(ctx, t)
	if err != nil {
		row.Status = rolloverStatusFailed
		row.Message = err.Error()
		if errors.Is(err, ErrDependencyUnavailable) {
			s.logger.WarnContext(ctx, "rollover team failed", "team_id", t.ID, "error", err)
		}
		return row
	}

	row.MatchID = m.ID
	row.ScheduledAt = m.ScheduledAt
	row.Status = rolloverStatusPending
	if created {
		row.Status = rolloverStatusCreated
	}
	return row
}
