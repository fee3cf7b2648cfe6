package memory

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attending() *match.ConfirmationValue {
	v := match.ConfirmationAttending
	return &v
}

func TestMatchRepository_OneScheduledMatchPerTeam(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)

	var created atomic.Int32
	var conflicts atomic.Int32
	var wg conc.WaitGroup
	for i := 0; i < 16; i++ {
		id := fmt.Sprintf("m-%02d", i)
		wg.Go(func() {
			err := repo.CreateScheduled(ctx, match.NewScheduled(id, "team-1", now.Add(time.Hour), now))
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, match.ErrActiveMatchExists):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	assert.EqualValues(t, 15, conflicts.Load())
}

func TestMatchRepository_TransitionsAreConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)
	at := now.Add(time.Hour)
	require.NoError(t, repo.CreateScheduled(ctx, match.NewScheduled("m1", "team-1", at, now)))

	completed, err := repo.Complete(ctx, "m1", now)
	require.NoError(t, err)
	assert.False(t, completed, "a match that has not started cannot complete")

	cancelled, err := repo.CancelPending(ctx, "team-1", at.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, cancelled, "a started match cannot be cancelled")

	completed, err = repo.Complete(ctx, "m1", at.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, completed)

	_, found, err := repo.FindActiveByTeam(ctx, "team-1")
	require.NoError(t, err)
	assert.False(t, found)

	completed, err = repo.Complete(ctx, "m1", at.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, completed, "completed is terminal")

	require.NoError(t, repo.CreateScheduled(ctx, match.NewScheduled("m2", "team-1", at.Add(72*time.Hour), at)))
	cancelled, err = repo.CancelPending(ctx, "team-1", at)
	require.NoError(t, err)
	assert.True(t, cancelled)

	stored, found, err := repo.GetByID(ctx, "m2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, match.StatusCancelled, stored.Status)
}

func TestMatchRepository_ApplyConfirmationConcurrentPlayers(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)
	require.NoError(t, repo.CreateScheduled(ctx, match.NewScheduled("m1", "team-1", now.Add(time.Hour), now)))

	var wg conc.WaitGroup
	for i := 0; i < 20; i++ {
		playerID := fmt.Sprintf("p%02d", i)
		wg.Go(func() {
			_, ok, err := repo.ApplyConfirmation(ctx, match.ConfirmationUpdate{
				MatchID: "m1", PlayerID: playerID, PlayerName: playerID, Value: attending(), RecordedAt: now,
			}, now)
			if err != nil || !ok {
				t.Errorf("apply for %s: ok=%v err=%v", playerID, ok, err)
			}
		})
	}
	wg.Wait()

	stored, _, err := repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, stored.Squad, 20)
}

func TestMatchRepository_ApplyConfirmationRejectsStartedMatch(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()
	now := time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)
	require.NoError(t, repo.CreateScheduled(ctx, match.NewScheduled("m1", "team-1", now.Add(-time.Minute), now.Add(-time.Hour))))

	_, ok, err := repo.ApplyConfirmation(ctx, match.ConfirmationUpdate{
		MatchID: "m1", PlayerID: "p1", Value: attending(), RecordedAt: now,
	}, now)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = repo.ApplyConfirmation(ctx, match.ConfirmationUpdate{
		MatchID: "missing", PlayerID: "p1", Value: attending(), RecordedAt: now,
	}, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchRepository_ListCompletedByTeam(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository()
	base := time.Date(2026, 1, 5, 5, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		at := base.AddDate(0, 0, 7*i)
		id := fmt.Sprintf("m%d", i)
		require.NoError(t, repo.CreateScheduled(ctx, match.NewScheduled(id, "team-1", at, at.Add(-time.Hour))))
		ok, err := repo.Complete(ctx, id, at.Add(time.Minute))
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.NoError(t, repo.CreateScheduled(ctx, match.NewScheduled("pending", "team-1", base.AddDate(0, 1, 0), base)))

	got, err := repo.ListCompletedByTeam(ctx, "team-1", base, base.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m0", got[0].ID)
	assert.Equal(t, "m1", got[1].ID)
}
