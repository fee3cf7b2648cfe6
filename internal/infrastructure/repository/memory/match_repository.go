package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
)

// MatchRepository keeps matches in process memory. activeByTeam plays the
// role of the one-scheduled-match-per-team unique index.
type MatchRepository struct {
	mu           sync.RWMutex
	items        map[string]match.Match
	activeByTeam map[string]string
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		items:        make(map[string]match.Match),
		activeByTeam: make(map[string]string),
	}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return item.Clone(), true, nil
}

func (r *MatchRepository) FindActiveByTeam(_ context.Context, teamID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matchID, ok := r.activeByTeam[teamID]
	if !ok {
		return match.Match{}, false, nil
	}

	return r.items[matchID].Clone(), true, nil
}

func (r *MatchRepository) CreateScheduled(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[m.ID]; exists {
		return fmt.Errorf("match id %s already exists", m.ID)
	}
	if _, exists := r.activeByTeam[m.TeamID]; exists {
		return match.ErrActiveMatchExists
	}

	m.Status = match.StatusScheduled
	r.items[m.ID] = m.Clone()
	r.activeByTeam[m.TeamID] = m.ID

	return nil
}

func (r *MatchRepository) Complete(_ context.Context, matchID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[matchID]
	if !ok || !item.IsOverdue(now) {
		return false, nil
	}
	r.finish(item, match.StatusCompleted, now)

	return true, nil
}

func (r *MatchRepository) CancelPending(_ context.Context, teamID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matchID, ok := r.activeByTeam[teamID]
	if !ok {
		return false, nil
	}
	item := r.items[matchID]
	if !item.IsPending(now) {
		return false, nil
	}
	r.finish(item, match.StatusCancelled, now)

	return true, nil
}

func (r *MatchRepository) ApplyConfirmation(_ context.Context, update match.ConfirmationUpdate, now time.Time) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[update.MatchID]
	if !ok || !item.IsPending(now) {
		return match.Match{}, false, nil
	}
	updated := item.Apply(update)
	r.items[updated.ID] = updated

	return updated.Clone(), true, nil
}

func (r *MatchRepository) LinkMessage(_ context.Context, matchID, messageID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[matchID]
	if !ok {
		return false, nil
	}
	item.LinkedMessageID = messageID
	r.items[matchID] = item

	return true, nil
}

func (r *MatchRepository) ListCompletedByTeam(_ context.Context, teamID string, from, to time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.items {
		if item.TeamID != teamID || item.Status != match.StatusCompleted {
			continue
		}
		if item.ScheduledAt.Before(from) || !item.ScheduledAt.Before(to) {
			continue
		}
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})

	return out, nil
}

func (r *MatchRepository) finish(item match.Match, status match.Status, now time.Time) {
	item.Status = status
	item.UpdatedAt = now.UTC()
	r.items[item.ID] = item
	if r.activeByTeam[item.TeamID] == item.ID {
		delete(r.activeByTeam, item.TeamID)
	}
}
