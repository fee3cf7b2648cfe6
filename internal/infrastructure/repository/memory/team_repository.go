package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/schedule"
	"github.com/riskibarqy/matchday/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		items[item.ID] = item.Clone()
	}

	return &TeamRepository{items: items}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[strings.TrimSpace(teamID)]
	if !ok {
		return team.Team{}, false, nil
	}

	return item.Clone(), true, nil
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) (team.Team, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[t.ID]; ok {
		return existing.Clone(), false, nil
	}
	r.items[t.ID] = t.Clone()

	return t.Clone(), true, nil
}

func (r *TeamRepository) UpdateSchedule(_ context.Context, teamID string, slots []schedule.WeeklySlot, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[teamID]
	if !ok {
		return false, nil
	}
	item.Schedule = append([]schedule.WeeklySlot(nil), slots...)
	item.UpdatedAt = now.UTC()
	r.items[teamID] = item

	return true, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, nil
}
