package cache

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/schedule"
	"github.com/riskibarqy/matchday/internal/domain/team"
	basecache "github.com/riskibarqy/matchday/internal/platform/cache"
)

const teamKeyPrefix = "team:id:"

// errTeamMissing keeps misses out of the cache; GetOrLoad never stores errors.
var errTeamMissing = errors.New("team missing")

// TeamRepository is a read-through cache for GetByID in front of another
// team.Repository. Only hits are cached, so a team registered by another
// instance is visible on the next read. Writes go to the wrapped repository
// and drop the team's entry. List always reads through: rollover must see
// current schedules.
type TeamRepository struct {
	next  team.Repository
	teams *basecache.Store[team.Team]
}

func NewTeamRepository(next team.Repository, ttl time.Duration) *TeamRepository {
	return &TeamRepository{
		next:  next,
		teams: basecache.NewStore[team.Team](ttl),
	}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := r.teams.GetOrLoad(ctx, teamKeyPrefix+teamID, func(ctx context.Context) (team.Team, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return team.Team{}, err
		}
		if !exists {
			return team.Team{}, errTeamMissing
		}
		return item, nil
	})
	if errors.Is(err, errTeamMissing) {
		return team.Team{}, false, nil
	}
	if err != nil {
		return team.Team{}, false, err
	}

	return cached.Clone(), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) (team.Team, bool, error) {
	stored, created, err := r.next.Create(ctx, t)
	if err != nil {
		return team.Team{}, false, err
	}
	r.invalidate(ctx, t.ID)

	return stored, created, nil
}

func (r *TeamRepository) UpdateSchedule(ctx context.Context, teamID string, slots []schedule.WeeklySlot, now time.Time) (bool, error) {
	updated, err := r.next.UpdateSchedule(ctx, teamID, slots, now)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx, teamID)

	return updated, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	return r.next.List(ctx)
}

func (r *TeamRepository) invalidate(ctx context.Context, teamID string) {
	r.teams.Delete(ctx, teamKeyPrefix+teamID)
}
