package team

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/schedule"
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	// Create inserts the team unless one with the same id exists. The stored
	// team is returned either way; the bool reports whether it was inserted.
	Create(ctx context.Context, t Team) (Team, bool, error)
	UpdateSchedule(ctx context.Context, teamID string, slots []schedule.WeeklySlot, now time.Time) (bool, error)
	List(ctx context.Context) ([]Team, error)
}
