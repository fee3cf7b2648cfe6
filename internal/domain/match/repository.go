package match

import (
	"context"
	"errors"
	"time"
)

// ErrActiveMatchExists is returned by CreateScheduled when the team already
// has a SCHEDULED match.
var ErrActiveMatchExists = errors.New("team already has a scheduled match")

// Repository describes match persistence needs from use cases. Every mutation
// is a single conditional write; callers never read-modify-write.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	FindActiveByTeam(ctx context.Context, teamID string) (Match, bool, error)
	CreateScheduled(ctx context.Context, m Match) error
	// Complete moves the match to COMPLETED if it is SCHEDULED and its time is before now.
	Complete(ctx context.Context, matchID string, now time.Time) (bool, error)
	// CancelPending moves the team's SCHEDULED match to CANCELLED if it has not started.
	CancelPending(ctx context.Context, teamID string, now time.Time) (bool, error)
	// ApplyConfirmation applies the update only while the match is SCHEDULED and
	// not started. The bool is false when that condition did not hold.
	ApplyConfirmation(ctx context.Context, update ConfirmationUpdate, now time.Time) (Match, bool, error)
	LinkMessage(ctx context.Context, matchID, messageID string) (bool, error)
	ListCompletedByTeam(ctx context.Context, teamID string, from, to time.Time) ([]Match, error)
}
