package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/schedule"
	"github.com/riskibarqy/matchday/internal/domain/team"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

// PendingMatchInvalidator cancels a team's not-yet-started match.
type PendingMatchInvalidator interface {
	InvalidatePendingMatch(ctx context.Context, teamID string) (bool, error)
}

type RegisterTeamInput struct {
	TeamID string
	Name   string
}

type SetScheduleResult struct {
	Team                  team.Team
	CancelledPendingMatch bool
}

type TeamService struct {
	teamRepo    team.Repository
	invalidator PendingMatchInvalidator
	logger      *logging.Logger
	now         func() time.Time
}

func NewTeamService(teamRepo team.Repository, invalidator PendingMatchInvalidator, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teamRepo:    teamRepo,
		invalidator: invalidator,
		logger:      logger,
		now:         time.Now,
	}
}

// Register returns the team with the given id, creating it with the default
// schedule on first sight.
func (s *TeamService) Register(ctx context.Context, input RegisterTeamInput) (team.Team, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Register")
	defer span.End()

	candidate := team.New(input.TeamID, input.Name, s.now())
	if err := candidate.Validate(); err != nil {
		return team.Team{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, created, err := s.teamRepo.Create(ctx, candidate)
	if err != nil {
		return team.Team{}, false, dependencyError("create team", err)
	}
	if created {
		s.logger.InfoContext(ctx, "team registered", "team_id", stored.ID, "name", stored.Name)
	}

	return stored, created, nil
}

func (s *TeamService) Get(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get", teamAttr(teamID))
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, dependencyError("get team", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return item, nil
}

// SetSchedule replaces the team's recurrence and cancels the match that was
// planned under the old one. A definition with no valid slot is rejected and
// leaves the stored schedule untouched.
func (s *TeamService) SetSchedule(ctx context.Context, teamID, definition string) (SetScheduleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SetSchedule", teamAttr(teamID))
	defer span.End()

	slots := schedule.ParseRecurrence(definition)
	if len(slots) == 0 {
		return SetScheduleResult{}, fmt.Errorf("%w: schedule %q has no valid weekday@HH:mm entries", ErrInvalidInput, definition)
	}

	item, err := s.Get(ctx, teamID)
	if err != nil {
		return SetScheduleResult{}, err
	}

	updated, err := s.teamRepo.UpdateSchedule(ctx, item.ID, slots, s.now())
	if err != nil {
		return SetScheduleResult{}, dependencyError("update team schedule", err)
	}
	if !updated {
		return SetScheduleResult{}, fmt.Errorf("%w: team=%s", ErrNotFound, item.ID)
	}
	item.Schedule = slots

	cancelled, err := s.invalidator.InvalidatePendingMatch(ctx, item.ID)
	if err != nil {
		return SetScheduleResult{}, fmt.Errorf("invalidate pending match: %w", err)
	}

	s.logger.InfoContext(ctx, "team schedule changed",
		"team_id", item.ID,
		"schedule", schedule.FormatRecurrence(slots),
		"cancelled_pending_match", cancelled,
	)

	return SetScheduleResult{Team: item, CancelledPendingMatch: cancelled}, nil
}
