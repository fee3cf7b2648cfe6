package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/ledger"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/schedule"
	"github.com/riskibarqy/matchday/internal/domain/team"
	idgen "github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const (
	defaultCreateAttempts  = 3
	defaultRolloverWorkers = 4
	releaseTimeout         = 2 * time.Second
)

type MatchServiceConfig struct {
	LedgerRetention time.Duration
	CreateAttempts  int
	RolloverWorkers int
}

func (c MatchServiceConfig) withDefaults() MatchServiceConfig {
	if c.LedgerRetention <= 0 {
		c.LedgerRetention = ledger.DefaultRetention
	}
	if c.CreateAttempts <= 0 {
		c.CreateAttempts = defaultCreateAttempts
	}
	if c.RolloverWorkers <= 0 {
		c.RolloverWorkers = defaultRolloverWorkers
	}
	return c
}

// ConfirmationResult tells the transport whether to refresh a rendered match.
type ConfirmationResult struct {
	Match     match.Match
	Accepted  bool
	Duplicate bool
}

// MatchService owns the match lifecycle: it resolves the next match for a team
// and applies attendance confirmations at most once per event.
type MatchService struct {
	teamRepo   team.Repository
	matchRepo  match.Repository
	ledgerRepo ledger.Repository
	idGen      idgen.Generator
	cfg        MatchServiceConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewMatchService(
	teamRepo team.Repository,
	matchRepo match.Repository,
	ledgerRepo ledger.Repository,
	idGen idgen.Generator,
	cfg MatchServiceConfig,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		ledgerRepo: ledgerRepo,
		idGen:      idGen,
		cfg:        cfg.withDefaults(),
		logger:     logger,
		now:        time.Now,
	}
}

// ResolveNextMatchForTeam loads the team and resolves its next match.
func (s *MatchService) ResolveNextMatchForTeam(ctx context.Context, teamID string) (match.Match, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ResolveNextMatchForTeam", teamAttr(teamID))
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return match.Match{}, false, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	t, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return match.Match{}, false, dependencyError("get team", err)
	}
	if !exists {
		return match.Match{}, false, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return s.ResolveNextMatch(ctx, t)
}

// ResolveNextMatch returns the team's pending match, creating one at the next
// scheduled slot when there is none. An overdue match is completed first.
// Concurrent callers converge on the single match the store lets one of them
// create; wasCreated is true only for that caller.
func (s *MatchService) ResolveNextMatch(ctx context.Context, t team.Team) (match.Match, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ResolveNextMatch", teamAttr(t.ID))
	defer span.End()

	slots := schedule.Normalize(t.Schedule)
	if len(slots) == 0 {
		return match.Match{}, false, fmt.Errorf("%w: team=%s has no schedule", ErrInvalidInput, t.ID)
	}

	for attempt := 1; attempt <= s.cfg.CreateAttempts; attempt++ {
		now := s.now().UTC()

		active, found, err := s.matchRepo.FindActiveByTeam(ctx, t.ID)
		if err != nil {
			return match.Match{}, false, dependencyError("find active match", err)
		}
		if found && active.IsPending(now) {
			return active, false, nil
		}
		if found {
			completed, err := s.matchRepo.Complete(ctx, active.ID, now)
			if err != nil {
				return match.Match{}, false, dependencyError("complete match", err)
			}
			if completed {
				s.logger.InfoContext(ctx, "match completed",
					"team_id", t.ID,
					"match_id", active.ID,
					"scheduled_at", active.ScheduledAt,
				)
			}
		}

		matchID, err := s.idGen.NewID()
		if err != nil {
			return match.Match{}, false, fmt.Errorf("generate match id: %w", err)
		}
		next := match.NewScheduled(matchID, t.ID, schedule.NextOccurrence(slots, now), now)

		err = s.matchRepo.CreateScheduled(ctx, next)
		if err == nil {
			s.logger.InfoContext(ctx, "match scheduled",
				"team_id", t.ID,
				"match_id", next.ID,
				"scheduled_at", next.ScheduledAt,
			)
			return next, true, nil
		}
		if !errors.Is(err, match.ErrActiveMatchExists) {
			return match.Match{}, false, dependencyError("create match", err)
		}

		s.logger.DebugContext(ctx, "lost match creation race, re-reading",
			"team_id", t.ID,
			"attempt", attempt,
		)
	}

	return match.Match{}, false, fmt.Errorf("%w: could not settle next match for team=%s after %d attempts",
		ErrConflict, t.ID, s.cfg.CreateAttempts)
}

// InvalidatePendingMatch cancels the team's pending match, if it has one.
func (s *MatchService) InvalidatePendingMatch(ctx context.Context, teamID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.InvalidatePendingMatch", teamAttr(teamID))
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return false, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	cancelled, err := s.matchRepo.CancelPending(ctx, teamID, s.now().UTC())
	if err != nil {
		return false, dependencyError("cancel pending match", err)
	}
	if cancelled {
		s.logger.InfoContext(ctx, "pending match cancelled", "team_id", teamID)
	}

	return cancelled, nil
}

// ProcessConfirmation applies one confirmation event. A redelivered event
// reports Duplicate; an event for a match that is no longer pending reports
// Accepted=false. Neither is an error.
func (s *MatchService) ProcessConfirmation(ctx context.Context, event match.ConfirmationEvent) (result ConfirmationResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ProcessConfirmation", matchAttr(event.MatchID))
	defer func() {
		recordSpanError(span, err)
		span.End()
	}()

	if err := event.Validate(); err != nil {
		return ConfirmationResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	update := match.NewConfirmationUpdate(event, now)
	key := confirmationKey(event)

	admitted, err := s.ledgerRepo.TryAdmit(ctx, ledger.NewEntry(key, now, s.cfg.LedgerRetention))
	if err != nil {
		return ConfirmationResult{}, dependencyError("admit confirmation event", err)
	}
	if !admitted {
		s.logger.DebugContext(ctx, "duplicate confirmation event ignored",
			"match_id", key.MatchID,
			"player_id", key.PlayerID,
			"event_id", key.EventID,
		)
		return ConfirmationResult{Duplicate: true}, nil
	}

	updated, applied, err := s.matchRepo.ApplyConfirmation(ctx, update, now)
	if err != nil {
		if writeNeverSent(err) {
			s.releaseKey(ctx, key)
		} else {
			s.logger.WarnContext(ctx, "confirmation outcome unknown, key kept",
				"match_id", key.MatchID,
				"player_id", key.PlayerID,
				"event_id", key.EventID,
				"error", err,
			)
		}
		return ConfirmationResult{}, dependencyError("apply confirmation", err)
	}
	if !applied {
		s.logger.InfoContext(ctx, "confirmation rejected for non-pending match",
			"match_id", key.MatchID,
			"player_id", key.PlayerID,
		)
		return ConfirmationResult{Accepted: false}, nil
	}

	return ConfirmationResult{Match: updated, Accepted: true}, nil
}

// IsDuplicate reports whether the event was already admitted and is still
// retained. Like ValidateConfirmation it is advisory.
func (s *MatchService) IsDuplicate(ctx context.Context, event match.ConfirmationEvent) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.IsDuplicate", matchAttr(event.MatchID))
	defer span.End()

	if err := event.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	seen, err := s.ledgerRepo.Seen(ctx, confirmationKey(event), s.now().UTC())
	if err != nil {
		return false, dependencyError("lookup confirmation event", err)
	}
	return seen, nil
}

// ValidateConfirmation is an advisory pre-check for the transport. The
// conditional write in ProcessConfirmation is what actually guards the match.
func (s *MatchService) ValidateConfirmation(ctx context.Context, event match.ConfirmationEvent) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ValidateConfirmation", matchAttr(event.MatchID))
	defer span.End()

	if err := event.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	m, found, err := s.matchRepo.GetByID(ctx, strings.TrimSpace(event.MatchID))
	if err != nil {
		return false, dependencyError("get match", err)
	}
	if !found || !m.IsPending(s.now().UTC()) {
		return false, nil
	}
	if event.IsGuestOnly() && !m.HasPrimaryConfirmation(strings.TrimSpace(event.PlayerID)) {
		return false, nil
	}

	return true, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, dependencyError("get match", err)
	}
	if !found {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return m, nil
}

// MatchView builds the render model for a match. A fresh nonce is issued when
// the caller does not supply one.
func (s *MatchService) MatchView(m match.Match, nonce string) (match.RenderModel, error) {
	nonce = strings.TrimSpace(nonce)
	if nonce == "" {
		generated, err := s.idGen.NewID()
		if err != nil {
			return match.RenderModel{}, fmt.Errorf("generate view nonce: %w", err)
		}
		nonce = generated
	}

	return match.BuildView(m, nonce), nil
}

// LinkMessage stores the external message that renders the match.
func (s *MatchService) LinkMessage(ctx context.Context, matchID, messageID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.LinkMessage", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	messageID = strings.TrimSpace(messageID)
	if matchID == "" || messageID == "" {
		return fmt.Errorf("%w: match id and message id are required", ErrInvalidInput)
	}

	linked, err := s.matchRepo.LinkMessage(ctx, matchID, messageID)
	if err != nil {
		return dependencyError("link match message", err)
	}
	if !linked {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return nil
}

// PurgeLedger drops confirmation keys past their retention.
func (s *MatchService) PurgeLedger(ctx context.Context) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.PurgeLedger")
	defer span.End()

	purged, err := s.ledgerRepo.PurgeExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, dependencyError("purge ledger", err)
	}
	s.logger.InfoContext(ctx, "confirmation ledger purged", "purged", purged)

	return purged, nil
}

func (s *MatchService) releaseKey(ctx context.Context, key ledger.Key) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.ledgerRepo.Release(releaseCtx, key); err != nil {
		s.logger.WarnContext(ctx, "release confirmation key failed",
			"match_id", key.MatchID,
			"player_id", key.PlayerID,
			"event_id", key.EventID,
			"error", err,
		)
	}
}

func confirmationKey(event match.ConfirmationEvent) ledger.Key {
	return ledger.Key{
		EventID:  strings.TrimSpace(event.EventID),
		MatchID:  strings.TrimSpace(event.MatchID),
		PlayerID: strings.TrimSpace(event.PlayerID),
	}
}
