package usecase

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/ledger"
	"github.com/riskibarqy/matchday/internal/domain/match"
	ledgermock "github.com/riskibarqy/matchday/internal/mocks/domain/ledger"
	matchmock "github.com/riskibarqy/matchday/internal/mocks/domain/match"
	teammock "github.com/riskibarqy/matchday/internal/mocks/domain/team"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/stretchr/testify/mock"
)

func newMockedMatchService(t *testing.T) (*MatchService, *matchmock.Repository, *ledgermock.Repository) {
	t.Helper()

	matchRepo := matchmock.NewRepository(t)
	ledgerRepo := ledgermock.NewRepository(t)
	service := NewMatchService(
		teammock.NewRepository(t),
		matchRepo,
		ledgerRepo,
		staticIDGenerator{id: "match-new"},
		MatchServiceConfig{},
		logging.NewNop(),
	)
	service.now = func() time.Time { return tuesdayMorning }
	return service, matchRepo, ledgerRepo
}

func TestMatchService_ProcessConfirmation_ReleasesKeyWhenWriteNeverSentUsingMockery(t *testing.T) {
	t.Parallel()

	service, matchRepo, ledgerRepo := newMockedMatchService(t)
	event := match.ConfirmationEvent{MatchID: "m1", EventID: "evt-1", PlayerID: "p1", Value: attendingValue()}
	key := ledger.Key{EventID: "evt-1", MatchID: "m1", PlayerID: "p1"}

	ledgerRepo.
		On("TryAdmit", mock.Anything, mock.MatchedBy(func(e ledger.Entry) bool { return e.Key == key })).
		Return(true, nil).
		Once()
	matchRepo.
		On("ApplyConfirmation", mock.Anything, mock.AnythingOfType("match.ConfirmationUpdate"), tuesdayMorning).
		Return(match.Match{}, false, fmt.Errorf("apply confirmation: %w", resilience.ErrCircuitOpen)).
		Once()
	ledgerRepo.
		On("Release", mock.Anything, key).
		Return(nil).
		Once()

	_, err := service.ProcessConfirmation(t.Context(), event)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestMatchService_ProcessConfirmation_KeepsKeyWhenOutcomeUnknownUsingMockery(t *testing.T) {
	t.Parallel()

	cases := map[string]error{
		"deadline exceeded": context.DeadlineExceeded,
		"connection reset":  fmt.Errorf("update matches: %w", syscall.ECONNRESET),
	}
	for name, storeErr := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			service, matchRepo, ledgerRepo := newMockedMatchService(t)
			ledgerRepo.
				On("TryAdmit", mock.Anything, mock.AnythingOfType("ledger.Entry")).
				Return(true, nil).
				Once()
			matchRepo.
				On("ApplyConfirmation", mock.Anything, mock.AnythingOfType("match.ConfirmationUpdate"), tuesdayMorning).
				Return(match.Match{}, false, storeErr).
				Once()

			_, err := service.ProcessConfirmation(t.Context(), match.ConfirmationEvent{
				MatchID: "m1", EventID: "evt-1", PlayerID: "p1", GuestDelta: guests(2),
			})
			if !errors.Is(err, ErrDependencyUnavailable) {
				t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
			}
			ledgerRepo.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
		})
	}
}

func TestMatchService_ProcessConfirmation_LedgerFailureUsingMockery(t *testing.T) {
	t.Parallel()

	service, _, ledgerRepo := newMockedMatchService(t)
	ledgerRepo.
		On("TryAdmit", mock.Anything, mock.AnythingOfType("ledger.Entry")).
		Return(false, errors.New("timeout")).
		Once()

	_, err := service.ProcessConfirmation(t.Context(), match.ConfirmationEvent{
		MatchID: "m1", EventID: "evt-1", PlayerID: "p1", Value: attendingValue(),
	})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestMatchService_IsDuplicate_LedgerFailureUsingMockery(t *testing.T) {
	t.Parallel()

	service, _, ledgerRepo := newMockedMatchService(t)
	key := ledger.Key{EventID: "evt-1", MatchID: "m1", PlayerID: "p1"}
	ledgerRepo.
		On("Seen", mock.Anything, key, tuesdayMorning).
		Return(false, errors.New("connection refused")).
		Once()

	_, err := service.IsDuplicate(t.Context(), match.ConfirmationEvent{
		MatchID: " m1 ", EventID: "evt-1", PlayerID: "p1", Value: attendingValue(),
	})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestMatchService_ProcessConfirmation_RejectsMalformedEventUsingMockery(t *testing.T) {
	t.Parallel()

	service, _, _ := newMockedMatchService(t)

	_, err := service.ProcessConfirmation(t.Context(), match.ConfirmationEvent{MatchID: "m1", EventID: "evt-1", PlayerID: "p1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchService_ResolveNextMatch_LostRaceReturnsWinnerUsingMockery(t *testing.T) {
	t.Parallel()

	service, matchRepo, _ := newMockedMatchService(t)
	team := tigers()
	winner := match.NewScheduled("match-winner", team.ID, time.Date(2026, 2, 5, 5, 0, 0, 0, time.UTC), tuesdayMorning)

	matchRepo.
		On("FindActiveByTeam", mock.Anything, team.ID).
		Return(match.Match{}, false, nil).
		Once()
	matchRepo.
		On("CreateScheduled", mock.Anything, mock.MatchedBy(func(m match.Match) bool { return m.ID == "match-new" })).
		Return(match.ErrActiveMatchExists).
		Once()
	matchRepo.
		On("FindActiveByTeam", mock.Anything, team.ID).
		Return(winner, true, nil).
		Once()

	got, created, err := service.ResolveNextMatch(t.Context(), team)
	if err != nil {
		t.Fatalf("resolve next match: %v", err)
	}
	if created {
		t.Fatalf("expected loser of the race to report wasCreated=false")
	}
	if got.ID != winner.ID {
		t.Fatalf("expected winner match %s, got %s", winner.ID, got.ID)
	}
}

func TestMatchService_ResolveNextMatch_GivesUpAfterRepeatedConflictsUsingMockery(t *testing.T) {
	t.Parallel()

	service, matchRepo, _ := newMockedMatchService(t)
	team := tigers()

	matchRepo.
		On("FindActiveByTeam", mock.Anything, team.ID).
		Return(match.Match{}, false, nil).
		Times(defaultCreateAttempts)
	matchRepo.
		On("CreateScheduled", mock.Anything, mock.AnythingOfType("match.Match")).
		Return(match.ErrActiveMatchExists).
		Times(defaultCreateAttempts)

	_, _, err := service.ResolveNextMatch(t.Context(), team)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMatchService_ResolveNextMatch_StoreFailureUsingMockery(t *testing.T) {
	t.Parallel()

	service, matchRepo, _ := newMockedMatchService(t)
	team := tigers()

	matchRepo.
		On("FindActiveByTeam", mock.Anything, team.ID).
		Return(match.Match{}, false, errors.New("pool exhausted")).
		Once()

	_, _, err := service.ResolveNextMatch(t.Context(), team)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
