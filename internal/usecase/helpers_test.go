package usecase

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/team"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type sequentialIDGenerator struct {
	prefix string
	next   atomic.Int64
}

func (g *sequentialIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("%s-%03d", g.prefix, g.next.Add(1)), nil
}

// tuesdayMorning is 2026-02-03 04:01 UTC; the default schedule's next slot is Thursday 05:00.
var tuesdayMorning = time.Date(2026, 2, 3, 4, 1, 0, 0, time.UTC)

type memoryFixture struct {
	teams   *memory.TeamRepository
	matches *memory.MatchRepository
	ledger  *memory.LedgerRepository
	service *MatchService
	now     time.Time
}

func newMemoryFixture(teams ...team.Team) *memoryFixture {
	f := &memoryFixture{
		teams:   memory.NewTeamRepository(teams),
		matches: memory.NewMatchRepository(),
		ledger:  memory.NewLedgerRepository(),
		now:     tuesdayMorning,
	}
	f.service = NewMatchService(
		f.teams,
		f.matches,
		f.ledger,
		&sequentialIDGenerator{prefix: "match"},
		MatchServiceConfig{},
		logging.NewNop(),
	)
	f.service.now = func() time.Time { return f.now }
	return f
}

func tigers() team.Team {
	return team.New("team-tigers", "Tigers", tuesdayMorning.Add(-30*24*time.Hour))
}

func attendingValue() *match.ConfirmationValue {
	v := match.ConfirmationAttending
	return &v
}

func absentValue() *match.ConfirmationValue {
	v := match.ConfirmationAbsent
	return &v
}

func guests(n int) *int {
	return &n
}
