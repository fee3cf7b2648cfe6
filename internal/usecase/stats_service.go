package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/team"
)

const DefaultStatsMinPlayers = 8

type PlayerAppearance struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Appearances int    `json:"appearances"`
}

type SeasonStats struct {
	TeamID       string             `json:"team_id"`
	Season       int                `json:"season"`
	MatchesCount int                `json:"matches_count"`
	Players      []PlayerAppearance `json:"players"`
}

// StatsService counts season appearances from completed matches. A match only
// counts when enough people attended for it to have been played.
type StatsService struct {
	teamRepo   team.Repository
	matchRepo  match.Repository
	minPlayers int
}

func NewStatsService(teamRepo team.Repository, matchRepo match.Repository, minPlayers int) *StatsService {
	if minPlayers <= 0 {
		minPlayers = DefaultStatsMinPlayers
	}
	return &StatsService{
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		minPlayers: minPlayers,
	}
}

func (s *StatsService) SeasonStats(ctx context.Context, teamID string, season int) (SeasonStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.SeasonStats", teamAttr(teamID))
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return SeasonStats{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if season < 2000 || season > 9999 {
		return SeasonStats{}, fmt.Errorf("%w: season must be a four digit year", ErrInvalidInput)
	}

	if _, exists, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return SeasonStats{}, dependencyError("get team", err)
	} else if !exists {
		return SeasonStats{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	from := time.Date(season, time.January, 1, 0, 0, 0, 0, time.UTC)
	matches, err := s.matchRepo.ListCompletedByTeam(ctx, teamID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return SeasonStats{}, dependencyError("list completed matches", err)
	}

	out := SeasonStats{TeamID: teamID, Season: season}
	appearances := make(map[string]int)
	names := make(map[string]string)
	for _, m := range matches {
		view := match.BuildView(m, "")
		if view.TotalAttending < s.minPlayers {
			continue
		}
		out.MatchesCount++
		for _, playerID := range view.AttendingPlayerIDs() {
			appearances[playerID]++
			if name := m.DisplayNames[playerID]; name != "" {
				names[playerID] = name
			}
		}
	}

	out.Players = make([]PlayerAppearance, 0, len(appearances))
	for playerID, count := range appearances {
		name := names[playerID]
		if name == "" {
			name = playerID
		}
		out.Players = append(out.Players, PlayerAppearance{PlayerID: playerID, Name: name, Appearances: count})
	}
	sort.Slice(out.Players, func(i, j int) bool {
		if out.Players[i].Appearances != out.Players[j].Appearances {
			return out.Players[i].Appearances > out.Players[j].Appearances
		}
		if out.Players[i].Name != out.Players[j].Name {
			return out.Players[i].Name < out.Players[j].Name
		}
		return out.Players[i].PlayerID < out.Players[j].PlayerID
	})

	return out, nil
}
