package memory

import (
	"time"

	"github.com/riskibarqy/matchday/internal/domain/team"
)

const DemoTeamID = "demo-team"

// SeedTeams returns the team available when running without a database.
func SeedTeams(now time.Time) []team.Team {
	demo := team.New(DemoTeamID, "Demo Tigers", now)
	demo.Players = map[string]team.Player{
		"demo-player-1": {ID: "demo-player-1", Name: "Budi"},
		"demo-player-2": {ID: "demo-player-2", Name: "Andi"},
	}

	return []team.Team{demo}
}
