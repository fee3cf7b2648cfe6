package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/team"
)

// BootstrapSeed inserts teams into an empty teams table.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, teams []team.Team) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range teams {
		row, err := teamToRow(t)
		if err != nil {
			return fmt.Errorf("encode seed team %s: %w", t.ID, err)
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, name, schedule, players, created_at, updated_at)
VALUES (:public_id, :name, :schedule, :players, :created_at, :updated_at)
ON CONFLICT (public_id) DO NOTHING`, row)
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
