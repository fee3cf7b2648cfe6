package postgres

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/match"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

const matchesOneScheduledPerTeam = "matches_one_scheduled_per_team"

var matchColumns = qb.Columns(matchTableModel{})

// MatchRepository keeps every lifecycle transition and confirmation write a
// single conditional statement; the partial unique index on SCHEDULED rows
// decides concurrent creates.
type MatchRepository struct {
	store
}

func NewMatchRepository(db *sqlx.DB, opts Options) *MatchRepository {
	return &MatchRepository{store: newStore(db, opts)}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	return r.getOne(ctx, "select match public_id="+matchID, qb.Eq("public_id", matchID))
}

func (r *MatchRepository) FindActiveByTeam(ctx context.Context, teamID string) (match.Match, bool, error) {
	return r.getOne(ctx, "select active match team_public_id="+teamID,
		qb.Eq("team_public_id", teamID),
		qb.EqLiteral("status", string(match.StatusScheduled)),
	)
}

func (r *MatchRepository) CreateScheduled(ctx context.Context, m match.Match) error {
	m.Status = match.StatusScheduled
	model, err := matchToRow(m)
	if err != nil {
		return err
	}
	builder, err := qb.InsertModel("matches", model)
	if err != nil {
		return crerr.Wrap(err, "build insert match query")
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build insert match query")
	}

	err = r.run(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query, args...)
		return err
	})
	if isUniqueViolation(err, matchesOneScheduledPerTeam) {
		return crerr.Wrapf(match.ErrActiveMatchExists, "team_public_id=%s", m.TeamID)
	}
	if err != nil {
		return crerr.Wrapf(err, "insert match public_id=%s", m.ID)
	}

	return nil
}

func (r *MatchRepository) Complete(ctx context.Context, matchID string, now time.Time) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("status", string(match.StatusCompleted)).
		Set("updated_at", now.UTC()).
		Where(
			qb.Eq("public_id", matchID),
			qb.EqLiteral("status", string(match.StatusScheduled)),
			qb.Lt("scheduled_at", now.UTC()),
		).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build complete match query")
	}

	return r.execAffected(ctx, "complete match public_id="+matchID, query, args)
}

func (r *MatchRepository) CancelPending(ctx context.Context, teamID string, now time.Time) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("status", string(match.StatusCancelled)).
		Set("updated_at", now.UTC()).
		Where(
			qb.Eq("team_public_id", teamID),
			qb.EqLiteral("status", string(match.StatusScheduled)),
			qb.Gte("scheduled_at", now.UTC()),
		).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build cancel pending match query")
	}

	return r.execAffected(ctx, "cancel pending match team_public_id="+teamID, query, args)
}

// ApplyConfirmation touches only the confirming player's keys, so concurrent
// confirmations from different players never overwrite each other.
func (r *MatchRepository) ApplyConfirmation(ctx context.Context, update match.ConfirmationUpdate, now time.Time) (match.Match, bool, error) {
	builder := qb.Update("matches")
	if update.Value != nil {
		confirmation, err := sonic.MarshalString(match.Confirmation{
			Value:      *update.Value,
			RecordedAt: update.RecordedAt.UTC(),
		})
		if err != nil {
			return match.Match{}, false, crerr.Wrap(err, "encode confirmation")
		}
		builder.SetExpr("squad", "jsonb_set(squad, ARRAY[?::text], ?::jsonb, true)", update.PlayerID, confirmation)
	}
	if update.GuestDelta != 0 {
		builder.SetExpr("extra_guests",
			"jsonb_set(extra_guests, ARRAY[?::text], to_jsonb(GREATEST(0, COALESCE((extra_guests ->> ?::text)::int, 0) + ?::int)), true)",
			update.PlayerID, update.PlayerID, update.GuestDelta,
		)
	}
	query, args, err := builder.
		SetExpr("display_names", "jsonb_set(display_names, ARRAY[?::text], to_jsonb(?::text), true)", update.PlayerID, update.PlayerName).
		Set("updated_at", update.RecordedAt.UTC()).
		Where(
			qb.Eq("public_id", update.MatchID),
			qb.EqLiteral("status", string(match.StatusScheduled)),
			qb.Gte("scheduled_at", now.UTC()),
		).
		Returning(matchColumns...).
		ToSQL()
	if err != nil {
		return match.Match{}, false, crerr.Wrap(err, "build apply confirmation query")
	}

	var row matchTableModel
	err = r.run(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &row, query, args...)
	})
	if isNotFound(err) {
		return match.Match{}, false, nil
	}
	if err != nil {
		return match.Match{}, false, crerr.Wrapf(err, "apply confirmation match=%s player=%s", update.MatchID, update.PlayerID)
	}

	updated, err := matchFromRow(row)
	if err != nil {
		return match.Match{}, false, err
	}
	return updated, true, nil
}

func (r *MatchRepository) LinkMessage(ctx context.Context, matchID, messageID string) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("linked_message_id", messageID).
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build link match message query")
	}

	return r.execAffected(ctx, "link message of match public_id="+matchID, query, args)
}

func (r *MatchRepository) ListCompletedByTeam(ctx context.Context, teamID string, from, to time.Time) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.EqLiteral("status", string(match.StatusCompleted)),
			qb.Gte("scheduled_at", from.UTC()),
			qb.Lt("scheduled_at", to.UTC()),
		).
		OrderBy("scheduled_at").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select completed matches query")
	}

	var rows []matchTableModel
	err = r.run(ctx, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, crerr.Wrapf(err, "select completed matches team_public_id=%s", teamID)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := matchFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *MatchRepository) getOne(ctx context.Context, op string, conditions ...qb.Condition) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(conditions...).
		OrderBy("scheduled_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, crerr.Wrapf(err, "build %s query", op)
	}

	var row matchTableModel
	err = r.run(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &row, query, args...)
	})
	if isNotFound(err) {
		return match.Match{}, false, nil
	}
	if err != nil {
		return match.Match{}, false, crerr.Wrap(err, op)
	}

	item, err := matchFromRow(row)
	if err != nil {
		return match.Match{}, false, err
	}
	return item, true, nil
}

func (r *MatchRepository) execAffected(ctx context.Context, op, query string, args []any) (bool, error) {
	var affected int64
	err := r.run(ctx, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, crerr.Wrap(err, op)
	}

	return affected > 0, nil
}
