package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/ledger"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

type ledgerInsertModel struct {
	EventID       string    `db:"event_id"`
	MatchID       string    `db:"match_public_id"`
	PlayerID      string    `db:"player_id"`
	RecordedAt    time.Time `db:"recorded_at"`
	RetainedUntil time.Time `db:"retained_until"`
}

// LedgerRepository records processed confirmation events. The primary key on
// (event_id, match_public_id, player_id) makes admission a single upsert: a
// live row blocks the insert, an expired one is taken over in place.
type LedgerRepository struct {
	store
}

func NewLedgerRepository(db *sqlx.DB, opts Options) *LedgerRepository {
	return &LedgerRepository{store: newStore(db, opts)}
}

func (r *LedgerRepository) TryAdmit(ctx context.Context, entry ledger.Entry) (bool, error) {
	if err := entry.Key.Validate(); err != nil {
		return false, err
	}

	builder, err := qb.InsertModel("confirmation_ledger", ledgerInsertModel{
		EventID:       entry.Key.EventID,
		MatchID:       entry.Key.MatchID,
		PlayerID:      entry.Key.PlayerID,
		RecordedAt:    entry.RecordedAt.UTC(),
		RetainedUntil: entry.RetainedUntil.UTC(),
	})
	if err != nil {
		return false, crerr.Wrap(err, "build admit ledger query")
	}
	query, args, err := builder.
		Suffix(`ON CONFLICT (event_id, match_public_id, player_id) DO UPDATE SET
    recorded_at = EXCLUDED.recorded_at,
    retained_until = EXCLUDED.retained_until
WHERE confirmation_ledger.retained_until <= EXCLUDED.recorded_at`).
		Returning("event_id").
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build admit ledger query")
	}

	var eventID string
	err = r.run(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &eventID, query, args...)
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, crerr.Wrapf(err, "admit ledger key %s", entry.Key)
	}

	return true, nil
}

func (r *LedgerRepository) Seen(ctx context.Context, key ledger.Key, now time.Time) (bool, error) {
	query, args, err := qb.Select("1").
		From("confirmation_ledger").
		Where(
			qb.Eq("event_id", key.EventID),
			qb.Eq("match_public_id", key.MatchID),
			qb.Eq("player_id", key.PlayerID),
			qb.Expr("retained_until > ?", now.UTC()),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build seen ledger query")
	}

	var one int
	err = r.run(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &one, query, args...)
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, crerr.Wrapf(err, "lookup ledger key %s", key)
	}

	return true, nil
}

func (r *LedgerRepository) Release(ctx context.Context, key ledger.Key) error {
	query, args, err := qb.DeleteFrom("confirmation_ledger").
		Where(
			qb.Eq("event_id", key.EventID),
			qb.Eq("match_public_id", key.MatchID),
			qb.Eq("player_id", key.PlayerID),
		).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build release ledger query")
	}

	err = r.run(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return crerr.Wrapf(err, "release ledger key %s", key)
	}

	return nil
}

func (r *LedgerRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := qb.DeleteFrom("confirmation_ledger").
		Where(qb.Lte("retained_until", now.UTC())).
		ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build purge ledger query")
	}

	var purged int64
	err = r.run(ctx, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		purged, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, crerr.Wrap(err, "purge expired ledger keys")
	}

	return purged, nil
}
