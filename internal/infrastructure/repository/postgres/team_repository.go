package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/schedule"
	"github.com/riskibarqy/matchday/internal/domain/team"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

var teamColumns = qb.Columns(teamTableModel{})

type TeamRepository struct {
	store
}

func NewTeamRepository(db *sqlx.DB, opts Options) *TeamRepository {
	return &TeamRepository{store: newStore(db, opts)}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").
		Where(qb.Eq("public_id", teamID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, crerr.Wrap(err, "build select team query")
	}

	var row teamTableModel
	err = r.run(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &row, query, args...)
	})
	if isNotFound(err) {
		return team.Team{}, false, nil
	}
	if err != nil {
		return team.Team{}, false, crerr.Wrapf(err, "select team public_id=%s", teamID)
	}

	item, err := teamFromRow(row)
	if err != nil {
		return team.Team{}, false, err
	}
	return item, true, nil
}

// Create inserts t unless a team with the same public id exists, in which
// case the stored team is returned untouched.
func (r *TeamRepository) Create(ctx context.Context, t team.Team) (team.Team, bool, error) {
	model, err := teamToRow(t)
	if err != nil {
		return team.Team{}, false, err
	}
	builder, err := qb.InsertModel("teams", model)
	if err != nil {
		return team.Team{}, false, crerr.Wrap(err, "build insert team query")
	}
	query, args, err := builder.
		Suffix("ON CONFLICT (public_id) DO NOTHING").
		Returning(teamColumns...).
		ToSQL()
	if err != nil {
		return team.Team{}, false, crerr.Wrap(err, "build insert team query")
	}

	var row teamTableModel
	err = r.run(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &row, query, args...)
	})
	if isNotFound(err) {
		existing, exists, getErr := r.GetByID(ctx, t.ID)
		if getErr != nil {
			return team.Team{}, false, getErr
		}
		if !exists {
			return team.Team{}, false, crerr.Newf("team public_id=%s conflicted but is missing", t.ID)
		}
		return existing, false, nil
	}
	if err != nil {
		return team.Team{}, false, crerr.Wrapf(err, "insert team public_id=%s", t.ID)
	}

	created, err := teamFromRow(row)
	if err != nil {
		return team.Team{}, false, err
	}
	return created, true, nil
}

func (r *TeamRepository) UpdateSchedule(ctx context.Context, teamID string, slots []schedule.WeeklySlot, now time.Time) (bool, error) {
	scheduleJSON, err := encodeSchedule(slots)
	if err != nil {
		return false, err
	}
	query, args, err := qb.Update("teams").
		Set("schedule", scheduleJSON).
		Set("updated_at", now.UTC()).
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return false, crerr.Wrap(err, "build update team schedule query")
	}

	var affected int64
	err = r.run(ctx, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, crerr.Wrapf(err, "update schedule of team public_id=%s", teamID)
	}

	return affected > 0, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build select teams query")
	}

	var rows []teamTableModel
	err = r.run(ctx, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, crerr.Wrap(err, "select teams")
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		item, err := teamFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}
