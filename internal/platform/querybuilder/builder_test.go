package querybuilder

import (
	"reflect"
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "scheduled_at").
		From("matches").
		Where(Eq("team_public_id", "t1"), EqLiteral("status", "COMPLETED"), Gte("scheduled_at", 10), Lt("scheduled_at", 20)).
		OrderBy("scheduled_at").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, scheduled_at FROM matches WHERE team_public_id = $1 AND status = 'COMPLETED' AND scheduled_at >= $2 AND scheduled_at < $3 ORDER BY scheduled_at LIMIT 5"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{"t1", 10, 20}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("public_id", "name").
		Values("t1", "Tigers").
		Suffix("ON CONFLICT (public_id) DO NOTHING").
		Returning("public_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (public_id, name) VALUES ($1, $2) ON CONFLICT (public_id) DO NOTHING RETURNING public_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "t1" || args[1] != "Tigers" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertInto("teams").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected error for mismatched values")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("status", "CANCELLED").
		SetExpr("extra_guests", "jsonb_set(extra_guests, ARRAY[?]::text[], to_jsonb(?::int), true)", "p1", 2).
		Where(Eq("public_id", "m1"), Expr("scheduled_at >= ?", 9)).
		Returning("public_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET status = $1, extra_guests = jsonb_set(extra_guests, ARRAY[$2]::text[], to_jsonb($3::int), true) WHERE public_id = $4 AND scheduled_at >= $5 RETURNING public_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{"CANCELLED", "p1", 2, "m1", 9}) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := Update("matches").Set("status", "x").ToSQL(); err == nil {
		t.Fatalf("expected error for update without where")
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("confirmation_ledger").
		Where(Lte("retained_until", 7)).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM confirmation_ledger WHERE retained_until <= $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != 7 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("confirmation_ledger").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without where")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID        int64     `db:"id,readonly"`
		PublicID  string    `db:"public_id"`
		Ignored   string    `db:"-"`
		CreatedAt time.Time `db:"created_at"`
		hidden    string
	}
	at := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	builder, err := InsertModel("teams", row{ID: 9, PublicID: "t1", CreatedAt: at, hidden: "x"})
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}
	if query != "INSERT INTO teams (public_id, created_at) VALUES ($1, $2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[0] != "t1" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if got := Columns(row{}); !reflect.DeepEqual(got, []string{"id", "public_id", "created_at"}) {
		t.Fatalf("unexpected columns: %v", got)
	}
}
