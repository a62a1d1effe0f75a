package builder

import (
	"reflect"
	"testing"

	"github.com/soundstore/soundstore/pkg/runtime"
)

func TestInsertToSQL(t *testing.T) {
	db := New(&runtime.DB{})

	catID := int64(4)
	q := Insert[testProduct](db).Values(testProduct{
		Name:       "Jazz Bass",
		Price:      1299,
		Status:     1,
		CategoryID: &catID,
	})

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	wantSQL := "INSERT INTO test_products (name, price, status, category_id) VALUES ($1, $2, $3, $4)"
	if sql != wantSQL {
		t.Errorf("ToSQL() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 4 {
		t.Fatalf("ToSQL() returned %d args, want 4", len(args))
	}
	if args[0] != "Jazz Bass" {
		t.Errorf("args[0] = %v, want Jazz Bass", args[0])
	}
}

func TestInsertMultiRow(t *testing.T) {
	db := New(&runtime.DB{})

	q := Insert[testProduct](db).Values(
		testProduct{Name: "a", Price: 1, Status: 1},
		testProduct{Name: "b", Price: 2, Status: 1},
	)

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	wantSQL := "INSERT INTO test_products (name, price, status, category_id) VALUES ($1, $2, $3, $4), ($5, $6, $7, $8)"
	if sql != wantSQL {
		t.Errorf("ToSQL() sql = %q, want %q", sql, wantSQL)
	}
	wantArgs := []any{"a", int64(1), 1, (*int64)(nil), "b", int64(2), 1, (*int64)(nil)}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("ToSQL() args = %v, want %v", args, wantArgs)
	}
}

func TestInsertReturning(t *testing.T) {
	db := New(&runtime.DB{})

	q := Insert[testProduct](db).
		Values(testProduct{Name: "a", Price: 1, Status: 1}).
		Returning("id")

	sql, _, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	wantSQL := "INSERT INTO test_products (name, price, status, category_id) VALUES ($1, $2, $3, $4) RETURNING id"
	if sql != wantSQL {
		t.Errorf("ToSQL() sql = %q, want %q", sql, wantSQL)
	}
}

func TestInsertOnConflictDoNothing(t *testing.T) {
	db := New(&runtime.DB{})

	q := Insert[testProduct](db).
		Values(testProduct{Name: "a", Price: 1, Status: 1}).
		OnConflictDoNothing("name")

	sql, _, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	wantSQL := "INSERT INTO test_products (name, price, status, category_id) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING"
	if sql != wantSQL {
		t.Errorf("ToSQL() sql = %q, want %q", sql, wantSQL)
	}
}

func TestInsertNoValues(t *testing.T) {
	db := New(&runtime.DB{})

	if _, _, err := Insert[testProduct](db).ToSQL(); err == nil {
		t.Error("ToSQL() with no values expected error, got nil")
	}
}

type testTicket struct {
	ID    int64  `db:"id,primaryKey,serial"`
	Code  string `db:"code,notNull"`
	State int    `db:"state,default(0)"`
}

func TestInsertMultiRowDefaultColumnAlignment(t *testing.T) {
	db := New(&runtime.DB{})

	// state is zero in the first row only; the column must still be
	// present for every row so placeholders line up.
	q := Insert[testTicket](db).Values(
		testTicket{Code: "a"},
		testTicket{Code: "b", State: 2},
	)

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	wantSQL := "INSERT INTO test_tickets (code, state) VALUES ($1, $2), ($3, $4)"
	if sql != wantSQL {
		t.Errorf("ToSQL() sql = %q, want %q", sql, wantSQL)
	}
	wantArgs := []any{"a", 0, "b", 2}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("ToSQL() args = %v, want %v", args, wantArgs)
	}
}

func TestInsertDefaultColumnOmittedWhenUnsetEverywhere(t *testing.T) {
	db := New(&runtime.DB{})

	q := Insert[testTicket](db).Values(
		testTicket{Code: "a"},
		testTicket{Code: "b"},
	)

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	wantSQL := "INSERT INTO test_tickets (code) VALUES ($1), ($2)"
	if sql != wantSQL {
		t.Errorf("ToSQL() sql = %q, want %q", sql, wantSQL)
	}
	wantArgs := []any{"a", "b"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("ToSQL() args = %v, want %v", args, wantArgs)
	}
}
