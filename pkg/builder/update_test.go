package builder

import (
	"reflect"
	"testing"

	"github.com/soundstore/soundstore/pkg/runtime"
)

func TestUpdateToSQL(t *testing.T) {
	db := New(&runtime.DB{})

	q := Update[testProduct](db).
		Set("name", "Precision Bass").
		Set("price", 1499).
		Where(Eq("id", int64(3)))

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	wantSQL := "UPDATE test_products SET name = $1, price = $2 WHERE id = $3"
	if sql != wantSQL {
		t.Errorf("ToSQL() sql = %q, want %q", sql, wantSQL)
	}
	wantArgs := []any{"Precision Bass", 1499, int64(3)}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("ToSQL() args = %v, want %v", args, wantArgs)
	}
}

func TestUpdateSetOverwrite(t *testing.T) {
	db := New(&runtime.DB{})

	q := Update[testProduct](db).
		Set("status", 1).
		Set("status", 2)

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	if sql != "UPDATE test_products SET status = $1" {
		t.Errorf("ToSQL() sql = %q", sql)
	}
	if args[0] != 2 {
		t.Errorf("args[0] = %v, want 2", args[0])
	}
}

func TestUpdateReturning(t *testing.T) {
	db := New(&runtime.DB{})

	q := Update[testProduct](db).
		Set("status", 2).
		Where(Eq("id", int64(1))).
		Returning("*")

	sql, _, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	wantSQL := "UPDATE test_products SET status = $1 WHERE id = $2 RETURNING *"
	if sql != wantSQL {
		t.Errorf("ToSQL() sql = %q, want %q", sql, wantSQL)
	}
}

func TestUpdateNoColumns(t *testing.T) {
	db := New(&runtime.DB{})

	if _, _, err := Update[testProduct](db).ToSQL(); err == nil {
		t.Error("ToSQL() with no SET columns expected error, got nil")
	}
}
