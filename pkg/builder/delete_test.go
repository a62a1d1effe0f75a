package builder

import (
	"reflect"
	"testing"

	"github.com/soundstore/soundstore/pkg/runtime"
)

func TestDeleteToSQL(t *testing.T) {
	db := New(&runtime.DB{})

	q := Delete[testProduct](db).Where(Eq("id", int64(9)))

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	if sql != "DELETE FROM test_products WHERE id = $1" {
		t.Errorf("ToSQL() sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{int64(9)}) {
		t.Errorf("ToSQL() args = %v", args)
	}
}

func TestDeleteWithoutWhere(t *testing.T) {
	db := New(&runtime.DB{})

	sql, args, err := Delete[testProduct](db).ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	if sql != "DELETE FROM test_products" {
		t.Errorf("ToSQL() sql = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("ToSQL() args = %v, want none", args)
	}
}

func TestDeleteReturning(t *testing.T) {
	db := New(&runtime.DB{})

	sql, _, err := Delete[testProduct](db).
		Where(Eq("status", 2)).
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}

	if sql != "DELETE FROM test_products WHERE status = $1 RETURNING id" {
		t.Errorf("ToSQL() sql = %q", sql)
	}
}
