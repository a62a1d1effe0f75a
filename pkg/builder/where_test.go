package builder

import (
	"reflect"
	"strings"
	"testing"
)

func TestWhereBuilderBuild(t *testing.T) {
	tests := []struct {
		name     string
		conds    []Condition
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "empty",
			conds:    nil,
			wantSQL:  "",
			wantArgs: nil,
		},
		{
			name:     "single equality",
			conds:    []Condition{Eq("name", "Fender")},
			wantSQL:  "WHERE name = $1",
			wantArgs: []any{"Fender"},
		},
		{
			name:     "two conditions default AND",
			conds:    []Condition{Eq("name", "Fender"), Gt("price", 100)},
			wantSQL:  "WHERE name = $1 AND price > $2",
			wantArgs: []any{"Fender", 100},
		},
		{
			name:     "or condition",
			conds:    []Condition{Eq("status", 0), Or(Eq("status", 1))},
			wantSQL:  "WHERE status = $1 OR status = $2",
			wantArgs: []any{0, 1},
		},
		{
			name:     "negated condition",
			conds:    []Condition{Not(Eq("status", 2))},
			wantSQL:  "WHERE NOT (status = $1)",
			wantArgs: []any{2},
		},
		{
			name:     "in condition",
			conds:    []Condition{In("id", 1, 2, 3)},
			wantSQL:  "WHERE id IN ($1, $2, $3)",
			wantArgs: []any{1, 2, 3},
		},
		{
			name:     "is null",
			conds:    []Condition{IsNull("category_id")},
			wantSQL:  "WHERE category_id IS NULL",
			wantArgs: nil,
		},
		{
			name:     "between",
			conds:    []Condition{Between("price", 10, 20)},
			wantSQL:  "WHERE price BETWEEN $1 AND $2",
			wantArgs: []any{10, 20},
		},
		{
			name:     "grouped conditions",
			conds:    []Condition{Eq("status", 0), Group(Eq("name", "a"), Or(Eq("name", "b")))},
			wantSQL:  "WHERE status = $1 AND (name = $2 OR name = $3)",
			wantArgs: []any{0, "a", "b"},
		},
		{
			name:     "like",
			conds:    []Condition{ILike("name", "%bass%")},
			wantSQL:  "WHERE name ILIKE $1",
			wantArgs: []any{"%bass%"},
		},
		{
			name:     "folded equality keeps metacharacters literal",
			conds:    []Condition{EqFold("name", "a_c%")},
			wantSQL:  "WHERE lower(name) = lower($1)",
			wantArgs: []any{"a_c%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilder()
			wb.conditions = tt.conds

			sql, args, err := wb.Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("Build() sql = %q, want %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("Build() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestWhereBuilderParamStart(t *testing.T) {
	wb := NewWhereBuilderWithStart(3)
	wb.Add(Eq("name", "x"))
	wb.Add(Gt("price", 5))

	sql, args, err := wb.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if sql != "WHERE name = $3 AND price > $4" {
		t.Errorf("Build() sql = %q", sql)
	}
	if len(args) != 2 {
		t.Errorf("Build() returned %d args, want 2", len(args))
	}
}

func TestWhereBuilderEmptyIn(t *testing.T) {
	wb := NewWhereBuilder()
	wb.Add(In("id"))

	if _, _, err := wb.Build(); err == nil {
		t.Error("Build() with empty IN expected error, got nil")
	}
}

func TestWhereBuilderUnknownOperator(t *testing.T) {
	wb := NewWhereBuilder()
	wb.Add(Condition{Column: "x", Operator: Operator("BOGUS"), Value: 1})

	_, _, err := wb.Build()
	if err == nil || !strings.Contains(err.Error(), "unknown operator") {
		t.Errorf("Build() error = %v, want unknown operator", err)
	}
}
