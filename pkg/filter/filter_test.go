package filter

import (
	"reflect"
	"testing"

	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/runtime"
)

type testSpeaker struct {
	ID         int64  `db:"id,primaryKey,serial"`
	Name       string `db:"name,notNull"`
	Status     int    `db:"status"`
	CategoryID *int64 `db:"category_id"`
	Untagged   string
}

type speakerFilter struct {
	Name       string
	Status     int
	CategoryID *int64
	Untagged   string // entity field exists but is not a column
	Nonexist   string // no matching entity field
	unexported string
}

func newQuery() *builder.SelectQuery[testSpeaker] {
	return builder.Select[testSpeaker](builder.New(&runtime.DB{}))
}

func TestApply(t *testing.T) {
	catID := int64(3)

	tests := []struct {
		name     string
		filter   any
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "all zero yields unchanged query",
			filter:   speakerFilter{},
			wantSQL:  "SELECT * FROM test_speakers",
			wantArgs: nil,
		},
		{
			name:     "single string match",
			filter:   speakerFilter{Name: "JBL"},
			wantSQL:  "SELECT * FROM test_speakers WHERE name = $1",
			wantArgs: []any{"JBL"},
		},
		{
			name:     "multiple matches are ANDed",
			filter:   speakerFilter{Name: "JBL", Status: 1},
			wantSQL:  "SELECT * FROM test_speakers WHERE name = $1 AND status = $2",
			wantArgs: []any{"JBL", 1},
		},
		{
			name:     "pointer field dereferenced",
			filter:   speakerFilter{CategoryID: &catID},
			wantSQL:  "SELECT * FROM test_speakers WHERE category_id = $1",
			wantArgs: []any{int64(3)},
		},
		{
			name:     "unmatched and non-column fields skipped",
			filter:   speakerFilter{Untagged: "x", Nonexist: "y", unexported: "z"},
			wantSQL:  "SELECT * FROM test_speakers",
			wantArgs: nil,
		},
		{
			name:     "pointer to filter struct",
			filter:   &speakerFilter{Name: "JBL"},
			wantSQL:  "SELECT * FROM test_speakers WHERE name = $1",
			wantArgs: []any{"JBL"},
		},
		{
			name:     "nil filter pointer",
			filter:   (*speakerFilter)(nil),
			wantSQL:  "SELECT * FROM test_speakers",
			wantArgs: nil,
		},
		{
			name:     "non-struct filter ignored",
			filter:   42,
			wantSQL:  "SELECT * FROM test_speakers",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Apply(newQuery(), tt.filter)

			sql, args, err := q.ToSQL()
			if err != nil {
				t.Fatalf("ToSQL() error = %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestTypeMismatchSkipped(t *testing.T) {
	type badFilter struct {
		Name   int // entity Name is string
		Status int
	}

	q := Apply(newQuery(), badFilter{Name: 7, Status: 1})

	sql, args, err := q.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL() error = %v", err)
	}
	if sql != "SELECT * FROM test_speakers WHERE status = $1" {
		t.Errorf("sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{1}) {
		t.Errorf("args = %v", args)
	}
}

func TestPlanIsCached(t *testing.T) {
	Apply(newQuery(), speakerFilter{Name: "a"})

	key := planKey{
		filterType: reflect.TypeOf(speakerFilter{}),
		entityType: reflect.TypeOf(testSpeaker{}),
	}

	planMu.RLock()
	first, ok := plans[key]
	planMu.RUnlock()
	if !ok {
		t.Fatal("plan was not cached after Apply")
	}

	Apply(newQuery(), speakerFilter{Status: 2})

	planMu.RLock()
	second := plans[key]
	planMu.RUnlock()

	if &first[0] != &second[0] {
		t.Error("plan was recomputed instead of reused")
	}
}
