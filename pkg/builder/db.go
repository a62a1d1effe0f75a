package builder

import (
	"github.com/soundstore/soundstore/pkg/registry"
	"github.com/soundstore/soundstore/pkg/runtime"
)

// DB wraps runtime.DB and provides query builder methods.
type DB struct {
	db *runtime.DB
}

// New creates a new query builder DB from a runtime DB.
func New(db *runtime.DB) *DB {
	return &DB{db: db}
}

// Runtime returns the underlying runtime.DB.
func (d *DB) Runtime() *runtime.DB {
	return d.db
}

// Select creates a new type-safe SELECT query.
// Usage: builder.Select[Product](db).Where(...).All(ctx)
func Select[T any](d *DB) *SelectQuery[T] {
	var model T

	table, err := registry.GetOrRegister(model)
	if err != nil {
		return &SelectQuery[T]{db: d}
	}

	return &SelectQuery[T]{
		db:      d,
		table:   table,
		columns: []string{"*"},
	}
}

// Insert creates a new type-safe INSERT query.
// Usage: builder.Insert[Product](db).Values(product).Exec(ctx)
func Insert[T any](d *DB) *InsertQuery[T] {
	var model T

	table, err := registry.GetOrRegister(model)
	if err != nil {
		return &InsertQuery[T]{db: d}
	}

	return &InsertQuery[T]{
		db:    d,
		table: table,
	}
}

// Update creates a new type-safe UPDATE query.
// Usage: builder.Update[Product](db).Set("name", "Strat").Where(...).Exec(ctx)
func Update[T any](d *DB) *UpdateQuery[T] {
	var model T

	table, err := registry.GetOrRegister(model)
	if err != nil {
		return &UpdateQuery[T]{db: d}
	}

	return &UpdateQuery[T]{
		db:    d,
		table: table,
		sets:  make(map[string]any),
	}
}

// Delete creates a new type-safe DELETE query.
// Usage: builder.Delete[Product](db).Where(...).Exec(ctx)
func Delete[T any](d *DB) *DeleteQuery[T] {
	var model T

	table, err := registry.GetOrRegister(model)
	if err != nil {
		return &DeleteQuery[T]{db: d}
	}

	return &DeleteQuery[T]{
		db:    d,
		table: table,
	}
}
