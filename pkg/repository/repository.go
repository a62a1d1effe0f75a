// Package repository provides a generic staged-write repository over the
// query builder. Mutations accumulate in memory and are applied in one
// transaction when the owning unit of work saves.
package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/fault"
	"github.com/soundstore/soundstore/pkg/registry"
	"github.com/soundstore/soundstore/pkg/runtime"
	"github.com/soundstore/soundstore/pkg/schema"
)

type opKind int

const (
	opAdd opKind = iota
	opUpdate
	opDelete
)

type mutation[T any] struct {
	kind   opKind
	entity T
}

// Repository stages create/update/delete operations for a single entity
// type and exposes read access through the query builder. It is not safe
// for concurrent use; a unit of work owns one instance per type.
type Repository[T any] struct {
	db     *builder.DB
	table  *schema.TableMetadata
	staged []mutation[T]
}

// New creates a repository for T backed by db.
func New[T any](db *builder.DB) (*Repository[T], error) {
	var model T
	table, err := registry.GetOrRegister(model)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve metadata for %T: %w", model, err)
	}

	return &Repository[T]{db: db, table: table}, nil
}

// Add stages an entity for insertion.
func (r *Repository[T]) Add(entity T) {
	r.staged = append(r.staged, mutation[T]{kind: opAdd, entity: entity})
}

// AddRange stages multiple entities for insertion.
func (r *Repository[T]) AddRange(entities ...T) {
	for _, e := range entities {
		r.Add(e)
	}
}

// Update stages an entity for update by primary key.
func (r *Repository[T]) Update(entity T) {
	r.staged = append(r.staged, mutation[T]{kind: opUpdate, entity: entity})
}

// UpdateRange stages multiple entities for update.
func (r *Repository[T]) UpdateRange(entities ...T) {
	for _, e := range entities {
		r.Update(e)
	}
}

// Delete stages an entity for deletion by primary key.
func (r *Repository[T]) Delete(entity T) {
	r.staged = append(r.staged, mutation[T]{kind: opDelete, entity: entity})
}

// DeleteRange stages multiple entities for deletion.
func (r *Repository[T]) DeleteRange(entities ...T) {
	for _, e := range entities {
		r.Delete(e)
	}
}

// Pending reports the number of staged mutations.
func (r *Repository[T]) Pending() int {
	return len(r.staged)
}

// Query returns a fresh SELECT query over the live set. Staged mutations
// are not visible to queries until saved.
func (r *Repository[T]) Query() *builder.SelectQuery[T] {
	return builder.Select[T](r.db)
}

// FindByID fetches an entity by primary key. Composite keys take one
// value per key column in declaration order. Returns fault.ErrNotFound
// when no row matches.
func (r *Repository[T]) FindByID(ctx context.Context, keys ...any) (*T, error) {
	pkCols := r.table.PrimaryKeyColumns()
	if len(pkCols) == 0 {
		return nil, runtime.ErrNoPrimaryKey
	}
	if len(keys) != len(pkCols) {
		return nil, fmt.Errorf("expected %d key value(s) for %s, got %d", len(pkCols), r.table.Name, len(keys))
	}

	q := r.Query()
	for i, col := range pkCols {
		q.Where(builder.Eq(col.Name, keys[i]))
	}

	entity, err := q.First(ctx)
	if err != nil {
		if errors.Is(err, runtime.ErrNotFound) {
			return nil, fault.NotFound("%s with the given id was not found", r.table.Name)
		}
		return nil, err
	}

	return entity, nil
}

// Flush applies staged mutations in call order inside tx and returns the
// number of affected rows. Staged state is kept so a failed transaction
// can be retried; the unit of work resets on commit.
func (r *Repository[T]) Flush(tx *builder.Tx) (int64, error) {
	var total int64

	for _, m := range r.staged {
		var affected int64
		var err error

		switch m.kind {
		case opAdd:
			affected, err = builder.TxInsert[T](tx).Values(m.entity).Exec()
		case opUpdate:
			affected, err = r.flushUpdate(tx, m.entity)
		case opDelete:
			affected, err = r.flushDelete(tx, m.entity)
		}

		if err != nil {
			return 0, err
		}
		total += affected
	}

	return total, nil
}

// Reset discards all staged mutations.
func (r *Repository[T]) Reset() {
	r.staged = nil
}

func (r *Repository[T]) flushUpdate(tx *builder.Tx, entity T) (int64, error) {
	q := builder.TxUpdate[T](tx)

	value := reflect.ValueOf(entity)
	for value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	for _, col := range r.table.Columns {
		if r.table.IsPrimaryKey(col.Name) {
			continue
		}
		field := value.FieldByName(col.GoField)
		if !field.IsValid() {
			continue
		}
		q.Set(col.Name, field.Interface())
	}

	if err := r.wherePrimaryKey(entity, func(c builder.Condition) { q.Where(c) }); err != nil {
		return 0, err
	}

	return q.Exec()
}

func (r *Repository[T]) flushDelete(tx *builder.Tx, entity T) (int64, error) {
	q := builder.TxDelete[T](tx)

	if err := r.wherePrimaryKey(entity, func(c builder.Condition) { q.Where(c) }); err != nil {
		return 0, err
	}

	return q.Exec()
}

// wherePrimaryKey adds an equality condition per primary key column,
// taking values from the entity itself.
func (r *Repository[T]) wherePrimaryKey(entity T, add func(builder.Condition)) error {
	pkCols := r.table.PrimaryKeyColumns()
	if len(pkCols) == 0 {
		return runtime.ErrNoPrimaryKey
	}

	value := reflect.ValueOf(entity)
	for value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	for _, col := range pkCols {
		field := value.FieldByName(col.GoField)
		if !field.IsValid() {
			return fmt.Errorf("primary key field %s not found on %s", col.GoField, r.table.Name)
		}
		add(builder.Eq(col.Name, field.Interface()))
	}

	return nil
}
