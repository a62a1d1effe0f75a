package builder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/soundstore/soundstore/pkg/registry"
	"github.com/soundstore/soundstore/pkg/runtime"
)

// Tx wraps a pgx transaction and provides query builder methods.
type Tx struct {
	tx  pgx.Tx
	ctx context.Context
}

// Begin starts a new transaction.
func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, ctx: ctx}, nil
}

// BeginTx starts a new transaction with custom options.
func (d *DB) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, txOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, ctx: ctx}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(t.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(t.ctx); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Exec executes raw SQL within the transaction.
func (t *Tx) Exec(sql string, args ...any) (int64, error) {
	tag, err := t.tx.Exec(t.ctx, sql, args...)
	if err != nil {
		return 0, &runtime.QueryError{Query: sql, Err: err}
	}
	return tag.RowsAffected(), nil
}

// TxSelect creates a new type-safe SELECT query within the transaction.
// Usage: builder.TxSelect[Product](tx).Where(...).All()
func TxSelect[T any](t *Tx) *TxSelectQuery[T] {
	var model T
	table, _ := registry.GetOrRegister(model)

	return &TxSelectQuery[T]{
		tx: t,
		q:  SelectQuery[T]{table: table, columns: []string{"*"}},
	}
}

// TxInsert creates a new type-safe INSERT query within the transaction.
// Usage: builder.TxInsert[Product](tx).Values(product).ExecReturning()
func TxInsert[T any](t *Tx) *TxInsertQuery[T] {
	var model T
	table, _ := registry.GetOrRegister(model)

	return &TxInsertQuery[T]{
		tx: t,
		q:  InsertQuery[T]{table: table},
	}
}

// TxUpdate creates a new type-safe UPDATE query within the transaction.
// Usage: builder.TxUpdate[Product](tx).Set("name", "Strat").Where(...).Exec()
func TxUpdate[T any](t *Tx) *TxUpdateQuery[T] {
	var model T
	table, _ := registry.GetOrRegister(model)

	return &TxUpdateQuery[T]{
		tx: t,
		q:  UpdateQuery[T]{table: table, sets: make(map[string]any)},
	}
}

// TxDelete creates a new type-safe DELETE query within the transaction.
// Usage: builder.TxDelete[Product](tx).Where(...).Exec()
func TxDelete[T any](t *Tx) *TxDeleteQuery[T] {
	var model T
	table, _ := registry.GetOrRegister(model)

	return &TxDeleteQuery[T]{
		tx: t,
		q:  DeleteQuery[T]{table: table},
	}
}

// TxSelectQuery represents a SELECT query within a transaction.
// It shares SQL generation with SelectQuery and executes on the
// transaction connection.
type TxSelectQuery[T any] struct {
	tx *Tx
	q  SelectQuery[T]
}

// Columns specifies which columns to select.
func (q *TxSelectQuery[T]) Columns(cols ...string) *TxSelectQuery[T] {
	q.q.Columns(cols...)
	return q
}

// Where adds a WHERE condition.
func (q *TxSelectQuery[T]) Where(condition Condition) *TxSelectQuery[T] {
	q.q.Where(condition)
	return q
}

// And adds an AND condition.
func (q *TxSelectQuery[T]) And(condition Condition) *TxSelectQuery[T] {
	q.q.And(condition)
	return q
}

// Or adds an OR condition.
func (q *TxSelectQuery[T]) Or(condition Condition) *TxSelectQuery[T] {
	q.q.Or(condition)
	return q
}

// OrderBy adds an ORDER BY clause.
func (q *TxSelectQuery[T]) OrderBy(column string, direction OrderDirection) *TxSelectQuery[T] {
	q.q.OrderBy(column, direction)
	return q
}

// Limit sets the LIMIT clause.
func (q *TxSelectQuery[T]) Limit(limit int) *TxSelectQuery[T] {
	q.q.Limit(limit)
	return q
}

// Offset sets the OFFSET clause.
func (q *TxSelectQuery[T]) Offset(offset int) *TxSelectQuery[T] {
	q.q.Offset(offset)
	return q
}

// ForUpdate adds FOR UPDATE lock.
func (q *TxSelectQuery[T]) ForUpdate() *TxSelectQuery[T] {
	q.q.ForUpdate()
	return q
}

// ToSQL generates the SQL query and arguments.
func (q *TxSelectQuery[T]) ToSQL() (string, []any, error) {
	return q.q.ToSQL()
}

// All executes the query and returns all results.
func (q *TxSelectQuery[T]) All() ([]T, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := q.tx.tx.Query(q.tx.ctx, sql, args...)
	if err != nil {
		return nil, &runtime.QueryError{Query: sql, Err: err}
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		var item T
		if err := scanIntoStruct(rows, &item, q.q.table); err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// First executes the query and returns the first result.
// Returns runtime.ErrNotFound when no row matches.
func (q *TxSelectQuery[T]) First() (*T, error) {
	q.Limit(1)

	results, err := q.All()
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, runtime.ErrNotFound
	}

	return &results[0], nil
}

// Count executes a COUNT query with the same WHERE conditions.
func (q *TxSelectQuery[T]) Count() (int64, error) {
	if q.q.table == nil {
		return 0, fmt.Errorf("table metadata not available")
	}

	sql := "SELECT COUNT(*) FROM " + q.q.table.Name

	var args []any
	if len(q.q.where) > 0 {
		whereBuilder := NewWhereBuilder()
		whereBuilder.conditions = q.q.where
		whereSql, whereArgs, err := whereBuilder.Build()
		if err != nil {
			return 0, err
		}
		if whereSql != "" {
			sql += " " + whereSql
			args = append(args, whereArgs...)
		}
	}

	var count int64
	if err := q.tx.tx.QueryRow(q.tx.ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any rows match the query.
func (q *TxSelectQuery[T]) Exists() (bool, error) {
	count, err := q.Count()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TxInsertQuery represents an INSERT query within a transaction.
type TxInsertQuery[T any] struct {
	tx *Tx
	q  InsertQuery[T]
}

// Values adds values to insert.
func (q *TxInsertQuery[T]) Values(values ...T) *TxInsertQuery[T] {
	q.q.Values(values...)
	return q
}

// Returning specifies columns to return.
func (q *TxInsertQuery[T]) Returning(columns ...string) *TxInsertQuery[T] {
	q.q.Returning(columns...)
	return q
}

// OnConflictDoNothing adds ON CONFLICT DO NOTHING clause.
func (q *TxInsertQuery[T]) OnConflictDoNothing(columns ...string) *TxInsertQuery[T] {
	q.q.OnConflictDoNothing(columns...)
	return q
}

// ToSQL generates the INSERT SQL and arguments.
func (q *TxInsertQuery[T]) ToSQL() (string, []any, error) {
	return q.q.ToSQL()
}

// Exec executes the INSERT query.
func (q *TxInsertQuery[T]) Exec() (int64, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return 0, err
	}

	if len(q.q.returning) == 0 {
		tag, err := q.tx.tx.Exec(q.tx.ctx, sql, args...)
		if err != nil {
			return 0, &runtime.QueryError{Query: sql, Err: err}
		}
		return tag.RowsAffected(), nil
	}

	rows, err := q.tx.tx.Query(q.tx.ctx, sql, args...)
	if err != nil {
		return 0, &runtime.QueryError{Query: sql, Err: err}
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		count++
	}

	return count, rows.Err()
}

// ExecReturning executes the INSERT and scans the RETURNING values.
func (q *TxInsertQuery[T]) ExecReturning() ([]T, error) {
	if len(q.q.returning) == 0 {
		q.Returning("*")
	}

	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := q.tx.tx.Query(q.tx.ctx, sql, args...)
	if err != nil {
		return nil, &runtime.QueryError{Query: sql, Err: err}
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		var item T
		if err := scanIntoStruct(rows, &item, q.q.table); err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// TxUpdateQuery represents an UPDATE query within a transaction.
type TxUpdateQuery[T any] struct {
	tx *Tx
	q  UpdateQuery[T]
}

// Set sets a single column value.
func (q *TxUpdateQuery[T]) Set(column string, value any) *TxUpdateQuery[T] {
	q.q.Set(column, value)
	return q
}

// SetMap sets multiple column values from a map.
func (q *TxUpdateQuery[T]) SetMap(values map[string]any) *TxUpdateQuery[T] {
	q.q.SetMap(values)
	return q
}

// Where adds a WHERE condition.
func (q *TxUpdateQuery[T]) Where(condition Condition) *TxUpdateQuery[T] {
	q.q.Where(condition)
	return q
}

// And adds an AND condition.
func (q *TxUpdateQuery[T]) And(condition Condition) *TxUpdateQuery[T] {
	q.q.And(condition)
	return q
}

// Returning specifies columns to return.
func (q *TxUpdateQuery[T]) Returning(columns ...string) *TxUpdateQuery[T] {
	q.q.Returning(columns...)
	return q
}

// ToSQL generates the UPDATE SQL and arguments.
func (q *TxUpdateQuery[T]) ToSQL() (string, []any, error) {
	return q.q.ToSQL()
}

// Exec executes the UPDATE query.
func (q *TxUpdateQuery[T]) Exec() (int64, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return 0, err
	}

	if len(q.q.returning) == 0 {
		tag, err := q.tx.tx.Exec(q.tx.ctx, sql, args...)
		if err != nil {
			return 0, &runtime.QueryError{Query: sql, Err: err}
		}
		return tag.RowsAffected(), nil
	}

	rows, err := q.tx.tx.Query(q.tx.ctx, sql, args...)
	if err != nil {
		return 0, &runtime.QueryError{Query: sql, Err: err}
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		count++
	}

	return count, rows.Err()
}

// TxDeleteQuery represents a DELETE query within a transaction.
type TxDeleteQuery[T any] struct {
	tx *Tx
	q  DeleteQuery[T]
}

// Where adds a WHERE condition.
func (q *TxDeleteQuery[T]) Where(condition Condition) *TxDeleteQuery[T] {
	q.q.Where(condition)
	return q
}

// And adds an AND condition.
func (q *TxDeleteQuery[T]) And(condition Condition) *TxDeleteQuery[T] {
	q.q.And(condition)
	return q
}

// Returning specifies columns to return.
func (q *TxDeleteQuery[T]) Returning(columns ...string) *TxDeleteQuery[T] {
	q.q.Returning(columns...)
	return q
}

// ToSQL generates the DELETE SQL and arguments.
func (q *TxDeleteQuery[T]) ToSQL() (string, []any, error) {
	return q.q.ToSQL()
}

// Exec executes the DELETE query.
func (q *TxDeleteQuery[T]) Exec() (int64, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return 0, err
	}

	tag, err := q.tx.tx.Exec(q.tx.ctx, sql, args...)
	if err != nil {
		return 0, &runtime.QueryError{Query: sql, Err: err}
	}
	return tag.RowsAffected(), nil
}
