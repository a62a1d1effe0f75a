// Package uow implements a unit of work over the generic repositories.
// One unit is created per request; it memoizes a repository per entity
// type and applies all staged changes atomically on Save.
package uow

import (
	"context"
	"fmt"
	"reflect"

	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/repository"
	"github.com/soundstore/soundstore/pkg/runtime"
)

// flusher is the per-repository surface the unit of work drives.
type flusher interface {
	Flush(tx *builder.Tx) (int64, error)
	Reset()
	Pending() int
}

// UnitOfWork coordinates repositories for a single logical operation.
// Not safe for concurrent use.
type UnitOfWork struct {
	db     *builder.DB
	repos  map[reflect.Type]any
	order  []flusher
	closed bool
}

// New creates a unit of work over db.
func New(db *builder.DB) *UnitOfWork {
	return &UnitOfWork{
		db:    db,
		repos: make(map[reflect.Type]any),
	}
}

// Repo returns the repository for T, creating it on first use. Repeated
// calls for the same type return the same instance.
func Repo[T any](u *UnitOfWork) (*repository.Repository[T], error) {
	if u.closed {
		return nil, runtime.ErrTransactionClosed
	}

	var model T
	key := reflect.TypeOf(model)

	if existing, ok := u.repos[key]; ok {
		repo, ok := existing.(*repository.Repository[T])
		if !ok {
			return nil, fmt.Errorf("repository type mismatch for %v", key)
		}
		return repo, nil
	}

	repo, err := repository.New[T](u.db)
	if err != nil {
		return nil, err
	}

	u.repos[key] = repo
	u.order = append(u.order, repo)
	return repo, nil
}

// Pending reports the number of staged mutations across all repositories.
func (u *UnitOfWork) Pending() int {
	total := 0
	for _, r := range u.order {
		total += r.Pending()
	}
	return total
}

// Save applies all staged changes in one transaction and returns the
// total number of affected rows. With nothing staged it returns 0
// without touching the store. On error the transaction is rolled back
// and staged state is preserved.
func (u *UnitOfWork) Save(ctx context.Context) (int64, error) {
	if u.closed {
		return 0, runtime.ErrTransactionClosed
	}

	if u.Pending() == 0 {
		return 0, nil
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, r := range u.order {
		affected, err := r.Flush(tx)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		total += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	for _, r := range u.order {
		r.Reset()
	}

	return total, nil
}

// Rollback discards all staged changes without touching the store.
func (u *UnitOfWork) Rollback() {
	for _, r := range u.order {
		r.Reset()
	}
}

// Close marks the unit done. Safe to call more than once; the
// connection pool is owned by the process, not the unit.
func (u *UnitOfWork) Close() {
	if u.closed {
		return
	}
	u.Rollback()
	u.closed = true
}
