// Package pagination provides count-plus-window pagination over SELECT
// queries.
package pagination

import (
	"context"

	"github.com/soundstore/soundstore/pkg/builder"
)

// Page is one window of results with derived page metadata.
type Page[T any] struct {
	Items           []T   `json:"items"`
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalItems      int64 `json:"totalItems"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

// NewPage builds a Page from an already-fetched window and the total
// item count. TotalPages is ceil(total/pageSize); a requested page past
// the end keeps its number rather than being clamped.
func NewPage[T any](items []T, pageNumber, pageSize int, total int64) Page[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return Page[T]{
		Items:           items,
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalItems:      total,
		TotalPages:      totalPages,
		HasPreviousPage: pageNumber > 1,
		HasNextPage:     pageNumber < totalPages,
	}
}

// Paginate counts the rows matching q, then fetches the requested
// window with LIMIT/OFFSET. Two store round trips, one per step.
func Paginate[T any](ctx context.Context, q *builder.SelectQuery[T], pageNumber, pageSize int) (Page[T], error) {
	total, err := q.Count(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	items, err := q.
		Limit(pageSize).
		Offset((pageNumber - 1) * pageSize).
		All(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	return NewPage(items, pageNumber, pageSize, total), nil
}
