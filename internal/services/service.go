// Package services implements the catalog and account use cases on top
// of the unit of work and query builder. Reads go straight through the
// builder; writes are staged on repositories and committed in one Save.
package services

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/soundstore/soundstore/pkg/fault"
	"github.com/soundstore/soundstore/pkg/pagination"
	"github.com/soundstore/soundstore/pkg/runtime"
)

// logFail records a failed operation and returns the error unchanged so
// callers can translate it at the boundary.
func logFail(log *logrus.Logger, op string, err error) error {
	log.WithError(err).Error(op)
	return err
}

// notFoundOr converts a missing-row error into a domain not-found error
// and passes everything else through.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, runtime.ErrNotFound) {
		return fault.NotFound(format, args...)
	}
	return err
}

// mapPage carries page metadata over to a mapped item type.
func mapPage[T, U any](p pagination.Page[T], items []U) pagination.Page[U] {
	return pagination.Page[U]{
		Items:           items,
		PageNumber:      p.PageNumber,
		PageSize:        p.PageSize,
		TotalItems:      p.TotalItems,
		TotalPages:      p.TotalPages,
		HasPreviousPage: p.HasPreviousPage,
		HasNextPage:     p.HasNextPage,
	}
}
