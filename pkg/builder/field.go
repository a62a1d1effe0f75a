package builder

import (
	"reflect"

	"github.com/soundstore/soundstore/pkg/registry"
)

// Col returns the database column name for a given Go field name.
// The column name is looked up in the registered metadata, so the
// mapping is defined once in the struct tags.
//
// Usage:
//
//	Where(builder.Eq(builder.Col[Product]("Name"), value))
func Col[T any](goFieldName string) string {
	var zero T
	modelType := reflect.TypeOf(zero)

	table, err := registry.Get(modelType)
	if err != nil {
		// Not registered; fall back to the raw name
		return goFieldName
	}

	column := table.GetColumnByField(goFieldName)
	if column == nil {
		return goFieldName
	}

	return column.Name
}
