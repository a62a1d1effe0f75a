// Package filter narrows SELECT queries from plain filter structs.
// Exported filter fields are matched by name against the entity's tagged
// columns; non-zero values become ANDed equality conditions.
package filter

import (
	"reflect"
	"sync"

	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/registry"
)

// binding maps one filter struct field to an entity column.
type binding struct {
	fieldIndex int
	column     string
}

type planKey struct {
	filterType reflect.Type
	entityType reflect.Type
}

var (
	planMu sync.RWMutex
	plans  = make(map[planKey][]binding)
)

// Apply narrows q with equality conditions taken from filterValue, a
// struct (or pointer to struct) of optional criteria. Fields that are
// zero-valued, unexported, unmatched on T, or of a mismatched type are
// skipped. With no usable criteria the query is returned unchanged.
func Apply[T any](q *builder.SelectQuery[T], filterValue any) *builder.SelectQuery[T] {
	fv := reflect.ValueOf(filterValue)
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return q
		}
		fv = fv.Elem()
	}
	if fv.Kind() != reflect.Struct {
		return q
	}

	var model T
	entityType := reflect.TypeOf(model)
	if entityType == nil || entityType.Kind() != reflect.Struct {
		return q
	}

	plan := planFor(fv.Type(), entityType)

	for _, b := range plan {
		field := fv.Field(b.fieldIndex)

		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				continue
			}
			field = field.Elem()
		} else if field.IsZero() {
			continue
		}

		q.Where(builder.Eq(b.column, field.Interface()))
	}

	return q
}

// planFor computes or retrieves the field-to-column plan for a
// (filter type, entity type) pair.
func planFor(filterType, entityType reflect.Type) []binding {
	key := planKey{filterType: filterType, entityType: entityType}

	planMu.RLock()
	plan, ok := plans[key]
	planMu.RUnlock()
	if ok {
		return plan
	}

	plan = buildPlan(filterType, entityType)

	planMu.Lock()
	plans[key] = plan
	planMu.Unlock()

	return plan
}

func buildPlan(filterType, entityType reflect.Type) []binding {
	table, err := registry.GetOrRegister(reflect.New(entityType).Elem().Interface())
	if err != nil {
		return nil
	}

	var plan []binding
	for i := 0; i < filterType.NumField(); i++ {
		ff := filterType.Field(i)
		if !ff.IsExported() {
			continue
		}

		ef, ok := entityType.FieldByName(ff.Name)
		if !ok {
			continue
		}

		col := table.GetColumnByField(ef.Name)
		if col == nil {
			continue
		}

		if !typesMatch(ff.Type, ef.Type) {
			continue
		}

		plan = append(plan, binding{fieldIndex: i, column: col.Name})
	}

	return plan
}

// typesMatch reports whether a filter field type can stand in for the
// entity field type: identical, or pointer-to-identical on either side.
func typesMatch(filterField, entityField reflect.Type) bool {
	if filterField == entityField {
		return true
	}
	if filterField.Kind() == reflect.Pointer && filterField.Elem() == entityField {
		return true
	}
	if entityField.Kind() == reflect.Pointer && entityField.Elem() == filterField {
		return true
	}
	return false
}
