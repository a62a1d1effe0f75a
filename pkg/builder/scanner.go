package builder

import (
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/soundstore/soundstore/pkg/schema"
)

// scanIntoStruct scans a database row into a struct.
func scanIntoStruct(rows pgx.Rows, dest any, table *schema.TableMetadata) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Pointer {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	destValue = destValue.Elem()
	if destValue.Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	fieldDescriptions := rows.FieldDescriptions()

	columnMap := make(map[string]int, len(fieldDescriptions))
	for i, fd := range fieldDescriptions {
		columnMap[fd.Name] = i
	}

	scanTargets := make([]any, len(fieldDescriptions))
	for _, col := range table.Columns {
		idx, ok := columnMap[col.Name]
		if !ok {
			continue
		}

		field := destValue.FieldByName(col.GoField)
		if !field.IsValid() || !field.CanSet() {
			continue
		}

		scanTargets[idx] = field.Addr().Interface()
	}

	// Columns not mapped to any struct field still need a scan slot
	var dummy any
	for i := range scanTargets {
		if scanTargets[i] == nil {
			scanTargets[i] = &dummy
		}
	}

	if err := rows.Scan(scanTargets...); err != nil {
		return fmt.Errorf("failed to scan row: %w", err)
	}

	return nil
}

// insertColumns derives the column list shared by every row of an
// INSERT. Auto-increment primary keys are omitted. A column with a
// database default is omitted only when it is zero-valued in every
// row; one partially-filled row must not shift another row's
// placeholders.
func insertColumns(models []any, table *schema.TableMetadata, skipAutoPK bool) ([]string, error) {
	var columns []string

	for _, col := range table.Columns {
		if skipAutoPK && table.IsPrimaryKey(col.Name) && col.AutoIncrement {
			continue
		}

		include := false
		for _, model := range models {
			modelValue, err := structValue(model)
			if err != nil {
				return nil, err
			}

			field := modelValue.FieldByName(col.GoField)
			if !field.IsValid() {
				break
			}

			if col.Default == nil || !field.IsZero() {
				include = true
				break
			}
		}

		if include {
			columns = append(columns, col.Name)
		}
	}

	return columns, nil
}

// structValues extracts the values of the given columns from a struct,
// in column order.
func structValues(model any, table *schema.TableMetadata, columns []string) ([]any, error) {
	modelValue, err := structValue(model)
	if err != nil {
		return nil, err
	}

	values := make([]any, 0, len(columns))
	for _, name := range columns {
		col := table.GetColumn(name)
		if col == nil {
			return nil, fmt.Errorf("unknown column %s", name)
		}

		field := modelValue.FieldByName(col.GoField)
		if !field.IsValid() {
			return nil, fmt.Errorf("no struct field for column %s", name)
		}

		values = append(values, field.Interface())
	}

	return values, nil
}

func structValue(model any) (reflect.Value, error) {
	modelValue := reflect.ValueOf(model)
	if modelValue.Kind() == reflect.Pointer {
		modelValue = modelValue.Elem()
	}

	if modelValue.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be a struct")
	}

	return modelValue, nil
}
