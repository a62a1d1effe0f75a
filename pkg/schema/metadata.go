// Package schema extracts table metadata from Go struct definitions.
package schema

import "reflect"

// TableMetadata describes how an entity struct maps to a table.
type TableMetadata struct {
	Name        string
	GoType      reflect.Type
	Columns     []ColumnMetadata
	PrimaryKey  *PrimaryKeyMetadata
	ForeignKeys []ForeignKeyMetadata
}

// ColumnMetadata describes a single column of a table.
type ColumnMetadata struct {
	Name          string
	GoField       string
	GoType        reflect.Type
	SQLType       string
	Nullable      bool
	Unique        bool
	AutoIncrement bool
	Default       *string
	Position      int
}

// PrimaryKeyMetadata describes a table's primary key.
type PrimaryKeyMetadata struct {
	Name    string
	Columns []string
}

// ForeignKeyMetadata describes a foreign key constraint.
type ForeignKeyMetadata struct {
	Name             string
	Column           string
	ReferencedTable  string
	ReferencedColumn string
	OnDelete         ReferenceAction
}

// ReferenceAction is the referential action taken on parent removal.
type ReferenceAction string

const (
	// NoAction performs no referential action.
	NoAction ReferenceAction = "NO ACTION"
	// Cascade deletes dependent rows with the parent.
	Cascade ReferenceAction = "CASCADE"
	// Restrict rejects the parent removal.
	Restrict ReferenceAction = "RESTRICT"
	// SetNull orphans dependent rows by clearing the reference.
	SetNull ReferenceAction = "SET NULL"
)

// GetColumn returns the column with the given database name, or nil.
func (t *TableMetadata) GetColumn(name string) *ColumnMetadata {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// GetColumnByField returns the column mapped to the given Go field name, or nil.
func (t *TableMetadata) GetColumnByField(goField string) *ColumnMetadata {
	for i := range t.Columns {
		if t.Columns[i].GoField == goField {
			return &t.Columns[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether the named column is part of the primary key.
func (t *TableMetadata) IsPrimaryKey(name string) bool {
	if t.PrimaryKey == nil {
		return false
	}
	for _, c := range t.PrimaryKey.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// PrimaryKeyColumns returns the metadata of the primary key columns in order.
func (t *TableMetadata) PrimaryKeyColumns() []ColumnMetadata {
	if t.PrimaryKey == nil {
		return nil
	}
	cols := make([]ColumnMetadata, 0, len(t.PrimaryKey.Columns))
	for _, name := range t.PrimaryKey.Columns {
		if c := t.GetColumn(name); c != nil {
			cols = append(cols, *c)
		}
	}
	return cols
}
