package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/registry"
	"github.com/soundstore/soundstore/pkg/schema"
)

// CreateSchema creates every registered table. Statements run in
// registration order so referenced tables exist before their children,
// and use IF NOT EXISTS so the command is idempotent.
func CreateSchema(ctx context.Context, db *builder.DB) error {
	for _, table := range registry.All() {
		sql := createTableSQL(table)
		if _, err := db.Runtime().Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
	}
	return nil
}

// createTableSQL renders one CREATE TABLE statement from table metadata.
func createTableSQL(table *schema.TableMetadata) string {
	var singlePK string
	if table.PrimaryKey != nil && len(table.PrimaryKey.Columns) == 1 {
		singlePK = table.PrimaryKey.Columns[0]
	}

	var parts []string
	for _, col := range table.Columns {
		def := columnDefinition(col)
		if col.Name == singlePK {
			def += " PRIMARY KEY"
		}
		parts = append(parts, "    "+def)
	}

	if table.PrimaryKey != nil && len(table.PrimaryKey.Columns) > 1 {
		parts = append(parts, fmt.Sprintf("    CONSTRAINT %s PRIMARY KEY (%s)",
			table.PrimaryKey.Name, strings.Join(table.PrimaryKey.Columns, ", ")))
	}

	for _, fk := range table.ForeignKeys {
		parts = append(parts, "    "+foreignKeyDefinition(fk))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		table.Name, strings.Join(parts, ",\n"))
}

func columnDefinition(col schema.ColumnMetadata) string {
	parts := []string{col.Name, col.SQLType}

	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if col.Default != nil {
		parts = append(parts, "DEFAULT", *col.Default)
	}
	if col.Unique {
		parts = append(parts, "UNIQUE")
	}

	return strings.Join(parts, " ")
}

func foreignKeyDefinition(fk schema.ForeignKeyMetadata) string {
	def := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		fk.Name, fk.Column, fk.ReferencedTable, fk.ReferencedColumn)
	if fk.OnDelete != "" && fk.OnDelete != schema.NoAction {
		def += " ON DELETE " + string(fk.OnDelete)
	}
	return def
}
