package schema

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int        `db:"id,primaryKey,serial"`
	Name        string     `db:"name,varchar(100),notNull,unique"`
	Description string     `db:"description,text"`
	CreatedAt   *time.Time `db:"created_at,timestamptz"`
	UpdatedAt   *time.Time `db:"updated_at,timestamptz"`

	SubCategories []SubCategory
}

type SubCategory struct {
	ID         int    `db:"id,primaryKey,serial"`
	Name       string `db:"name,varchar(100),notNull"`
	CategoryID *int   `db:"category_id,integer,fk(categories.id),onDelete:setnull"`
}

type Product struct {
	ID    int64           `db:"id,primaryKey,bigserial"`
	Name  string          `db:"name,varchar(255),notNull"`
	Price decimal.Decimal `db:"price,numeric(10,2),notNull"`
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	table, err := parser.Parse(reflect.TypeOf(Category{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if table.Name != "categories" {
		t.Errorf("table name = %q, want %q", table.Name, "categories")
	}
	if len(table.Columns) != 5 {
		t.Errorf("column count = %d, want 5 (untagged slice must be skipped)", len(table.Columns))
	}
	if table.PrimaryKey == nil || table.PrimaryKey.Columns[0] != "id" {
		t.Errorf("primary key = %+v, want [id]", table.PrimaryKey)
	}

	name := table.GetColumn("name")
	if name == nil {
		t.Fatal("name column missing")
	}
	if name.SQLType != "varchar(100)" {
		t.Errorf("name SQL type = %q", name.SQLType)
	}
	if name.Nullable {
		t.Error("notNull column reported nullable")
	}
	if !name.Unique {
		t.Error("unique option not picked up")
	}

	created := table.GetColumn("created_at")
	if created == nil || !created.Nullable {
		t.Error("pointer column must be nullable")
	}
}

func TestParser_ParseCaches(t *testing.T) {
	parser := NewParser()
	first, err := parser.Parse(reflect.TypeOf(Product{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	second, err := parser.Parse(reflect.TypeOf(&Product{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if first != second {
		t.Error("expected cached metadata pointer for repeated parse")
	}
}

func TestParser_ForeignKey(t *testing.T) {
	parser := NewParser()
	table, err := parser.Parse(reflect.TypeOf(SubCategory{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(table.ForeignKeys) != 1 {
		t.Fatalf("foreign key count = %d, want 1", len(table.ForeignKeys))
	}
	fk := table.ForeignKeys[0]
	if fk.Column != "category_id" || fk.ReferencedTable != "categories" || fk.ReferencedColumn != "id" {
		t.Errorf("unexpected fk: %+v", fk)
	}
	if fk.OnDelete != SetNull {
		t.Errorf("fk OnDelete = %q, want SET NULL", fk.OnDelete)
	}
}

func TestParser_AutoIncrement(t *testing.T) {
	parser := NewParser()
	table, err := parser.Parse(reflect.TypeOf(Product{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	id := table.GetColumn("id")
	if id == nil || !id.AutoIncrement {
		t.Error("bigserial column must be auto-increment")
	}
	price := table.GetColumn("price")
	if price == nil || price.SQLType != "numeric(10,2)" {
		t.Errorf("price column = %+v", price)
	}
}

func TestParser_RejectsNonStruct(t *testing.T) {
	parser := NewParser()
	if _, err := parser.Parse(reflect.TypeOf(42)); err == nil {
		t.Error("expected error for non-struct type")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Category", "category"},
		{"SubCategory", "sub_category"},
		{"OrderDetail", "order_detail"},
		{"AppUser", "app_user"},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"category", "categories"},
		{"sub_category", "sub_categories"},
		{"product", "products"},
		{"status", "statuses"},
		{"box", "boxes"},
		{"day", "days"},
	}
	for _, tt := range tests {
		if got := pluralize(tt.in); got != tt.want {
			t.Errorf("pluralize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
