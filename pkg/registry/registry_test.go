package registry

import (
	"reflect"
	"testing"
)

type Category struct {
	ID   int64  `db:"id,primaryKey,serial"`
	Name string `db:"name,unique,notNull"`
}

type Product struct {
	ID         int64  `db:"id,primaryKey,serial"`
	Name       string `db:"name,notNull"`
	CategoryID *int64 `db:"category_id,fk(categories.id),onDelete:setnull"`
}

func TestRegister(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Category{}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if !r.Has(reflect.TypeOf(Category{})) {
		t.Error("Has() = false after Register")
	}
}

func TestRegisterPointer(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&Category{}); err != nil {
		t.Fatalf("Register(&Category{}) error = %v", err)
	}

	if !r.Has(reflect.TypeOf(Category{})) {
		t.Error("pointer registration should resolve to the struct type")
	}
}

func TestRegisterNonStruct(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(42); err == nil {
		t.Error("Register(42) expected error, got nil")
	}
}

func TestRegisterIdempotent(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Category{}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := r.Register(Category{}); err != nil {
		t.Fatalf("second Register() error = %v", err)
	}

	if got := len(r.All()); got != 1 {
		t.Errorf("All() returned %d tables, want 1", got)
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Category{}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	table, err := r.Get(reflect.TypeOf(Category{}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if table.Name != "categories" {
		t.Errorf("table name = %q, want %q", table.Name, "categories")
	}
}

func TestGetUnregistered(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Get(reflect.TypeOf(Product{})); err == nil {
		t.Error("Get() on unregistered type expected error, got nil")
	}
}

func TestGetOrRegister(t *testing.T) {
	r := NewRegistry()

	table, err := r.GetOrRegister(Product{})
	if err != nil {
		t.Fatalf("GetOrRegister() error = %v", err)
	}
	if table.Name != "products" {
		t.Errorf("table name = %q, want %q", table.Name, "products")
	}

	again, err := r.GetOrRegister(Product{})
	if err != nil {
		t.Fatalf("second GetOrRegister() error = %v", err)
	}
	if table != again {
		t.Error("GetOrRegister() should return the cached metadata")
	}
}

func TestAllPreservesOrder(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Category{}); err != nil {
		t.Fatalf("Register(Category) error = %v", err)
	}
	if err := r.Register(Product{}); err != nil {
		t.Fatalf("Register(Product) error = %v", err)
	}

	tables := r.All()
	if len(tables) != 2 {
		t.Fatalf("All() returned %d tables, want 2", len(tables))
	}
	if tables[0].Name != "categories" || tables[1].Name != "products" {
		t.Errorf("All() order = [%s, %s], want [categories, products]", tables[0].Name, tables[1].Name)
	}
}

func TestClear(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Category{}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	r.Clear()

	if r.Has(reflect.TypeOf(Category{})) {
		t.Error("Has() = true after Clear")
	}
	if got := len(r.All()); got != 0 {
		t.Errorf("All() returned %d tables after Clear, want 0", got)
	}
}
