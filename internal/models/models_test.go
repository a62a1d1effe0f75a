package models

import (
	"errors"
	"reflect"
	"testing"

	"github.com/soundstore/soundstore/pkg/fault"
	"github.com/soundstore/soundstore/pkg/registry"
)

func TestRegisterAll(t *testing.T) {
	registry.Clear()
	defer registry.Clear()

	if err := RegisterAll(); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}

	want := []string{
		"categories",
		"sub_categories",
		"products",
		"images",
		"app_users",
		"orders",
		"order_details",
		"transactions",
		"ratings",
	}
	all := registry.All()
	if len(all) != len(want) {
		t.Fatalf("registered %d tables, want %d", len(all), len(want))
	}
	for i, table := range all {
		if table.Name != want[i] {
			t.Errorf("table %d = %q, want %q", i, table.Name, want[i])
		}
	}
}

func TestRegisterAllIdempotent(t *testing.T) {
	registry.Clear()
	defer registry.Clear()

	if err := RegisterAll(); err != nil {
		t.Fatalf("first RegisterAll: %v", err)
	}
	if err := RegisterAll(); err != nil {
		t.Fatalf("second RegisterAll: %v", err)
	}
	if got := len(registry.All()); got != 9 {
		t.Fatalf("registered %d tables after re-register, want 9", got)
	}
}

func TestOrphaningForeignKeys(t *testing.T) {
	registry.Clear()
	defer registry.Clear()

	if err := RegisterAll(); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}

	cases := []struct {
		model  any
		column string
	}{
		{SubCategory{}, "category_id"},
		{Product{}, "sub_category_id"},
		{Image{}, "product_id"},
	}
	for _, tc := range cases {
		table, err := registry.Get(reflect.TypeOf(tc.model))
		if err != nil {
			t.Fatalf("Get(%T): %v", tc.model, err)
		}
		found := false
		for _, foreignKey := range table.ForeignKeys {
			if foreignKey.Column != tc.column {
				continue
			}
			found = true
			if foreignKey.OnDelete != "SET NULL" {
				t.Errorf("%s.%s on delete = %q, want SET NULL", table.Name, tc.column, foreignKey.OnDelete)
			}
		}
		if !found {
			t.Errorf("%s has no foreign key on %s", table.Name, tc.column)
		}
	}
}

func TestParseProductState(t *testing.T) {
	cases := []struct {
		in      string
		want    ProductState
		wantErr bool
	}{
		{"InStock", InStock, false},
		{"instock", InStock, false},
		{"OUTOFSTOCK", OutOfStock, false},
		{"OutOfStock", OutOfStock, false},
		{"Discontinued", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseProductState(tc.in)
		if tc.wantErr {
			if !errors.Is(err, fault.ErrInvalid) {
				t.Errorf("ParseProductState(%q) err = %v, want ErrInvalid", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseProductState(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseProductState(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseUserState(t *testing.T) {
	cases := []struct {
		in      string
		want    UserState
		wantErr bool
	}{
		{"Active", Active, false},
		{"active", Active, false},
		{"INACTIVE", Inactive, false},
		{"Suspended", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseUserState(tc.in)
		if tc.wantErr {
			if !errors.Is(err, fault.ErrInvalid) {
				t.Errorf("ParseUserState(%q) err = %v, want ErrInvalid", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseUserState(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseUserState(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestStateStrings(t *testing.T) {
	if got := InStock.String(); got != "InStock" {
		t.Errorf("InStock.String() = %q", got)
	}
	if got := OutOfStock.String(); got != "OutOfStock" {
		t.Errorf("OutOfStock.String() = %q", got)
	}
	if got := Active.String(); got != "Active" {
		t.Errorf("Active.String() = %q", got)
	}
	if got := ProductState(99).String(); got != "Unknown" {
		t.Errorf("ProductState(99).String() = %q", got)
	}
}
