// Package models defines the persistent entities of the catalog and
// account domain. Parent links are nullable and declared SET NULL so
// children are orphaned, never cascade-deleted.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/soundstore/soundstore/pkg/registry"
)

// Category is a top-level catalog grouping. Names are unique
// case-insensitively, enforced by the category service.
type Category struct {
	ID          int64      `db:"id,primaryKey,bigserial"`
	Name        string     `db:"name,unique,notNull"`
	Description string     `db:"description"`
	CreatedAt   *time.Time `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// SubCategory belongs weakly to a Category; deleting the parent leaves
// it with a null category_id.
type SubCategory struct {
	ID         int64      `db:"id,primaryKey,bigserial"`
	Name       string     `db:"name,notNull"`
	CategoryID *int64     `db:"category_id,fk(categories.id),onDelete:setnull"`
	CreatedAt  *time.Time `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
}

// Product is a headphone or speaker listing.
type Product struct {
	ID                  int64           `db:"id,primaryKey,bigserial"`
	Name                string          `db:"name,notNull"`
	Description         string          `db:"description"`
	StockQuantity       int             `db:"stock_quantity"`
	Price               decimal.Decimal `db:"price"`
	Type                *string         `db:"type"`
	Connectivity        *string         `db:"connectivity"`
	SpecialFeatures     *string         `db:"special_features"`
	FrequencyResponse   *string         `db:"frequency_response"`
	Sensitivity         *string         `db:"sensitivity"`
	BatteryLife         *string         `db:"battery_life"`
	AccessoriesIncluded *string         `db:"accessories_included"`
	Warranty            *string         `db:"warranty"`
	SubCategoryID       *int64          `db:"sub_category_id,fk(sub_categories.id),onDelete:setnull"`
	Status              ProductState    `db:"status"`
	CreatedAt           *time.Time      `db:"created_at"`
	UpdatedAt           *time.Time      `db:"updated_at"`
}

// Image is a product photo hosted in object storage.
type Image struct {
	ID        int64      `db:"id,primaryKey,bigserial"`
	ProductID *int64     `db:"product_id,fk(products.id),onDelete:setnull"`
	URL       string     `db:"url"`
	CreatedAt *time.Time `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// AppUser is a customer or admin account. IDs are UUID strings.
type AppUser struct {
	ID           string     `db:"id,primaryKey"`
	FirstName    *string    `db:"first_name"`
	LastName     *string    `db:"last_name"`
	Email        string     `db:"email,unique,notNull"`
	PasswordHash string     `db:"password_hash,notNull"`
	PhoneNumber  *string    `db:"phone_number"`
	Address      *string    `db:"address"`
	DateOfBirth  *time.Time `db:"date_of_birth"`
	Role         string     `db:"role,notNull"`
	Status       UserState  `db:"status"`
	CreatedAt    *time.Time `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// Order is referenced by the core only for deletion guards and rating
// eligibility; its lifecycle is owned elsewhere.
type Order struct {
	ID        int64           `db:"id,primaryKey,bigserial"`
	Total     decimal.Decimal `db:"total"`
	UserID    string          `db:"user_id,notNull,fk(app_users.id)"`
	CreatedAt *time.Time      `db:"created_at"`
}

// OrderDetail is one line of an Order.
type OrderDetail struct {
	ID           int64           `db:"id,primaryKey,bigserial"`
	OrderID      int64           `db:"order_id,notNull,fk(orders.id)"`
	ProductID    int64           `db:"product_id,notNull,fk(products.id)"`
	Quantity     int             `db:"quantity"`
	CurrentPrice decimal.Decimal `db:"current_price"`
}

// Transaction records a payment for an Order.
type Transaction struct {
	ID        int64           `db:"id,primaryKey,bigserial"`
	OrderID   int64           `db:"order_id,notNull,fk(orders.id)"`
	UserID    string          `db:"user_id,notNull,fk(app_users.id)"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt *time.Time      `db:"created_at"`
}

// Rating is a 1-5 review left by a user who purchased the product.
type Rating struct {
	ID          int64   `db:"id,primaryKey,bigserial"`
	RatingPoint int     `db:"rating_point,notNull"`
	Comment     *string `db:"comment"`
	ProductID   int64   `db:"product_id,notNull,fk(products.id)"`
	UserID      string  `db:"user_id,notNull,fk(app_users.id)"`
}

// User roles.
const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
)

// RegisterAll registers every entity in dependency order, parents
// before children, so generated DDL can be applied top to bottom.
func RegisterAll() error {
	for _, model := range []any{
		Category{},
		SubCategory{},
		Product{},
		Image{},
		AppUser{},
		Order{},
		OrderDetail{},
		Transaction{},
		Rating{},
	} {
		if err := registry.Register(model); err != nil {
			return err
		}
	}
	return nil
}
