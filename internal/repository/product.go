package repository

import (
	"context"

	"shopapi/internal/model"
)

// ProductRepository defines data access for products using SQL queries only.
// No business logic here — strictly persistence operations.
type ProductRepository interface {
	// Create inserts a new product row.
	// The caller provides required fields (e.g., ID, CreatedAt) according to the database schema defaults.
	// Returns the stored product (may include values set by the DB).
	Create(ctx context.Context, p *model.Product) (*model.Product, error)

	// FindByID returns a product by its ID.
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// List returns all products, newest first.
	List(ctx context.Context) ([]model.Product, error)

	// Update rewrites all mutable fields of an existing product and returns
	// the stored row. Returns sql.ErrNoRows if the row does not exist.
	Update(ctx context.Context, p *model.Product) (*model.Product, error)

	// Delete removes a product by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
