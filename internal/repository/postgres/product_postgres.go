package postgres

import (
	"context"
	"database/sql"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres repository.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

// Create inserts a new product row and returns the stored record.
func (r *ProductPostgres) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO products (id, name, description, price, category, rating, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, description, price, category, rating, image, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Rating,
		p.Image,
		p.CreatedAt,
	)
	var out model.Product
	if err := scanProduct(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single product by its ID.
func (r *ProductPostgres) FindByID(ctx context.Context, id string) (*model.Product, error) {
	const q = `
		SELECT id, name, description, price, category, rating, image, created_at
		FROM products
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var p model.Product
	if err := scanProduct(row, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all products, newest first.
func (r *ProductPostgres) List(ctx context.Context) ([]model.Product, error) {
	const q = `
		SELECT id, name, description, price, category, rating, image, created_at
		FROM products
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
			&p.Rating,
			&p.Image,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Update rewrites all mutable fields of a product row.
// Returns sql.ErrNoRows when the row does not exist.
func (r *ProductPostgres) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5, rating = $6, image = $7
		WHERE id = $1
		RETURNING id, name, description, price, category, rating, image, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.Rating,
		p.Image,
	)
	var out model.Product
	if err := scanProduct(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a product by ID. It does not return an error if the row does not exist.
func (r *ProductPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM products WHERE id = $1`
	// Rows affected is deliberately not checked; missing-row handling
	// belongs to the service layer.
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func scanProduct(row *sql.Row, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Rating,
		&p.Image,
		&p.CreatedAt,
	)
}
