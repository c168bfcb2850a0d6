package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"shopapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func productColumns() []string {
	return []string{"id", "name", "description", "price", "category", "rating", "image", "created_at"}
}

func TestProductPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProductPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	p := &model.Product{
		ID:          "test-uuid",
		Name:        "Keyboard",
		Description: "Mechanical keyboard",
		Price:       79.99,
		Category:    "electronics",
		Rating:      4.5,
		Image:       "1700000000000-kb.png",
		CreatedAt:   now,
	}

	rows := sqlmock.NewRows(productColumns()).
		AddRow(p.ID, p.Name, p.Description, p.Price, p.Category, p.Rating, p.Image, p.CreatedAt)

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(p.ID, p.Name, p.Description, p.Price, p.Category, p.Rating, p.Image, p.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, p)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Image, result.Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProductPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(productColumns()).
			AddRow("test-id", "Keyboard", "desc", 79.99, "electronics", 4.5, "", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM products WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, "test-id", p.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})
}

func TestProductPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProductPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows(productColumns()).
			AddRow("id-2", "Mouse", "", 25.0, "electronics", 4.0, "", time.Now()).
			AddRow("id-1", "Keyboard", "", 79.99, "electronics", 4.5, "kb.png", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM products ORDER BY").
			WillReturnRows(rows)

		items, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "id-2", items[0].ID)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM products ORDER BY").
			WillReturnRows(sqlmock.NewRows(productColumns()))

		items, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})
}

func TestProductPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProductPostgres(db)
	ctx := context.Background()

	p := &model.Product{
		ID:       "test-id",
		Name:     "Keyboard v2",
		Price:    89.99,
		Category: "electronics",
		Rating:   4.7,
		Image:    "",
	}

	t.Run("updated", func(t *testing.T) {
		rows := sqlmock.NewRows(productColumns()).
			AddRow(p.ID, p.Name, p.Description, p.Price, p.Category, p.Rating, p.Image, time.Now())

		mock.ExpectQuery("UPDATE products SET").
			WithArgs(p.ID, p.Name, p.Description, p.Price, p.Category, p.Rating, p.Image).
			WillReturnRows(rows)

		out, err := repo.Update(ctx, p)

		assert.NoError(t, err)
		assert.Equal(t, "Keyboard v2", out.Name)
		assert.Equal(t, "", out.Image)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery("UPDATE products SET").
			WithArgs(p.ID, p.Name, p.Description, p.Price, p.Category, p.Rating, p.Image).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		out, err := repo.Update(ctx, p)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, out)
	})
}

func TestProductPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProductPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM products WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "test-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
