package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"shopapi/internal/model"
	"shopapi/internal/repository"
	"shopapi/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("product not found")
)

// ProductFields carries the mutable attributes of a product as parsed from a
// request; the image reference is managed by the service, never by callers.
type ProductFields struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Rating      float64
}

// FileUpload is an optional image accompanying a create or update request.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// ProductService coordinates each product mutation with its associated image
// blob. Record and blob are tightly coupled (one owns the other) but not
// written transactionally; the ordering and failure behavior of each
// operation is part of the contract and is covered by tests.
type ProductService interface {
	// Create persists a new product. If a file is supplied it is stored
	// first and the record's image is set to the generated blob name;
	// otherwise image is empty. A failed insert does not remove an
	// already-stored blob.
	Create(ctx context.Context, fields ProductFields, file *FileUpload) (*model.Product, error)

	// Update rewrites an existing product. Any previously referenced blob is
	// deleted unconditionally, even when no replacement file is supplied
	// (replace-or-clear semantics); a failed blob delete aborts the request
	// before the row is written.
	Update(ctx context.Context, id string, fields ProductFields, file *FileUpload) (*model.Product, error)

	// Delete removes the product row, then its blob if one was referenced.
	// A failed blob delete surfaces after the row deletion already took effect.
	Delete(ctx context.Context, id string) error

	// List returns all products, unfiltered and unpaginated.
	List(ctx context.Context) ([]model.Product, error)

	// Get returns a single product by its ID.
	Get(ctx context.Context, id string) (*model.Product, error)
}

type productService struct {
	store storage.Storage
	repo  repository.ProductRepository

	now func() time.Time
}

// NewProductService constructs a new ProductService.
func NewProductService(store storage.Storage, repo repository.ProductRepository) ProductService {
	return &productService{store: store, repo: repo, now: time.Now}
}

// blobName generates the stored filename: millisecond timestamp plus the
// original base name. Collisions require two uploads of the same filename
// within the same millisecond.
func (s *productService) blobName(original string) string {
	return fmt.Sprintf("%d-%s", s.now().UnixMilli(), filepath.Base(original))
}

func (s *productService) storeFile(ctx context.Context, file *FileUpload) (string, error) {
	key := s.blobName(file.Filename)
	_, err := s.store.Put(ctx, key, file.Reader, storage.PutObjectOptions{
		Size:        file.Size,
		ContentType: file.ContentType,
		Metadata: map[string]string{
			"original-filename": filepath.Base(file.Filename),
		},
	})
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

func (s *productService) Create(ctx context.Context, fields ProductFields, file *FileUpload) (*model.Product, error) {
	image := ""
	if file != nil {
		key, err := s.storeFile(ctx, file)
		if err != nil {
			return nil, err
		}
		image = key
	}

	p := &model.Product{
		ID:          uuid.New().String(),
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Category:    fields.Category,
		Rating:      fields.Rating,
		Image:       image,
		CreatedAt:   s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, p)
	if err != nil {
		// The stored blob is NOT rolled back here; a failed insert leaves it
		// orphaned in the blob store.
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *productService) Update(ctx context.Context, id string, fields ProductFields, file *FileUpload) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Replace-or-clear: the old blob goes away whether or not a replacement
	// arrives. The delete is unguarded — a missing blob fails the request
	// before the row is touched, leaving DB and store in their prior state.
	if existing.Image != "" {
		if err := s.store.Delete(ctx, existing.Image); err != nil {
			return nil, fmt.Errorf("delete old image: %w", err)
		}
	}

	image := ""
	if file != nil {
		key, err := s.storeFile(ctx, file)
		if err != nil {
			return nil, err
		}
		image = key
	}

	p := &model.Product{
		ID:          id,
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Category:    fields.Category,
		Rating:      fields.Rating,
		Image:       image,
	}
	stored, err := s.repo.Update(ctx, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Row first, blob second: a failed blob delete reports an error for a
	// request whose database deletion already took effect.
	if existing.Image != "" {
		if err := s.store.Delete(ctx, existing.Image); err != nil {
			return fmt.Errorf("delete image: %w", err)
		}
	}
	return nil
}

// List returns all products, newest first.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	return s.repo.List(ctx)
}

// Get returns a product by ID.
func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
