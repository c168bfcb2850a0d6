package service

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"shopapi/internal/model"
	repoMocks "shopapi/internal/repository/mocks"
	"shopapi/internal/storage"
	storeMocks "shopapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testClock = time.UnixMilli(1700000000000).UTC()

func newProductServiceForTest(store storage.Storage, repo *repoMocks.MockProductRepository) *productService {
	svc := NewProductService(store, repo).(*productService)
	svc.now = func() time.Time { return testClock }
	return svc
}

func testFields() ProductFields {
	return ProductFields{
		Name:        "Keyboard",
		Description: "Mechanical keyboard",
		Price:       79.99,
		Category:    "electronics",
		Rating:      4.5,
	}
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("without file image is empty", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.Image == "" && p.Name == "Keyboard" && p.ID != ""
		})).Return(&model.Product{ID: "gen-id", Image: ""}, nil)

		p, err := svc.Create(ctx, testFields(), nil)

		require.NoError(t, err)
		assert.Equal(t, "", p.Image)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mRepo.AssertExpectations(t)
	})

	t.Run("with file image is the generated blob name", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		r := strings.NewReader("image bytes")
		mStore.On("Put", ctx, "1700000000000-photo.png", r, storage.PutObjectOptions{
			Size:        11,
			ContentType: "image/png",
			Metadata:    map[string]string{"original-filename": "photo.png"},
		}).Return(storage.ObjectInfo{Key: "1700000000000-photo.png", Size: 11}, nil)

		mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.Image == "1700000000000-photo.png"
		})).Return(&model.Product{ID: "gen-id", Image: "1700000000000-photo.png"}, nil)

		p, err := svc.Create(ctx, testFields(), &FileUpload{
			Reader:      r,
			Filename:    "photo.png",
			ContentType: "image/png",
			Size:        11,
		})

		require.NoError(t, err)
		assert.Equal(t, "1700000000000-photo.png", p.Image)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		r := strings.NewReader("x")
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("disk full"))

		_, err := svc.Create(ctx, testFields(), &FileUpload{Reader: r, Filename: "a.png", Size: 1})

		assert.ErrorContains(t, err, "store image: disk full")
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert failure leaks the stored blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		r := strings.NewReader("x")
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
			Return(storage.ObjectInfo{Key: "1700000000000-a.png"}, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := svc.Create(ctx, testFields(), &FileUpload{Reader: r, Filename: "a.png", Size: 1})

		assert.ErrorContains(t, err, "db save failed: db fail")
		// No rollback of the blob on insert failure.
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("no file clears image and deletes the old blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		mRepo.On("FindByID", ctx, "p-1").
			Return(&model.Product{ID: "p-1", Image: "1600000000000-old.png"}, nil)
		mStore.On("Delete", ctx, "1600000000000-old.png").Return(nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.ID == "p-1" && p.Image == ""
		})).Return(&model.Product{ID: "p-1", Image: ""}, nil)

		p, err := svc.Update(ctx, "p-1", testFields(), nil)

		require.NoError(t, err)
		assert.Equal(t, "", p.Image)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("replacement file swaps the image reference", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		r := strings.NewReader("new bytes")
		mRepo.On("FindByID", ctx, "p-1").
			Return(&model.Product{ID: "p-1", Image: "1600000000000-old.png"}, nil)
		mStore.On("Delete", ctx, "1600000000000-old.png").Return(nil)
		mStore.On("Put", ctx, "1700000000000-new.png", r, mock.Anything).
			Return(storage.ObjectInfo{Key: "1700000000000-new.png"}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.Image == "1700000000000-new.png"
		})).Return(&model.Product{ID: "p-1", Image: "1700000000000-new.png"}, nil)

		p, err := svc.Update(ctx, "p-1", testFields(), &FileUpload{Reader: r, Filename: "new.png", Size: 9})

		require.NoError(t, err)
		assert.Equal(t, "1700000000000-new.png", p.Image)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("missing old blob aborts before the row write", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		mRepo.On("FindByID", ctx, "p-1").
			Return(&model.Product{ID: "p-1", Image: "1600000000000-old.png"}, nil)
		mStore.On("Delete", ctx, "1600000000000-old.png").Return(fs.ErrNotExist)

		_, err := svc.Update(ctx, "p-1", testFields(), nil)

		assert.ErrorContains(t, err, "delete old image")
		assert.ErrorIs(t, err, fs.ErrNotExist)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("empty existing image touches no blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		mRepo.On("FindByID", ctx, "p-1").Return(&model.Product{ID: "p-1", Image: ""}, nil)
		mRepo.On("Update", ctx, mock.Anything).Return(&model.Product{ID: "p-1"}, nil)

		_, err := svc.Update(ctx, "p-1", testFields(), nil)

		require.NoError(t, err)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown id", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, "missing", testFields(), nil)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := newProductServiceForTest(nil, new(repoMocks.MockProductRepository))

		_, err := svc.Update(ctx, "", testFields(), nil)

		assert.ErrorIs(t, err, ErrIDRequired)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes row and blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		mRepo.On("FindByID", ctx, "p-1").
			Return(&model.Product{ID: "p-1", Image: "1600000000000-old.png"}, nil)
		mRepo.On("Delete", ctx, "p-1").Return(nil)
		mStore.On("Delete", ctx, "1600000000000-old.png").Return(nil)

		err := svc.Delete(ctx, "p-1")

		assert.NoError(t, err)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty image skips the blob store", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		mRepo.On("FindByID", ctx, "p-1").Return(&model.Product{ID: "p-1", Image: ""}, nil)
		mRepo.On("Delete", ctx, "p-1").Return(nil)

		err := svc.Delete(ctx, "p-1")

		assert.NoError(t, err)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing blob errors after the row deletion", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(mStore, mRepo)

		mRepo.On("FindByID", ctx, "p-1").
			Return(&model.Product{ID: "p-1", Image: "1600000000000-old.png"}, nil)
		mRepo.On("Delete", ctx, "p-1").Return(nil)
		mStore.On("Delete", ctx, "1600000000000-old.png").Return(fs.ErrNotExist)

		err := svc.Delete(ctx, "p-1")

		assert.ErrorContains(t, err, "delete image")
		// The row deletion already ran.
		mRepo.AssertCalled(t, "Delete", ctx, "p-1")
	})

	t.Run("unknown id", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(nil, mRepo)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := newProductServiceForTest(nil, new(repoMocks.MockProductRepository))
		assert.ErrorIs(t, svc.Delete(ctx, ""), ErrIDRequired)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(nil, mRepo)

		mRepo.On("List", ctx).Return([]model.Product{{ID: "1"}, {ID: "2"}}, nil)

		items, err := svc.List(ctx)

		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		svc := newProductServiceForTest(nil, mRepo)

		mRepo.On("List", ctx).Return(nil, errors.New("db fail"))

		_, err := svc.List(ctx)

		assert.Error(t, err)
	})
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockProductRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("FindByID", ctx, "valid-id").Return(&model.Product{ID: "valid-id"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockProductRepository)
			svc := newProductServiceForTest(nil, mRepo)

			tt.setupMocks(mRepo)

			p, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, p.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}
