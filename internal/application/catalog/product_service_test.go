package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/application/softdelete"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

func newProductService(t *testing.T) (*ProductService, *MockProductRepository, *MockCategoryRepository, *MockReviewRepository) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	reviewRepo := new(MockReviewRepository)

	store := softdelete.NewTokenStore(0)
	t.Cleanup(store.Close)
	deleter := softdelete.NewManager(store, zap.NewNop())

	return NewProductService(productRepo, categoryRepo, reviewRepo, deleter), productRepo, categoryRepo, reviewRepo
}

func mustNewProduct(t *testing.T) *catalog.Product {
	product, err := catalog.NewProduct("SKU-1", "Keyboard", decimal.NewFromInt(49))
	require.NoError(t, err)
	return product
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product", func(t *testing.T) {
		service, productRepo, _, _ := newProductService(t)

		productRepo.On("ExistsBySKU", ctx, "SKU-1").Return(false, nil)
		productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := service.Create(ctx, CreateProductRequest{
			SKU:   "SKU-1",
			Name:  "Keyboard",
			Price: decimal.NewFromInt(49),
		})

		require.NoError(t, err)
		assert.Equal(t, "SKU-1", resp.SKU)
		assert.Equal(t, "active", resp.Status)
		productRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate SKU", func(t *testing.T) {
		service, productRepo, _, _ := newProductService(t)

		productRepo.On("ExistsBySKU", ctx, "SKU-1").Return(true, nil)

		_, err := service.Create(ctx, CreateProductRequest{
			SKU:   "SKU-1",
			Name:  "Keyboard",
			Price: decimal.NewFromInt(49),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		service, productRepo, categoryRepo, _ := newProductService(t)
		categoryID := uuid.New()

		productRepo.On("ExistsBySKU", ctx, "SKU-1").Return(false, nil)
		categoryRepo.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, CreateProductRequest{
			SKU:        "SKU-1",
			Name:       "Keyboard",
			Price:      decimal.NewFromInt(49),
			CategoryID: &categoryID,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes product, hides reviews and mints undo token", func(t *testing.T) {
		service, productRepo, _, reviewRepo := newProductService(t)
		product := mustNewProduct(t)
		hidden := []uuid.UUID{uuid.New(), uuid.New()}

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("SoftDelete", ctx, product.ID, (*uuid.UUID)(nil)).Return(nil)
		reviewRepo.On("HideByProduct", ctx, product.ID).Return(hidden, nil)

		result, err := service.Delete(ctx, product.ID, nil, softdelete.Options{})

		require.NoError(t, err)
		assert.NotEmpty(t, result.UndoToken)
		assert.False(t, result.UndoExpiresAt.IsZero())
		productRepo.AssertExpectations(t)
		reviewRepo.AssertExpectations(t)
	})

	t.Run("undo restores product and republishes hidden reviews", func(t *testing.T) {
		service, productRepo, _, reviewRepo := newProductService(t)
		product := mustNewProduct(t)
		hidden := []uuid.UUID{uuid.New()}

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("SoftDelete", ctx, product.ID, (*uuid.UUID)(nil)).Return(nil)
		productRepo.On("Restore", ctx, product.ID).Return(nil)
		reviewRepo.On("HideByProduct", ctx, product.ID).Return(hidden, nil)
		reviewRepo.On("UnhideByProduct", ctx, product.ID, hidden).Return(nil)

		result, err := service.Delete(ctx, product.ID, nil, softdelete.Options{})
		require.NoError(t, err)

		restored, err := service.Undo(ctx, result.UndoToken)

		require.NoError(t, err)
		assert.Contains(t, restored.Message, "restored")
		reviewRepo.AssertCalled(t, "UnhideByProduct", ctx, product.ID, hidden)
	})

	t.Run("failed hide rolls the product back", func(t *testing.T) {
		service, productRepo, _, reviewRepo := newProductService(t)
		product := mustNewProduct(t)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("SoftDelete", ctx, product.ID, (*uuid.UUID)(nil)).Return(nil)
		productRepo.On("Restore", ctx, product.ID).Return(nil)
		reviewRepo.On("HideByProduct", ctx, product.ID).Return(nil, assert.AnError)
		// no reviews were hidden, so the compensating write is a no-op
		reviewRepo.On("UnhideByProduct", ctx, product.ID, []uuid.UUID(nil)).Return(nil)

		_, err := service.Delete(ctx, product.ID, nil, softdelete.Options{})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DELETE_FAILED", domainErr.Code)
		productRepo.AssertCalled(t, "Restore", ctx, product.ID)
	})

	t.Run("missing product is reported before anything runs", func(t *testing.T) {
		service, productRepo, _, _ := newProductService(t)
		productID := uuid.New()

		productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := service.Delete(ctx, productID, nil, softdelete.Options{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_BulkDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("bulk delete and undo round trip", func(t *testing.T) {
		service, productRepo, _, _ := newProductService(t)
		ids := []uuid.UUID{uuid.New(), uuid.New()}

		productRepo.On("SoftDeleteBatch", ctx, ids, (*uuid.UUID)(nil)).Return(int64(2), nil)
		productRepo.On("RestoreBatch", ctx, ids).Return(int64(2), nil)

		result, err := service.BulkDelete(ctx, ids, nil, softdelete.Options{})
		require.NoError(t, err)
		assert.Contains(t, result.Message, "2 product(s) deleted")
		require.NotEmpty(t, result.UndoToken)

		restored, err := service.BulkUndo(ctx, result.UndoToken)
		require.NoError(t, err)
		assert.Contains(t, restored.Message, "2 product(s) restored")
		productRepo.AssertExpectations(t)
	})

	t.Run("empty id list is rejected", func(t *testing.T) {
		service, productRepo, _, _ := newProductService(t)

		_, err := service.BulkDelete(ctx, nil, nil, softdelete.Options{})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		productRepo.AssertNotCalled(t, "SoftDeleteBatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("single token cannot drive a bulk undo", func(t *testing.T) {
		service, productRepo, _, reviewRepo := newProductService(t)
		product := mustNewProduct(t)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("SoftDelete", ctx, product.ID, (*uuid.UUID)(nil)).Return(nil)
		reviewRepo.On("HideByProduct", ctx, product.ID).Return([]uuid.UUID{}, nil)

		result, err := service.Delete(ctx, product.ID, nil, softdelete.Options{})
		require.NoError(t, err)

		_, err = service.BulkUndo(ctx, result.UndoToken)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNDO_TOKEN_MISMATCH", domainErr.Code)
	})
}
