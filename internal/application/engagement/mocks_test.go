package engagement

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/engagement"
	"github.com/shop/backend/internal/domain/shared"
)

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]engagement.Review, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]engagement.Review), args.Error(1)
}

func (m *MockReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, review *engagement.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error {
	args := m.Called(ctx, id, deletedBy)
	return args.Error(0)
}

func (m *MockReviewRepository) SoftDeleteBatch(ctx context.Context, ids []uuid.UUID, deletedBy *uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids, deletedBy)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Restore(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) RestoreBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) HideByProduct(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockReviewRepository) UnhideByProduct(ctx context.Context, productID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, productID, ids)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error {
	args := m.Called(ctx, id, deletedBy)
	return args.Error(0)
}

func (m *MockProductRepository) SoftDeleteBatch(ctx context.Context, ids []uuid.UUID, deletedBy *uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids, deletedBy)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Restore(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// interface conformance checks
var (
	_ engagement.ReviewRepository = (*MockReviewRepository)(nil)
	_ catalog.ProductRepository   = (*MockProductRepository)(nil)
)
