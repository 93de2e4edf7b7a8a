package engagement

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// ReviewRepository defines persistence operations for reviews.
// Soft-deleted rows are excluded from all queries unless stated otherwise.
type ReviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)
	CountByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, review *Review) error

	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error
	SoftDeleteBatch(ctx context.Context, ids []uuid.UUID, deletedBy *uuid.UUID) (int64, error)
	Restore(ctx context.Context, id uuid.UUID) error
	RestoreBatch(ctx context.Context, ids []uuid.UUID) (int64, error)

	// HideByProduct withdraws every published review of a product from public
	// listings and returns the affected IDs. UnhideByProduct is its
	// compensating write and only touches the IDs it is given, so reviews
	// hidden before the product was deleted stay hidden.
	HideByProduct(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error)
	UnhideByProduct(ctx context.Context, productID uuid.UUID, ids []uuid.UUID) error
}
