package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products.
// Soft-deleted rows are excluded from all queries unless stated otherwise.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// SoftDelete stamps deleted_at/deleted_by on a live row.
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error
	// SoftDeleteBatch stamps all given live rows in one write and returns the
	// number of rows affected.
	SoftDeleteBatch(ctx context.Context, ids []uuid.UUID, deletedBy *uuid.UUID) (int64, error)
	// Restore clears the soft-delete columns on a deleted row.
	Restore(ctx context.Context, id uuid.UUID) error
	// RestoreBatch clears the soft-delete columns on all given deleted rows.
	RestoreBatch(ctx context.Context, ids []uuid.UUID) (int64, error)
}
