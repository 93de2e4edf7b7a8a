package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// CategoryRepository defines persistence operations for categories.
// Soft-deleted rows are excluded from all queries unless stated otherwise.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, category *Category) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	HasChildren(ctx context.Context, categoryID uuid.UUID) (bool, error)

	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
}
