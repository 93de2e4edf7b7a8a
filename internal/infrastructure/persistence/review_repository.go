package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/engagement"
	"github.com/shop/backend/internal/domain/shared"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a live review by its ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Review, error) {
	var review engagement.Review
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// FindByProduct finds live reviews for a product, newest first
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]engagement.Review, error) {
	var reviews []engagement.Review
	query := r.db.WithContext(ctx).
		Model(&engagement.Review{}).
		Where("product_id = ?", productID)
	if !filter.IncludeDeleted {
		query = query.Where("deleted_at IS NULL")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ReviewSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// CountByProduct counts reviews for a product matching the filter
func (r *GormReviewRepository) CountByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&engagement.Review{}).
		Where("product_id = ?", productID)
	if !filter.IncludeDeleted {
		query = query.Where("deleted_at IS NULL")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, review *engagement.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// SoftDelete stamps the soft-delete columns on a live review
func (r *GormReviewRepository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy *uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&engagement.Review{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"deleted_by": deletedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SoftDeleteBatch stamps the soft-delete columns on the given live reviews
// and reports how many rows were affected.
func (r *GormReviewRepository) SoftDeleteBatch(ctx context.Context, ids []uuid.UUID, deletedBy *uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&engagement.Review{}).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"deleted_by": deletedBy,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Restore clears the soft-delete columns on a deleted review
func (r *GormReviewRepository) Restore(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&engagement.Review{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"deleted_by": nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RestoreBatch clears the soft-delete columns on the given deleted reviews
func (r *GormReviewRepository) RestoreBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&engagement.Review{}).
		Where("id IN ? AND deleted_at IS NOT NULL", ids).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"deleted_by": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// HideByProduct hides all published live reviews of a product and returns
// the IDs that were hidden so the operation can be reversed.
func (r *GormReviewRepository) HideByProduct(ctx context.Context, productID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&engagement.Review{}).
			Where("product_id = ? AND status = ? AND deleted_at IS NULL", productID, engagement.ReviewStatusPublished).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&engagement.Review{}).
			Where("id IN ?", ids).
			Update("status", engagement.ReviewStatusHidden).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UnhideByProduct republishes the given reviews of a product
func (r *GormReviewRepository) UnhideByProduct(ctx context.Context, productID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&engagement.Review{}).
		Where("product_id = ? AND id IN ?", productID, ids).
		Update("status", engagement.ReviewStatusPublished).Error
}

// Ensure GormReviewRepository implements ReviewRepository
var _ engagement.ReviewRepository = (*GormReviewRepository)(nil)
