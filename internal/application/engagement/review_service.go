package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/application/softdelete"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/engagement"
	"github.com/shop/backend/internal/domain/shared"
)

// ReviewService handles review posting and moderation
type ReviewService struct {
	reviewRepo  engagement.ReviewRepository
	productRepo catalog.ProductRepository
	deleter     *softdelete.Manager
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo engagement.ReviewRepository,
	productRepo catalog.ProductRepository,
	deleter *softdelete.Manager,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		deleter:     deleter,
	}
}

// Create posts a new review on a product
func (s *ReviewService) Create(ctx context.Context, req CreateReviewRequest) (*ReviewResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
		}
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Cannot review an inactive product")
	}

	review, err := engagement.NewReview(req.ProductID, req.UserID, req.Rating, req.Title, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}

	response := ToReviewResponse(review)
	return &response, nil
}

// ListByProduct retrieves reviews for a product
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, filter ReviewListFilter) (*shared.Paginated[ReviewResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	reviews, err := s.reviewRepo.FindByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.reviewRepo.CountByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToReviewResponses(reviews), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Hide withdraws a review from public listings
func (s *ReviewService) Hide(ctx context.Context, reviewID uuid.UUID) (*ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	review.Hide()
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}
	response := ToReviewResponse(review)
	return &response, nil
}

// Publish makes a hidden review publicly visible again
func (s *ReviewService) Publish(ctx context.Context, reviewID uuid.UUID) (*ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	review.Publish()
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}
	response := ToReviewResponse(review)
	return &response, nil
}

// Delete soft-deletes a single review
func (s *ReviewService) Delete(ctx context.Context, reviewID uuid.UUID, deletedBy *uuid.UUID, opts softdelete.Options) (*softdelete.Result, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	return s.deleter.Delete(ctx, "review", reviewID.String(), func(ctx context.Context) (any, error) {
		if err := s.reviewRepo.SoftDelete(ctx, reviewID, deletedBy); err != nil {
			return nil, err
		}
		return ToReviewResponse(review), nil
	}, opts)
}

// BulkDelete soft-deletes several reviews in one batched write. The whole
// batch shares one undo token.
func (s *ReviewService) BulkDelete(ctx context.Context, reviewIDs []uuid.UUID, deletedBy *uuid.UUID, opts softdelete.Options) (*softdelete.Result, error) {
	ids := make([]string, len(reviewIDs))
	for i, id := range reviewIDs {
		ids[i] = id.String()
	}

	return s.deleter.BulkDelete(ctx, "review", ids, func(ctx context.Context, ids []string) (any, error) {
		uuids, err := parseIDs(ids)
		if err != nil {
			return nil, err
		}
		affected, err := s.reviewRepo.SoftDeleteBatch(ctx, uuids, deletedBy)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, shared.ErrNotFound
		}
		return affected, nil
	}, opts)
}

// Undo reverses a single review deletion identified by its undo token
func (s *ReviewService) Undo(ctx context.Context, token string) (*softdelete.Result, error) {
	return s.deleter.Undo(ctx, token, func(ctx context.Context, meta softdelete.SingleDeletion) (any, error) {
		reviewID, err := uuid.Parse(meta.EntityID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Undo token references a malformed review id")
		}
		if err := s.reviewRepo.Restore(ctx, reviewID); err != nil {
			return nil, err
		}
		review, err := s.reviewRepo.FindByID(ctx, reviewID)
		if err != nil {
			return nil, err
		}
		return ToReviewResponse(review), nil
	})
}

// BulkUndo reverses a bulk review deletion identified by its undo token
func (s *ReviewService) BulkUndo(ctx context.Context, token string) (*softdelete.Result, error) {
	return s.deleter.BulkUndo(ctx, token, func(ctx context.Context, meta softdelete.BulkDeletion) (any, error) {
		uuids, err := parseIDs(meta.EntityIDs)
		if err != nil {
			return nil, err
		}
		restored, err := s.reviewRepo.RestoreBatch(ctx, uuids)
		if err != nil {
			return nil, err
		}
		return restored, nil
	})
}

// parseIDs converts the string ids carried in token metadata back to UUIDs
func parseIDs(ids []string) ([]uuid.UUID, error) {
	uuids := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Malformed id %q", id))
		}
		uuids[i] = parsed
	}
	return uuids, nil
}
