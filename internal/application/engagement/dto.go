package engagement

import (
	"time"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/engagement"
)

// CreateReviewRequest represents a request to post a review
type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Title     string    `json:"title" binding:"max=200"`
	Body      string    `json:"body" binding:"max=5000"`
	UserID    uuid.UUID `json:"-"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewListFilter represents filter options for review listings
type ReviewListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=published hidden"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BulkDeleteReviewsRequest represents a moderation request to remove several
// reviews at once
type BulkDeleteReviewsRequest struct {
	ReviewIDs []uuid.UUID `json:"review_ids" binding:"required,min=1"`
}

// ToReviewResponse converts a domain Review to ReviewResponse
func ToReviewResponse(r *engagement.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Title:     r.Title,
		Body:      r.Body,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToReviewResponses converts a slice of domain Reviews
func ToReviewResponses(reviews []engagement.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses
}
