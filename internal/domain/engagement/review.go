package engagement

import (
	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// ReviewStatus represents the moderation status of a review
type ReviewStatus string

const (
	ReviewStatusPublished ReviewStatus = "published"
	ReviewStatusHidden    ReviewStatus = "hidden"
)

// Review represents a customer review of a product
type Review struct {
	shared.AuditedAggregateRoot
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	Rating    int          `gorm:"not null"`
	Title     string       `gorm:"type:varchar(200)"`
	Body      string       `gorm:"type:text"`
	Status    ReviewStatus `gorm:"type:varchar(20);not null;default:'published'"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a new published review
func NewReview(productID, userID uuid.UUID, rating int, title, body string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Review title cannot exceed 200 characters")
	}

	return &Review{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		ProductID:            productID,
		UserID:               userID,
		Rating:               rating,
		Title:                title,
		Body:                 body,
		Status:               ReviewStatusPublished,
	}, nil
}

// Hide withdraws the review from public listings
func (r *Review) Hide() {
	r.Status = ReviewStatusHidden
	r.Touch()
	r.IncrementVersion()
}

// Publish makes the review publicly visible
func (r *Review) Publish() {
	r.Status = ReviewStatusPublished
	r.Touch()
	r.IncrementVersion()
}

// IsPublished returns true if the review is publicly visible
func (r *Review) IsPublished() bool {
	return r.Status == ReviewStatusPublished
}
