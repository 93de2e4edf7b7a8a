package engagement

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/shared"
)

func TestNewReview(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()

	t.Run("creates published review with valid inputs", func(t *testing.T) {
		review, err := NewReview(productID, userID, 4, "Solid", "Does what it says.")
		require.NoError(t, err)

		assert.Equal(t, productID, review.ProductID)
		assert.Equal(t, userID, review.UserID)
		assert.Equal(t, 4, review.Rating)
		assert.Equal(t, ReviewStatusPublished, review.Status)
		assert.True(t, review.IsPublished())
	})

	t.Run("rejects rating below 1", func(t *testing.T) {
		_, err := NewReview(productID, userID, 0, "", "")
		assertDomainError(t, err, "INVALID_RATING")
	})

	t.Run("rejects rating above 5", func(t *testing.T) {
		_, err := NewReview(productID, userID, 6, "", "")
		assertDomainError(t, err, "INVALID_RATING")
	})

	t.Run("rejects overlong title", func(t *testing.T) {
		_, err := NewReview(productID, userID, 3, strings.Repeat("x", 201), "")
		assertDomainError(t, err, "INVALID_TITLE")
	})
}

func TestReview_Visibility(t *testing.T) {
	review, err := NewReview(uuid.New(), uuid.New(), 5, "Great", "")
	require.NoError(t, err)

	review.Hide()
	assert.Equal(t, ReviewStatusHidden, review.Status)
	assert.False(t, review.IsPublished())

	review.Publish()
	assert.True(t, review.IsPublished())
}

func assertDomainError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
