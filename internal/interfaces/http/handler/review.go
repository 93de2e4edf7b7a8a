package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	engagementapp "github.com/shop/backend/internal/application/engagement"
	"github.com/shop/backend/internal/application/softdelete"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// ReviewHandler handles review posting and moderation endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *engagementapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *engagementapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Create handles POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req engagementapp.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}
	userID := getUserID(c)
	if userID == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required to post a review")
		return
	}
	req.UserID = *userID

	resp, err := h.reviewService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListByProduct handles GET /products/:id/reviews
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var filter engagementapp.ReviewListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	page, err := h.reviewService.ListByProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Hide handles POST /reviews/:id/hide
func (h *ReviewHandler) Hide(c *gin.Context) {
	reviewID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	resp, err := h.reviewService.Hide(c.Request.Context(), reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Publish handles POST /reviews/:id/publish
func (h *ReviewHandler) Publish(c *gin.Context) {
	reviewID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	resp, err := h.reviewService.Publish(c.Request.Context(), reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	opts := softdelete.Options{
		SkipUndoToken: c.Query("permanent") == "true",
	}
	result, err := h.reviewService.Delete(c.Request.Context(), reviewID, getUserID(c), opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, result)
}

// BulkDelete handles POST /reviews/bulk-delete, the moderation sweep
func (h *ReviewHandler) BulkDelete(c *gin.Context) {
	var req engagementapp.BulkDeleteReviewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	result, err := h.reviewService.BulkDelete(c.Request.Context(), req.ReviewIDs, getUserID(c), softdelete.Options{})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, result)
}

// Undo handles POST /reviews/undo
func (h *ReviewHandler) Undo(c *gin.Context) {
	var req dto.UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	result, err := h.reviewService.Undo(c.Request.Context(), req.UndoToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BulkUndo handles POST /reviews/bulk-undo
func (h *ReviewHandler) BulkUndo(c *gin.Context) {
	var req dto.UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	result, err := h.reviewService.BulkUndo(c.Request.Context(), req.UndoToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
