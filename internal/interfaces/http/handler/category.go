package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/application/softdelete"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// Create handles POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}
	req.CreatedBy = getUserID(c)

	resp, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /categories/:id
func (h *CategoryHandler) GetByID(c *gin.Context) {
	categoryID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	resp, err := h.categoryService.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	var filter catalogapp.CategoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	page, err := h.categoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	resp, err := h.categoryService.Update(c.Request.Context(), categoryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid category ID")
		return
	}

	opts := softdelete.Options{
		SkipUndoToken: c.Query("permanent") == "true",
	}
	result, err := h.categoryService.Delete(c.Request.Context(), categoryID, getUserID(c), opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, result)
}

// Undo handles POST /categories/undo
func (h *CategoryHandler) Undo(c *gin.Context) {
	var req dto.UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	result, err := h.categoryService.Undo(c.Request.Context(), req.UndoToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
