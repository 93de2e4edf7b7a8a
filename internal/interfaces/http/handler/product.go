package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/application/softdelete"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// BulkDeleteProductsRequest represents a request to delete several products
type BulkDeleteProductsRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids" binding:"required,min=1"`
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}
	req.CreatedBy = getUserID(c)

	resp, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	page, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	resp, err := h.productService.Update(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /products/:id. The response carries an undo token
// unless permanent=true was requested.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	opts := softdelete.Options{
		SkipUndoToken: c.Query("permanent") == "true",
	}
	result, err := h.productService.Delete(c.Request.Context(), productID, getUserID(c), opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, result)
}

// BulkDelete handles POST /products/bulk-delete
func (h *ProductHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	result, err := h.productService.BulkDelete(c.Request.Context(), req.ProductIDs, getUserID(c), softdelete.Options{})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, result)
}

// Undo handles POST /products/undo
func (h *ProductHandler) Undo(c *gin.Context) {
	var req dto.UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	result, err := h.productService.Undo(c.Request.Context(), req.UndoToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BulkUndo handles POST /products/bulk-undo
func (h *ProductHandler) BulkUndo(c *gin.Context) {
	var req dto.UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	result, err := h.productService.BulkUndo(c.Request.Context(), req.UndoToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
