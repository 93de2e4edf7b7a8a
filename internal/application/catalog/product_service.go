package catalog

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

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	reviewRepo   engagement.ReviewRepository
	deleter      *softdelete.Manager
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	reviewRepo engagement.ReviewRepository,
	deleter *softdelete.Manager,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		deleter:      deleter,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.AssignCategory(*req.CategoryID)
	}
	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToProductResponses(products), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := product.ChangePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		product.AssignCategory(*req.CategoryID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete soft-deletes a product. The product's published reviews are hidden in
// the same operation, and the returned undo token reverses both writes within
// the undo window.
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID, deletedBy *uuid.UUID, opts softdelete.Options) (*softdelete.Result, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var hiddenReviews []uuid.UUID
	opts.AtomicOps = append(opts.AtomicOps, func(ctx context.Context) error {
		ids, err := s.reviewRepo.HideByProduct(ctx, productID)
		if err != nil {
			return err
		}
		hiddenReviews = ids
		return nil
	})
	opts.RollbackOps = append(opts.RollbackOps,
		// compensates the soft-delete write; tolerates an already-live row
		// because the undo path restores the product before rollback runs
		func(ctx context.Context) error {
			if err := s.productRepo.Restore(ctx, productID); err != nil && !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			return nil
		},
		func(ctx context.Context) error {
			return s.reviewRepo.UnhideByProduct(ctx, productID, hiddenReviews)
		},
	)

	return s.deleter.Delete(ctx, "product", productID.String(), func(ctx context.Context) (any, error) {
		if err := s.productRepo.SoftDelete(ctx, productID, deletedBy); err != nil {
			return nil, err
		}
		return ToProductResponse(product), nil
	}, opts)
}

// BulkDelete soft-deletes several products in one batched write
func (s *ProductService) BulkDelete(ctx context.Context, productIDs []uuid.UUID, deletedBy *uuid.UUID, opts softdelete.Options) (*softdelete.Result, error) {
	ids := make([]string, len(productIDs))
	for i, id := range productIDs {
		ids[i] = id.String()
	}

	return s.deleter.BulkDelete(ctx, "product", ids, func(ctx context.Context, ids []string) (any, error) {
		uuids, err := parseIDs(ids)
		if err != nil {
			return nil, err
		}
		affected, err := s.productRepo.SoftDeleteBatch(ctx, uuids, deletedBy)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, shared.ErrNotFound
		}
		return affected, nil
	}, opts)
}

// Undo reverses a single product deletion identified by its undo token
func (s *ProductService) Undo(ctx context.Context, token string) (*softdelete.Result, error) {
	return s.deleter.Undo(ctx, token, func(ctx context.Context, meta softdelete.SingleDeletion) (any, error) {
		productID, err := uuid.Parse(meta.EntityID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Undo token references a malformed product id")
		}
		if err := s.productRepo.Restore(ctx, productID); err != nil {
			return nil, err
		}
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		return ToProductResponse(product), nil
	})
}

// BulkUndo reverses a bulk product deletion identified by its undo token
func (s *ProductService) BulkUndo(ctx context.Context, token string) (*softdelete.Result, error) {
	return s.deleter.BulkUndo(ctx, token, func(ctx context.Context, meta softdelete.BulkDeletion) (any, error) {
		uuids, err := parseIDs(meta.EntityIDs)
		if err != nil {
			return nil, err
		}
		restored, err := s.productRepo.RestoreBatch(ctx, uuids)
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
