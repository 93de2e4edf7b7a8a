package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/application/softdelete"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	deleter      *softdelete.Manager
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	deleter *softdelete.Manager,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		deleter:      deleter,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	// Codes are stored uppercased, so the uniqueness check has to match.
	exists, err := s.categoryRepo.ExistsByCode(ctx, strings.ToUpper(req.Code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this code already exists")
	}

	var category *catalog.Category
	if req.ParentID != nil {
		parent, err := s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return nil, err
		}
		category, err = catalog.NewChildCategory(req.Code, req.Name, parent)
		if err != nil {
			return nil, err
		}
	} else {
		category, err = catalog.NewCategory(req.Code, req.Name)
		if err != nil {
			return nil, err
		}
	}

	if req.Description != "" {
		if err := category.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}
	if req.CreatedBy != nil {
		category.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves a list of categories with filtering and pagination
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) (*shared.Paginated[CategoryResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = ""
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.RootOnly {
		domainFilter.Filters["parent_id"] = nil
	}

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToCategoryResponses(categories), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := category.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := category.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := category.Update(name, description); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete soft-deletes a category. A category that still has children or
// products cannot be deleted; the checks run inside the delete operation so a
// failed guard surfaces as a structured error and nothing is written.
func (s *CategoryService) Delete(ctx context.Context, categoryID uuid.UUID, deletedBy *uuid.UUID, opts softdelete.Options) (*softdelete.Result, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	return s.deleter.Delete(ctx, "category", categoryID.String(), func(ctx context.Context) (any, error) {
		hasChildren, err := s.categoryRepo.HasChildren(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if hasChildren {
			return nil, shared.NewDomainError("HAS_CHILDREN", "Category has child categories and cannot be deleted")
		}

		productCount, err := s.productRepo.CountByCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if productCount > 0 {
			return nil, shared.NewDomainError("HAS_PRODUCTS", "Category still has products and cannot be deleted")
		}

		if err := s.categoryRepo.SoftDelete(ctx, categoryID, deletedBy); err != nil {
			return nil, err
		}
		return ToCategoryResponse(category), nil
	}, opts)
}

// Undo reverses a category deletion identified by its undo token
func (s *CategoryService) Undo(ctx context.Context, token string) (*softdelete.Result, error) {
	return s.deleter.Undo(ctx, token, func(ctx context.Context, meta softdelete.SingleDeletion) (any, error) {
		categoryID, err := uuid.Parse(meta.EntityID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Undo token references a malformed category id")
		}
		if err := s.categoryRepo.Restore(ctx, categoryID); err != nil {
			return nil, err
		}
		category, err := s.categoryRepo.FindByID(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		return ToCategoryResponse(category), nil
	})
}
