package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veloretail/bulkcart-backend/pkg/db/models"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/pagination"
)

// Service exposes catalog read operations.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID, viewer enums.UserType) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

// ListProductsInput captures the inputs to paginate the catalog for a viewer.
type ListProductsInput struct {
	Viewer     enums.UserType
	Pagination pagination.Params
}

type catalogReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int, corporateOnlyVisible bool) ([]models.Product, error)
}

type service struct {
	repo catalogReader
}

// NewService constructs the catalog service.
func NewService(repo catalogReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct returns one product. Corporate-only listings are hidden from
// individual viewers rather than revealed as forbidden.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID, viewer enums.UserType) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	corporate := viewer == enums.UserTypeCorporate
	if product.CorporateOnly && !corporate {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	return NewProductDTO(product, corporate), nil
}

// ListProducts returns one catalog page for the viewer.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	corporate := input.Viewer == enums.UserTypeCorporate

	rows, err := s.repo.List(ctx, cursor, pagination.LimitWithBuffer(input.Pagination.Limit), corporate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	result := &ProductListResult{Products: make([]ProductDTO, 0, limit)}
	if len(rows) > limit {
		result.HasMore = true
		rows = rows[:limit]
	}
	for i := range rows {
		result.Products = append(result.Products, *NewProductDTO(&rows[i], corporate))
	}
	if result.HasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}
