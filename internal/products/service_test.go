package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veloretail/bulkcart-backend/pkg/db/models"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/pagination"
)

type stubCatalog struct {
	products []models.Product
	listErr  error
}

func (s *stubCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalog) List(_ context.Context, cursor *pagination.Cursor, limit int, corporateOnlyVisible bool) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var rows []models.Product
	for _, p := range s.products {
		if p.CorporateOnly && !corporateOnlyVisible {
			continue
		}
		if cursor != nil && !p.CreatedAt.After(cursor.CreatedAt) {
			continue
		}
		rows = append(rows, p)
		if len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func testProduct(name string, createdAt time.Time, corporateOnly bool) models.Product {
	return models.Product{
		ID:          uuid.New(),
		SKU:         "SKU-" + uuid.NewString(),
		Name:        name,
		RetailPrice: models.RetailPrice{SellingPrice: decimal.NewFromInt(100), Currency: "INR"},
		CorporatePricing: &models.CorporatePricing{
			Enabled:              true,
			MinimumOrderQuantity: 10,
			PriceTiers:           []models.PriceTier{{MinQuantity: 10, PricePerUnit: decimal.NewFromInt(90)}},
		},
		CorporateOnly: corporateOnly,
		StockStatus:   enums.StockStatusInStock,
		IsActive:      true,
		CreatedAt:     createdAt,
	}
}

func TestGetProductHidesCorporatePricingFromIndividuals(t *testing.T) {
	t.Parallel()

	product := testProduct("Bulk Rice 25kg", time.Now(), false)
	svc, err := NewService(&stubCatalog{products: []models.Product{product}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetProduct(context.Background(), product.ID, enums.UserTypeIndividual)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.CorporatePricing != nil {
		t.Fatal("individual viewer should not see the tier schedule")
	}

	dto, err = svc.GetProduct(context.Background(), product.ID, enums.UserTypeCorporate)
	if err != nil {
		t.Fatalf("get corporate: %v", err)
	}
	if dto.CorporatePricing == nil || dto.CorporatePricing.MinimumOrderQuantity != 10 {
		t.Fatalf("corporate viewer should see the tier schedule, got %+v", dto.CorporatePricing)
	}
}

func TestGetProductCorporateOnlyHiddenFromIndividuals(t *testing.T) {
	t.Parallel()

	product := testProduct("Pallet Wrap", time.Now(), true)
	svc, err := NewService(&stubCatalog{products: []models.Product{product}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetProduct(context.Background(), product.ID, enums.UserTypeIndividual)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for individual viewer, got %v", err)
	}

	if _, err := svc.GetProduct(context.Background(), product.ID, enums.UserTypeCorporate); err != nil {
		t.Fatalf("corporate viewer should see corporate-only product: %v", err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCatalog{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	_, err = svc.GetProduct(context.Background(), uuid.New(), enums.UserTypeIndividual)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestListProductsPaginates(t *testing.T) {
	t.Parallel()

	base := time.Now().Add(-time.Hour)
	var all []models.Product
	for i := 0; i < 5; i++ {
		all = append(all, testProduct("Item", base.Add(time.Duration(i)*time.Minute), false))
	}
	svc, err := NewService(&stubCatalog{products: all})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	page, err := svc.ListProducts(context.Background(), ListProductsInput{
		Viewer:     enums.UserTypeIndividual,
		Pagination: pagination.Params{Limit: 2},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Products) != 2 || !page.HasMore || page.NextCursor == "" {
		t.Fatalf("unexpected first page: %+v", page)
	}

	next, err := svc.ListProducts(context.Background(), ListProductsInput{
		Viewer:     enums.UserTypeIndividual,
		Pagination: pagination.Params{Limit: 2, Cursor: page.NextCursor},
	})
	if err != nil {
		t.Fatalf("list next: %v", err)
	}
	if len(next.Products) != 2 {
		t.Fatalf("unexpected second page size: %d", len(next.Products))
	}
	if next.Products[0].ID == page.Products[0].ID {
		t.Fatal("second page repeated first page rows")
	}
}

func TestListProductsInvalidCursor(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCatalog{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	_, err = svc.ListProducts(context.Background(), ListProductsInput{
		Pagination: pagination.Params{Cursor: "garbage!"},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
