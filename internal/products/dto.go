package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veloretail/bulkcart-backend/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients. Corporate pricing
// is only attached for corporate viewers.
type ProductDTO struct {
	ID               uuid.UUID            `json:"id"`
	SKU              string               `json:"sku"`
	Name             string               `json:"name"`
	Description      *string              `json:"description,omitempty"`
	MRP              decimal.Decimal      `json:"mrp"`
	SellingPrice     decimal.Decimal      `json:"selling_price"`
	Discount         decimal.Decimal      `json:"discount"`
	Currency         string               `json:"currency"`
	CorporatePricing *CorporatePricingDTO `json:"corporate_pricing,omitempty"`
	CorporateOnly    bool                 `json:"corporate_only"`
	StockStatus      string               `json:"stock_status"`
	StockQuantity    int                  `json:"stock_quantity"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// CorporatePricingDTO mirrors the tier schedule for corporate viewers.
type CorporatePricingDTO struct {
	MinimumOrderQuantity int            `json:"minimum_order_quantity"`
	PriceTiers           []PriceTierDTO `json:"price_tiers"`
	CustomQuoteThreshold *int           `json:"custom_quote_threshold,omitempty"`
}

// PriceTierDTO represents one quantity band of the schedule.
type PriceTierDTO struct {
	MinQuantity  int             `json:"min_quantity"`
	MaxQuantity  *int            `json:"max_quantity,omitempty"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Discount     decimal.Decimal `json:"discount"`
}

// ProductListResult is one page of catalog results.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
	HasMore    bool         `json:"has_more"`
}

// NewProductDTO maps the persisted model into the client payload.
// includeCorporate controls whether the tier schedule is exposed.
func NewProductDTO(product *models.Product, includeCorporate bool) *ProductDTO {
	dto := &ProductDTO{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		MRP:           product.RetailPrice.MRP,
		SellingPrice:  product.RetailPrice.SellingPrice,
		Discount:      product.RetailPrice.Discount,
		Currency:      product.RetailPrice.Currency,
		CorporateOnly: product.CorporateOnly,
		StockStatus:   string(product.StockStatus),
		StockQuantity: product.StockQuantity,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}

	if includeCorporate && product.CorporatePricing != nil && product.CorporatePricing.Enabled {
		cp := product.CorporatePricing
		tiers := make([]PriceTierDTO, len(cp.PriceTiers))
		for i, tier := range cp.PriceTiers {
			tiers[i] = PriceTierDTO{
				MinQuantity:  tier.MinQuantity,
				MaxQuantity:  tier.MaxQuantity,
				PricePerUnit: tier.PricePerUnit,
				Discount:     tier.Discount,
			}
		}
		dto.CorporatePricing = &CorporatePricingDTO{
			MinimumOrderQuantity: cp.MOQ(),
			PriceTiers:           tiers,
			CustomQuoteThreshold: cp.CustomQuoteThreshold,
		}
	}

	return dto
}
