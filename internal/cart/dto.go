package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veloretail/bulkcart-backend/pkg/db/models"
)

// CartDTO is the client view of a cart. An absent cart serializes as an
// empty item list, never an error.
type CartDTO struct {
	ID        *uuid.UUID      `json:"id,omitempty"`
	Items     []CartItemDTO   `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

// CartItemDTO is one product line with its price snapshot.
type CartItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NewCartDTO maps the persisted cart, tallying line totals as it goes.
func NewCartDTO(cart *models.Cart) *CartDTO {
	dto := &CartDTO{
		Items:    []CartItemDTO{},
		Subtotal: decimal.Zero,
	}
	if cart == nil {
		return dto
	}

	dto.ID = &cart.ID
	dto.UpdatedAt = &cart.UpdatedAt
	for _, item := range cart.Items {
		line := CartItemDTO{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			LineTotal:   item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.SKU = item.Product.SKU
		}
		dto.Items = append(dto.Items, line)
		dto.ItemCount += item.Quantity
		dto.Subtotal = dto.Subtotal.Add(line.LineTotal)
	}
	return dto
}
