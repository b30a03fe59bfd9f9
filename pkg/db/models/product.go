package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
)

// PriceTier maps a quantity range to a per-unit price for corporate buyers.
// MaxQuantity nil means the tier is unbounded above.
type PriceTier struct {
	MinQuantity  int             `json:"min_quantity"`
	MaxQuantity  *int            `json:"max_quantity,omitempty"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Discount     decimal.Decimal `json:"discount"`
}

// Covers reports whether the tier applies to the requested quantity.
func (t PriceTier) Covers(quantity int) bool {
	if quantity < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == nil || quantity <= *t.MaxQuantity
}

// CorporatePricing is the alternate price schedule for corporate accounts.
// Stored as a JSON column on the product row.
type CorporatePricing struct {
	Enabled              bool        `json:"enabled"`
	MinimumOrderQuantity int         `json:"minimum_order_quantity"`
	PriceTiers           []PriceTier `json:"price_tiers"`
	CustomQuoteThreshold *int        `json:"custom_quote_threshold,omitempty"`
}

// MOQ returns the minimum order quantity, defaulting to 1 when unset.
func (c CorporatePricing) MOQ() int {
	if c.MinimumOrderQuantity < 1 {
		return 1
	}
	return c.MinimumOrderQuantity
}

// RetailPrice is the fallback price source when no corporate pricing applies.
type RetailPrice struct {
	MRP          decimal.Decimal `gorm:"column:mrp;type:numeric(12,2);not null;default:0" json:"mrp"`
	SellingPrice decimal.Decimal `gorm:"column:selling_price;type:numeric(12,2);not null;default:0" json:"selling_price"`
	Discount     decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null;default:0" json:"discount"`
	Currency     string          `gorm:"column:currency;type:text;not null;default:INR" json:"currency"`
}

// Product represents the canonical catalog listing consumed by the pricing
// and cart layers. Pricing/cart treat it as read-only.
type Product struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU              string            `gorm:"column:sku;not null;uniqueIndex"`
	Name             string            `gorm:"column:name;not null"`
	Description      *string           `gorm:"column:description"`
	RetailPrice      RetailPrice       `gorm:"embedded"`
	LegacyPrice      *decimal.Decimal  `gorm:"column:legacy_price;type:numeric(12,2)"`
	CorporatePricing *CorporatePricing `gorm:"column:corporate_pricing;type:jsonb;serializer:json"`
	CorporateOnly    bool              `gorm:"column:corporate_only;not null;default:false"`
	StockStatus      enums.StockStatus `gorm:"column:stock_status;type:text;not null;default:in_stock"`
	StockQuantity    int               `gorm:"column:stock_quantity;not null;default:0"`
	IsActive         bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
