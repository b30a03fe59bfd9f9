package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/veloretail/bulkcart-backend/pkg/db/models"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
)

// Resolution is the outcome of resolving a unit price for one product line.
type Resolution struct {
	UnitPrice     decimal.Decimal
	TierApplied   *models.PriceTier
	RequiresQuote bool
}

// Resolve computes the per-unit price for the given buyer type and quantity.
// Corporate buyers get the tiered schedule when the product carries one;
// everyone else (and corporate buyers on products without an enabled
// schedule, or below every tier) falls back to retail. Resolve never fails
// for pricing reasons, only for a missing product.
func Resolve(product *models.Product, userType enums.UserType, quantity int) (*Resolution, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is required for pricing")
	}

	res := &Resolution{UnitPrice: retailFallback(product)}

	if userType != enums.UserTypeCorporate {
		return res, nil
	}
	cp := product.CorporatePricing
	if cp == nil || !cp.Enabled {
		return res, nil
	}

	if cp.CustomQuoteThreshold != nil && quantity >= *cp.CustomQuoteThreshold {
		res.RequiresQuote = true
	}

	if tier := selectTier(cp.PriceTiers, quantity); tier != nil {
		res.TierApplied = tier
		res.UnitPrice = tier.PricePerUnit
	}
	return res, nil
}

// selectTier picks the covering tier with the highest MinQuantity; when two
// covering tiers share a MinQuantity the cheaper one wins.
func selectTier(tiers []models.PriceTier, quantity int) *models.PriceTier {
	var best *models.PriceTier
	for i := range tiers {
		tier := &tiers[i]
		if !tier.Covers(quantity) {
			continue
		}
		switch {
		case best == nil:
			best = tier
		case tier.MinQuantity > best.MinQuantity:
			best = tier
		case tier.MinQuantity == best.MinQuantity && tier.PricePerUnit.LessThan(best.PricePerUnit):
			best = tier
		}
	}
	if best == nil {
		return nil
	}
	picked := *best
	return &picked
}

// retailFallback resolves the non-tiered price: selling price, then the
// legacy flat price carried over from the old catalog, then zero.
func retailFallback(product *models.Product) decimal.Decimal {
	if product.RetailPrice.SellingPrice.IsPositive() {
		return product.RetailPrice.SellingPrice
	}
	if product.LegacyPrice != nil && product.LegacyPrice.IsPositive() {
		return *product.LegacyPrice
	}
	return decimal.Zero
}
