package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/veloretail/bulkcart-backend/pkg/db/models"
	"github.com/veloretail/bulkcart-backend/pkg/enums"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
)

func intPtr(v int) *int { return &v }

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func tieredProduct() *models.Product {
	return &models.Product{
		RetailPrice: models.RetailPrice{SellingPrice: dec("100")},
		CorporatePricing: &models.CorporatePricing{
			Enabled:              true,
			MinimumOrderQuantity: 1,
			PriceTiers: []models.PriceTier{
				{MinQuantity: 10, MaxQuantity: intPtr(49), PricePerUnit: dec("90")},
				{MinQuantity: 50, PricePerUnit: dec("80")},
			},
		},
	}
}

func TestResolveTierSchedule(t *testing.T) {
	t.Parallel()

	product := tieredProduct()

	cases := []struct {
		quantity  int
		wantPrice string
		wantTier  bool
	}{
		{5, "100", false},
		{10, "90", true},
		{49, "90", true},
		{50, "80", true},
		{1000, "80", true},
	}
	for _, tc := range cases {
		res, err := Resolve(product, enums.UserTypeCorporate, tc.quantity)
		if err != nil {
			t.Fatalf("qty %d: %v", tc.quantity, err)
		}
		if !res.UnitPrice.Equal(dec(tc.wantPrice)) {
			t.Fatalf("qty %d: expected %s, got %s", tc.quantity, tc.wantPrice, res.UnitPrice)
		}
		if (res.TierApplied != nil) != tc.wantTier {
			t.Fatalf("qty %d: tier applied = %v, want %v", tc.quantity, res.TierApplied != nil, tc.wantTier)
		}
	}
}

func TestResolveIndividualIgnoresTiers(t *testing.T) {
	t.Parallel()

	res, err := Resolve(tieredProduct(), enums.UserTypeIndividual, 100)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.UnitPrice.Equal(dec("100")) || res.TierApplied != nil {
		t.Fatalf("expected retail price for individual, got %+v", res)
	}
}

func TestResolveDisabledCorporatePricing(t *testing.T) {
	t.Parallel()

	product := tieredProduct()
	product.CorporatePricing.Enabled = false

	res, err := Resolve(product, enums.UserTypeCorporate, 100)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.UnitPrice.Equal(dec("100")) || res.TierApplied != nil || res.RequiresQuote {
		t.Fatalf("expected retail fallback, got %+v", res)
	}
}

func TestResolveEqualMinQuantityPrefersCheaper(t *testing.T) {
	t.Parallel()

	product := tieredProduct()
	product.CorporatePricing.PriceTiers = []models.PriceTier{
		{MinQuantity: 10, PricePerUnit: dec("92")},
		{MinQuantity: 10, PricePerUnit: dec("88")},
	}

	res, err := Resolve(product, enums.UserTypeCorporate, 20)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.UnitPrice.Equal(dec("88")) {
		t.Fatalf("expected the cheaper of equal tiers, got %s", res.UnitPrice)
	}
}

func TestResolveNoCoveringTierFallsBack(t *testing.T) {
	t.Parallel()

	product := tieredProduct()
	product.CorporatePricing.PriceTiers = []models.PriceTier{
		{MinQuantity: 100, PricePerUnit: dec("70")},
	}

	res, err := Resolve(product, enums.UserTypeCorporate, 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.UnitPrice.Equal(dec("100")) || res.TierApplied != nil {
		t.Fatalf("expected retail fallback below all tiers, got %+v", res)
	}
}

func TestResolveCustomQuoteThreshold(t *testing.T) {
	t.Parallel()

	product := tieredProduct()
	product.CorporatePricing.CustomQuoteThreshold = intPtr(500)

	below, err := Resolve(product, enums.UserTypeCorporate, 499)
	if err != nil {
		t.Fatalf("resolve below: %v", err)
	}
	if below.RequiresQuote {
		t.Fatal("quantity below threshold should not require a quote")
	}

	at, err := Resolve(product, enums.UserTypeCorporate, 500)
	if err != nil {
		t.Fatalf("resolve at: %v", err)
	}
	if !at.RequiresQuote {
		t.Fatal("quantity at threshold should require a quote")
	}
	// price still resolves alongside the quote flag
	if !at.UnitPrice.Equal(dec("80")) {
		t.Fatalf("expected tier price with quote flag, got %s", at.UnitPrice)
	}
}

func TestResolveRetailFallbackChain(t *testing.T) {
	t.Parallel()

	legacy := dec("42.50")
	cases := []struct {
		name    string
		product *models.Product
		want    string
	}{
		{"selling price", &models.Product{RetailPrice: models.RetailPrice{SellingPrice: dec("10")}}, "10"},
		{"legacy price", &models.Product{LegacyPrice: &legacy}, "42.50"},
		{"no price at all", &models.Product{}, "0"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := Resolve(tc.product, enums.UserTypeIndividual, 1)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if !res.UnitPrice.Equal(dec(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, res.UnitPrice)
			}
		})
	}
}

func TestResolveNilProduct(t *testing.T) {
	t.Parallel()

	_, err := Resolve(nil, enums.UserTypeCorporate, 1)
	if err == nil {
		t.Fatal("expected error for nil product")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
