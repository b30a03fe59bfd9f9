package enums

import "fmt"

// StockStatus describes product availability for cart validation.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusPreOrder   StockStatus = "pre_order"
	StockStatusBackOrder  StockStatus = "back_order"
)

var validStockStatuses = []StockStatus{
	StockStatusInStock,
	StockStatusOutOfStock,
	StockStatusPreOrder,
	StockStatusBackOrder,
}

// IsValid reports whether the value matches the canonical stock status enum.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts the raw string to StockStatus.
func ParseStockStatus(value string) (StockStatus, error) {
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}

// BypassesQuantityCheck reports whether the status always passes availability
// validation. Pre-order and back-order items are sellable regardless of the
// on-hand quantity.
func (s StockStatus) BypassesQuantityCheck() bool {
	return s == StockStatusPreOrder || s == StockStatusBackOrder
}
