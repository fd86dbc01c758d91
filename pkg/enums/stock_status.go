package enums

// StockStatus is the coarse availability tag shown in the parts catalog.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// LowStockThreshold is the on-hand count at or below which a part is tagged
// low_stock. Shared with the catalog repository's in-statement status update.
const LowStockThreshold = 5

// StockStatusFor derives the catalog tag from the on-hand count.
func StockStatusFor(onHand int) StockStatus {
	switch {
	case onHand <= 0:
		return StockStatusOutOfStock
	case onHand <= LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusInStock, StockStatusLowStock, StockStatusOutOfStock:
		return true
	}
	return false
}
