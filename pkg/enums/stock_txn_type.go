package enums

import "fmt"

// StockTxnType maps to the stock_txn_type_enum enum in Postgres.
type StockTxnType string

const (
	StockTxnTypeAllocation StockTxnType = "allocation"
	StockTxnTypeReturn     StockTxnType = "return"
	StockTxnTypeAdjustment StockTxnType = "adjustment"
)

var validStockTxnTypes = []StockTxnType{
	StockTxnTypeAllocation,
	StockTxnTypeReturn,
	StockTxnTypeAdjustment,
}

// IsValid reports whether the value matches the canonical stock movement enum.
func (t StockTxnType) IsValid() bool {
	for _, candidate := range validStockTxnTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStockTxnType converts raw input into a StockTxnType.
func ParseStockTxnType(value string) (StockTxnType, error) {
	for _, candidate := range validStockTxnTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock transaction type %q", value)
}
