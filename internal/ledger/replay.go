package ledger

import (
	"fmt"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// Replay folds entries in order over an initial stock value and returns the
// resulting stock. Allocations subtract, returns and adjustments add the
// signed quantity. Used by reconciliation to audit a part's counters.
func Replay(initial int, entries []models.StockLedgerEntry) (int, error) {
	stock := initial
	for _, entry := range entries {
		switch entry.TxnType {
		case enums.StockTxnTypeAllocation:
			stock -= entry.Qty
		case enums.StockTxnTypeReturn, enums.StockTxnTypeAdjustment:
			stock += entry.Qty
		default:
			return 0, fmt.Errorf("unknown ledger txn type %q", entry.TxnType)
		}
	}
	return stock, nil
}

// Verify replays entries and checks each entry's before/after snapshot
// against the running value. It returns the first inconsistency found.
func Verify(initial int, entries []models.StockLedgerEntry) error {
	stock := initial
	for i, entry := range entries {
		if entry.StockBefore != stock {
			return fmt.Errorf("entry %d: stock_before = %d, replay says %d", i, entry.StockBefore, stock)
		}
		next, err := Replay(stock, entries[i:i+1])
		if err != nil {
			return err
		}
		if entry.StockAfter != next {
			return fmt.Errorf("entry %d: stock_after = %d, replay says %d", i, entry.StockAfter, next)
		}
		stock = next
	}
	return nil
}
