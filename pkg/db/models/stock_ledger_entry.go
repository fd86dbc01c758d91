package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// StockLedgerEntry records an immutable stock movement for a part. Replaying
// a part's entries in creation order over its initial stock reproduces the
// current stock exactly; the store exposes no update or delete for them.
type StockLedgerEntry struct {
	ID           uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PartID       uuid.UUID          `gorm:"column:part_id;type:uuid;not null;index"`
	AllocationID *uuid.UUID         `gorm:"column:allocation_id;type:uuid"`
	TxnType      enums.StockTxnType `gorm:"column:txn_type;type:stock_txn_type_enum;not null"`
	Qty          int                `gorm:"column:qty;not null"`
	UnitPrice    decimal.Decimal    `gorm:"column:unit_price;type:numeric(12,2);not null;default:0"`
	StockBefore  int                `gorm:"column:stock_before;not null"`
	StockAfter   int                `gorm:"column:stock_after;not null"`
	ActorID      uuid.UUID          `gorm:"column:actor_id;type:uuid;not null"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}
