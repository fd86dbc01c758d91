package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// AppendEntryDTO carries the fields for one immutable stock movement.
type AppendEntryDTO struct {
	PartID       uuid.UUID
	AllocationID *uuid.UUID
	TxnType      enums.StockTxnType
	Qty          int
	UnitPrice    decimal.Decimal
	StockBefore  int
	StockAfter   int
	ActorID      uuid.UUID
}

// Repository is the append-only store for stock movements. There is no
// update or delete; corrections are recorded as adjustment entries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append writes one ledger entry.
func (r *Repository) Append(ctx context.Context, dto AppendEntryDTO) (*models.StockLedgerEntry, error) {
	entry := &models.StockLedgerEntry{
		PartID:       dto.PartID,
		AllocationID: dto.AllocationID,
		TxnType:      dto.TxnType,
		Qty:          dto.Qty,
		UnitPrice:    dto.UnitPrice,
		StockBefore:  dto.StockBefore,
		StockAfter:   dto.StockAfter,
		ActorID:      dto.ActorID,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByPart returns all movements for a part in creation order, oldest
// first, so callers can replay them.
func (r *Repository) ListByPart(ctx context.Context, partID uuid.UUID) ([]models.StockLedgerEntry, error) {
	var entries []models.StockLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
