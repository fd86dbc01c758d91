package allocation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// RequestedLine is one part line submitted against a job card. PartID is nil
// for customer-supplied or externally sourced parts with no catalog entry.
type RequestedLine struct {
	PartID      *uuid.UUID       `json:"part_id"`
	Description string           `json:"description"`
	Qty         int              `json:"qty"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Source      enums.PartSource `json:"source"`
}

// Per-line stock outcomes. Lines whose source is not inventory, or which
// carry no part reference, skip the ledger/stock step entirely.
const (
	LineApplied  = "applied"
	LineClamped  = "clamped"
	LineSkipped  = "skipped"
	LineRejected = "rejected"
	LineFailed   = "failed"
)

// LineResult reports what happened to a single line's ledger/stock step.
// A failed line does not undo the line's Allocation record; the caller sees
// the partial outcome instead of an error.
type LineResult struct {
	AllocationID uuid.UUID        `json:"allocation_id"`
	PartID       *uuid.UUID       `json:"part_id,omitempty"`
	Source       enums.PartSource `json:"source"`
	Outcome      string           `json:"outcome"`
	RequestedQty int              `json:"requested_qty"`
	AppliedQty   int              `json:"applied_qty"`
	Reason       string           `json:"reason,omitempty"`
}

// Result is the full report of one allocation submission. Allocations is a
// fresh read of every line now on the job card, not just this batch.
type Result struct {
	JobCardID       uuid.UUID               `json:"job_card_id"`
	Lines           []LineResult            `json:"lines"`
	Allocations     []models.PartAllocation `json:"allocations"`
	EstimateUpdated bool                    `json:"estimate_updated"`
	Partial         bool                    `json:"partial"`
}
