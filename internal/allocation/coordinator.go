package allocation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/internal/catalog"
	"github.com/garagehub/garagehub-backend/internal/ledger"
	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/logger"
	"github.com/garagehub/garagehub-backend/pkg/metrics"
)

// Coordinator allocates parts to a job card. The batch of Allocation records
// lands atomically; the per-line ledger append and stock decrement are
// independent sub-steps whose failures are reported in the result, never
// rolled into a single error.
type Coordinator interface {
	Allocate(ctx context.Context, jobCardID, actorID uuid.UUID, lines []RequestedLine) (*Result, error)
}

// CatalogStore is the coordinator's view of the parts catalog.
type CatalogStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Part, error)
	DecrementOnHand(ctx context.Context, id uuid.UUID, qty int) error
	DecrementOnHandStrict(ctx context.Context, id uuid.UUID, qty int) (bool, error)
}

// LedgerStore appends immutable stock movements.
type LedgerStore interface {
	Append(ctx context.Context, dto ledger.AppendEntryDTO) (*models.StockLedgerEntry, error)
}

// LineStore persists allocation line items.
type LineStore interface {
	InsertBatch(ctx context.Context, allocations []*models.PartAllocation) error
	ListByJobCard(ctx context.Context, jobCardID uuid.UUID) ([]models.PartAllocation, error)
}

// JobCardStore resolves cards and maintains their aggregate estimate.
type JobCardStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.JobCard, error)
	AddToEstimatedPartsCost(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// UsageRecorder is the optional hook for form-ranking counters.
type UsageRecorder interface {
	Record(ctx context.Context, garageID uuid.UUID, field, value string) error
}

// CoordinatorParams packages the coordinator's dependencies. StrictStock
// switches the stock step from clamp-at-zero to reject-on-insufficient.
type CoordinatorParams struct {
	JobCards    JobCardStore
	Lines       LineStore
	Catalog     CatalogStore
	Ledger      LedgerStore
	Usage       UsageRecorder
	Metrics     *metrics.CoordinatorMetrics
	Logger      *logger.Logger
	StrictStock bool
}

type coordinator struct {
	jobCards    JobCardStore
	lines       LineStore
	catalog     CatalogStore
	ledger      LedgerStore
	usage       UsageRecorder
	metrics     *metrics.CoordinatorMetrics
	logg        *logger.Logger
	strictStock bool
}

func NewCoordinator(params CoordinatorParams) (Coordinator, error) {
	if params.JobCards == nil || params.Lines == nil || params.Catalog == nil || params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "job card, line, catalog and ledger stores required")
	}
	return &coordinator{
		jobCards:    params.JobCards,
		lines:       params.Lines,
		catalog:     params.Catalog,
		ledger:      params.Ledger,
		usage:       params.Usage,
		metrics:     params.Metrics,
		logg:        params.Logger,
		strictStock: params.StrictStock,
	}, nil
}

func (c *coordinator) Allocate(ctx context.Context, jobCardID, actorID uuid.UUID, lines []RequestedLine) (*Result, error) {
	started := time.Now()
	defer func() { c.metrics.ObserveAllocationDuration(time.Since(started)) }()

	if err := validateLines(actorID, lines); err != nil {
		return nil, err
	}

	card, err := c.jobCards.FindByID(ctx, jobCardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve job card")
	}

	// Catalog metadata is copied onto each line up front so later catalog
	// edits never rewrite allocation history. Lookup is best-effort; a
	// missing part only costs the display fields at this stage.
	allocations := make([]*models.PartAllocation, len(lines))
	for i, line := range lines {
		record := &models.PartAllocation{
			JobCardID:     card.ID,
			PartID:        line.PartID,
			Description:   strings.TrimSpace(line.Description),
			Qty:           line.Qty,
			UnitPrice:     line.UnitPrice,
			Source:        line.Source,
			Status:        enums.AllocationStatusRequested,
			Category:      catalog.DefaultCategory,
			RequestedByID: actorID,
		}
		if line.PartID != nil {
			if part, perr := c.catalog.FindByID(ctx, *line.PartID); perr == nil {
				if part.Category != "" {
					record.Category = part.Category
				}
				record.Manufacturer = part.Manufacturer
				if record.Description == "" {
					record.Description = part.Name
				}
			}
		}
		allocations[i] = record
	}

	// The batch is the commit point: all lines exist or none do.
	if err := c.lines.InsertBatch(ctx, allocations); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert allocation batch").
			WithCorrelationID("")
	}

	result := &Result{JobCardID: card.ID, EstimateUpdated: true}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	if err := c.jobCards.AddToEstimatedPartsCost(ctx, card.ID, total); err != nil {
		result.EstimateUpdated = false
		if c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "update estimated parts cost")
		}
	}

	for i, line := range lines {
		outcome := c.applyStock(ctx, allocations[i], line, actorID)
		result.Lines = append(result.Lines, outcome)
		c.metrics.IncAllocationLine(outcome.Outcome)
		if outcome.Outcome == LineFailed || outcome.Outcome == LineRejected {
			result.Partial = true
		}
	}

	c.recordCategoryUsage(ctx, card.GarageID, allocations)

	// Fresh read so callers see every line now on the card, including ones
	// from earlier submissions.
	if all, lerr := c.lines.ListByJobCard(ctx, card.ID); lerr == nil {
		result.Allocations = all
	} else if c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", lerr.Error()), "reload job card allocations")
	}

	return result, nil
}

// applyStock runs one line's ledger/stock sub-transaction: re-fetch stock,
// append the movement, decrement on-hand. Only inventory-sourced lines with a
// real part reference touch stock.
func (c *coordinator) applyStock(ctx context.Context, record *models.PartAllocation, line RequestedLine, actorID uuid.UUID) LineResult {
	outcome := LineResult{
		AllocationID: record.ID,
		PartID:       line.PartID,
		Source:       line.Source,
		RequestedQty: line.Qty,
	}
	if line.Source != enums.PartSourceInventory || line.PartID == nil {
		outcome.Outcome = LineSkipped
		return outcome
	}

	part, err := c.catalog.FindByID(ctx, *line.PartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome.Outcome = LineFailed
			outcome.Reason = "part no longer exists"
			return outcome
		}
		return c.failLine(ctx, outcome, "fetch part stock", err)
	}

	if c.strictStock {
		return c.applyStrict(ctx, outcome, part, record, line, actorID)
	}
	return c.applyClamped(ctx, outcome, part, record, line, actorID)
}

// applyClamped truncates the decrement at zero stock. The ledger entry
// records the quantity actually moved so replaying entries still reproduces
// the counter.
func (c *coordinator) applyClamped(ctx context.Context, outcome LineResult, part *models.Part, record *models.PartAllocation, line RequestedLine, actorID uuid.UUID) LineResult {
	applied := line.Qty
	if applied > part.OnHandQty {
		applied = part.OnHandQty
	}
	stockBefore := part.OnHandQty + part.WarehouseQty

	if _, err := c.ledger.Append(ctx, ledger.AppendEntryDTO{
		PartID:       part.ID,
		AllocationID: &record.ID,
		TxnType:      enums.StockTxnTypeAllocation,
		Qty:          applied,
		UnitPrice:    line.UnitPrice,
		StockBefore:  stockBefore,
		StockAfter:   stockBefore - applied,
		ActorID:      actorID,
	}); err != nil {
		return c.failLine(ctx, outcome, "append ledger entry", err)
	}

	if err := c.catalog.DecrementOnHand(ctx, part.ID, line.Qty); err != nil {
		return c.failLine(ctx, outcome, "decrement stock", err)
	}

	outcome.AppliedQty = applied
	if applied < line.Qty {
		outcome.Outcome = LineClamped
		outcome.Reason = fmt.Sprintf("requested %d, only %d on hand; stock floored at zero", line.Qty, applied)
	} else {
		outcome.Outcome = LineApplied
	}
	return outcome
}

// applyStrict refuses the decrement when stock cannot cover the request. The
// guard in the conditional UPDATE settles races, so the decrement runs before
// the ledger append and the ledger never records a movement that was not
// applied.
func (c *coordinator) applyStrict(ctx context.Context, outcome LineResult, part *models.Part, record *models.PartAllocation, line RequestedLine, actorID uuid.UUID) LineResult {
	stockBefore := part.OnHandQty + part.WarehouseQty

	applied, err := c.catalog.DecrementOnHandStrict(ctx, part.ID, line.Qty)
	if err != nil {
		return c.failLine(ctx, outcome, "decrement stock", err)
	}
	if !applied {
		outcome.Outcome = LineRejected
		outcome.Reason = fmt.Sprintf("requested %d, only %d on hand", line.Qty, part.OnHandQty)
		return outcome
	}

	if _, err := c.ledger.Append(ctx, ledger.AppendEntryDTO{
		PartID:       part.ID,
		AllocationID: &record.ID,
		TxnType:      enums.StockTxnTypeAllocation,
		Qty:          line.Qty,
		UnitPrice:    line.UnitPrice,
		StockBefore:  stockBefore,
		StockAfter:   stockBefore - line.Qty,
		ActorID:      actorID,
	}); err != nil {
		return c.failLine(ctx, outcome, "append ledger entry", err)
	}

	outcome.AppliedQty = line.Qty
	outcome.Outcome = LineApplied
	return outcome
}

// failLine reports a store failure on one line without exposing store error
// text; the correlation id in the log ties the two together.
func (c *coordinator) failLine(ctx context.Context, outcome LineResult, step string, err error) LineResult {
	correlationID := uuid.NewString()
	if c.logg != nil {
		lctx := c.logg.WithFields(ctx, map[string]any{
			"allocation_id":  outcome.AllocationID.String(),
			"correlation_id": correlationID,
		})
		c.logg.Error(lctx, step+" failed", err)
	}
	outcome.Outcome = LineFailed
	outcome.Reason = fmt.Sprintf("%s failed [ref %s]", step, correlationID)
	return outcome
}

func (c *coordinator) recordCategoryUsage(ctx context.Context, garageID uuid.UUID, allocations []*models.PartAllocation) {
	if c.usage == nil {
		return
	}
	for _, record := range allocations {
		if record.Category == "" {
			continue
		}
		if err := c.usage.Record(ctx, garageID, "category", record.Category); err != nil && c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "record category usage")
		}
	}
}

func validateLines(actorID uuid.UUID, lines []RequestedLine) error {
	fields := map[string]string{}

	if actorID == uuid.Nil {
		fields["actor_id"] = "is required"
	}
	if len(lines) == 0 {
		fields["lines"] = "must contain at least one line"
	}
	for i, line := range lines {
		if line.Qty < 1 {
			fields[fmt.Sprintf("lines[%d].qty", i)] = "must be at least 1"
		}
		if line.UnitPrice.IsNegative() {
			fields[fmt.Sprintf("lines[%d].unit_price", i)] = "must not be negative"
		}
		if !line.Source.IsValid() {
			fields[fmt.Sprintf("lines[%d].source", i)] = "is not a recognized source"
		}
	}

	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields)
	}
	return nil
}
