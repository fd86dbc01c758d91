package allocation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/internal/catalog"
	"github.com/garagehub/garagehub-backend/internal/ledger"
	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
)

type fakeJobCardStore struct {
	card       *models.JobCard
	estimate   decimal.Decimal
	updateErr  error
	addedDelta decimal.Decimal
}

func (f *fakeJobCardStore) FindByID(_ context.Context, id uuid.UUID) (*models.JobCard, error) {
	if f.card == nil || f.card.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.card, nil
}

func (f *fakeJobCardStore) AddToEstimatedPartsCost(_ context.Context, _ uuid.UUID, delta decimal.Decimal) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.addedDelta = delta
	f.estimate = f.estimate.Add(delta)
	return nil
}

type fakeLineStore struct {
	insertErr error
	inserted  []*models.PartAllocation
}

func (f *fakeLineStore) InsertBatch(_ context.Context, allocations []*models.PartAllocation) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, record := range allocations {
		record.ID = uuid.New()
	}
	f.inserted = append(f.inserted, allocations...)
	return nil
}

func (f *fakeLineStore) ListByJobCard(_ context.Context, jobCardID uuid.UUID) ([]models.PartAllocation, error) {
	var out []models.PartAllocation
	for _, record := range f.inserted {
		if record.JobCardID == jobCardID {
			out = append(out, *record)
		}
	}
	return out, nil
}

type fakeCatalogStore struct {
	parts        map[uuid.UUID]*models.Part
	decrementErr error
}

func (f *fakeCatalogStore) FindByID(_ context.Context, id uuid.UUID) (*models.Part, error) {
	part, ok := f.parts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *part
	return &snapshot, nil
}

func (f *fakeCatalogStore) DecrementOnHand(_ context.Context, id uuid.UUID, qty int) error {
	if f.decrementErr != nil {
		return f.decrementErr
	}
	part := f.parts[id]
	part.OnHandQty -= qty
	if part.OnHandQty < 0 {
		part.OnHandQty = 0
	}
	part.StockStatus = enums.StockStatusFor(part.OnHandQty)
	return nil
}

func (f *fakeCatalogStore) DecrementOnHandStrict(_ context.Context, id uuid.UUID, qty int) (bool, error) {
	if f.decrementErr != nil {
		return false, f.decrementErr
	}
	part := f.parts[id]
	if part.OnHandQty < qty {
		return false, nil
	}
	part.OnHandQty -= qty
	part.StockStatus = enums.StockStatusFor(part.OnHandQty)
	return true, nil
}

type fakeLedgerStore struct {
	appendErr  error
	failPartID uuid.UUID
	entries    []ledger.AppendEntryDTO
}

func (f *fakeLedgerStore) Append(_ context.Context, dto ledger.AppendEntryDTO) (*models.StockLedgerEntry, error) {
	if f.appendErr != nil && (f.failPartID == uuid.Nil || f.failPartID == dto.PartID) {
		return nil, f.appendErr
	}
	f.entries = append(f.entries, dto)
	return &models.StockLedgerEntry{ID: uuid.New(), PartID: dto.PartID}, nil
}

type fakeUsageRecorder struct {
	records []string
}

func (f *fakeUsageRecorder) Record(_ context.Context, _ uuid.UUID, field, value string) error {
	f.records = append(f.records, field+"="+value)
	return nil
}

type fixture struct {
	jobCards *fakeJobCardStore
	lines    *fakeLineStore
	catalog  *fakeCatalogStore
	ledger   *fakeLedgerStore
	usage    *fakeUsageRecorder
}

func newFixture() *fixture {
	return &fixture{
		jobCards: &fakeJobCardStore{card: &models.JobCard{
			ID:       uuid.New(),
			GarageID: uuid.New(),
			Number:   "JC-20260829-AB12CD",
			Status:   enums.JobCardStatusOpen,
		}},
		lines:   &fakeLineStore{},
		catalog: &fakeCatalogStore{parts: map[uuid.UUID]*models.Part{}},
		ledger:  &fakeLedgerStore{},
		usage:   &fakeUsageRecorder{},
	}
}

func (f *fixture) addPart(onHand int, category string) *models.Part {
	part := &models.Part{
		ID:           uuid.New(),
		GarageID:     f.jobCards.card.GarageID,
		PartNumber:   "PN-" + uuid.NewString()[:8],
		Name:         "Oil Filter",
		Category:     category,
		Manufacturer: "Bosch",
		OnHandQty:    onHand,
		StockStatus:  enums.StockStatusFor(onHand),
	}
	f.catalog.parts[part.ID] = part
	return part
}

func (f *fixture) coordinator(t *testing.T, strict bool) Coordinator {
	t.Helper()
	coord, err := NewCoordinator(CoordinatorParams{
		JobCards:    f.jobCards,
		Lines:       f.lines,
		Catalog:     f.catalog,
		Ledger:      f.ledger,
		Usage:       f.usage,
		StrictStock: strict,
	})
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	return coord
}

func TestAllocateClampsOversizedInventoryLine(t *testing.T) {
	f := newFixture()
	part := f.addPart(3, "Filters")
	coord := f.coordinator(t, false)
	actorID := uuid.New()

	price := decimal.NewFromFloat(10.00)
	result, err := coord.Allocate(context.Background(), f.jobCards.card.ID, actorID, []RequestedLine{
		{PartID: &part.ID, Qty: 5, UnitPrice: price, Source: enums.PartSourceInventory},
		{Description: "Customer supplied wiper blades", Qty: 1, UnitPrice: decimal.Zero, Source: enums.PartSourceCustomer},
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if len(f.lines.inserted) != 2 {
		t.Fatalf("allocations created = %d, want 2", len(f.lines.inserted))
	}
	if len(result.Lines) != 2 {
		t.Fatalf("line results = %d, want 2", len(result.Lines))
	}

	inv := result.Lines[0]
	if inv.Outcome != LineClamped {
		t.Errorf("inventory outcome = %s, want %s", inv.Outcome, LineClamped)
	}
	if inv.RequestedQty != 5 || inv.AppliedQty != 3 {
		t.Errorf("requested/applied = %d/%d, want 5/3", inv.RequestedQty, inv.AppliedQty)
	}
	if cust := result.Lines[1]; cust.Outcome != LineSkipped {
		t.Errorf("customer outcome = %s, want %s", cust.Outcome, LineSkipped)
	}

	if part.OnHandQty != 0 {
		t.Errorf("on_hand = %d, want 0 (floor)", part.OnHandQty)
	}
	if len(f.ledger.entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(f.ledger.entries))
	}
	entry := f.ledger.entries[0]
	if entry.Qty != 3 || entry.StockBefore != 3 || entry.StockAfter != 0 {
		t.Errorf("ledger qty/before/after = %d/%d/%d, want 3/3/0", entry.Qty, entry.StockBefore, entry.StockAfter)
	}
	if entry.AllocationID == nil || *entry.AllocationID != inv.AllocationID {
		t.Error("ledger entry should reference the allocation line")
	}

	if !result.EstimateUpdated {
		t.Error("estimate should be updated")
	}
	if want := decimal.NewFromFloat(50.00); !f.jobCards.addedDelta.Equal(want) {
		t.Errorf("estimate delta = %s, want %s", f.jobCards.addedDelta, want)
	}
	if len(result.Allocations) != 2 {
		t.Errorf("fresh read = %d allocations, want 2", len(result.Allocations))
	}
}

func TestAllocateStrictRejectsInsufficientStock(t *testing.T) {
	f := newFixture()
	part := f.addPart(3, "Filters")
	coord := f.coordinator(t, true)

	result, err := coord.Allocate(context.Background(), f.jobCards.card.ID, uuid.New(), []RequestedLine{
		{PartID: &part.ID, Qty: 5, UnitPrice: decimal.NewFromInt(10), Source: enums.PartSourceInventory},
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if result.Lines[0].Outcome != LineRejected {
		t.Errorf("outcome = %s, want %s", result.Lines[0].Outcome, LineRejected)
	}
	if !result.Partial {
		t.Error("rejected line should mark the result partial")
	}
	if part.OnHandQty != 3 {
		t.Errorf("on_hand = %d, want untouched 3", part.OnHandQty)
	}
	if len(f.ledger.entries) != 0 {
		t.Errorf("ledger entries = %d, want none for a rejected line", len(f.ledger.entries))
	}
	// The allocation record itself still exists; only the stock step refused.
	if len(f.lines.inserted) != 1 {
		t.Errorf("allocations created = %d, want 1", len(f.lines.inserted))
	}
}

func TestAllocateBatchInsertFailureHasNoSideEffects(t *testing.T) {
	f := newFixture()
	part := f.addPart(10, "Filters")
	f.lines.insertErr = errors.New("connection reset")
	coord := f.coordinator(t, false)

	_, err := coord.Allocate(context.Background(), f.jobCards.card.ID, uuid.New(), []RequestedLine{
		{PartID: &part.ID, Qty: 2, UnitPrice: decimal.NewFromInt(5), Source: enums.PartSourceInventory},
	})

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("code = %v, want %s", err, pkgerrors.CodeDependency)
	}
	if part.OnHandQty != 10 {
		t.Errorf("on_hand = %d, want untouched 10", part.OnHandQty)
	}
	if len(f.ledger.entries) != 0 {
		t.Errorf("ledger entries = %d, want 0", len(f.ledger.entries))
	}
	if !f.jobCards.estimate.IsZero() {
		t.Errorf("estimate = %s, want untouched 0", f.jobCards.estimate)
	}
}

func TestAllocateLineFailureDoesNotBlockOtherLines(t *testing.T) {
	f := newFixture()
	partA := f.addPart(10, "Filters")
	partB := f.addPart(10, "Brakes")
	f.ledger.appendErr = errors.New("write refused")
	f.ledger.failPartID = partA.ID
	coord := f.coordinator(t, false)

	result, err := coord.Allocate(context.Background(), f.jobCards.card.ID, uuid.New(), []RequestedLine{
		{PartID: &partA.ID, Qty: 2, UnitPrice: decimal.NewFromInt(5), Source: enums.PartSourceInventory},
		{PartID: &partB.ID, Qty: 3, UnitPrice: decimal.NewFromInt(5), Source: enums.PartSourceInventory},
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if result.Lines[0].Outcome != LineFailed {
		t.Errorf("line 0 outcome = %s, want %s", result.Lines[0].Outcome, LineFailed)
	}
	if result.Lines[1].Outcome != LineApplied {
		t.Errorf("line 1 outcome = %s, want %s", result.Lines[1].Outcome, LineApplied)
	}
	if !result.Partial {
		t.Error("a failed line should mark the result partial")
	}
	// The failed line must not leak store error text.
	if strings.Contains(result.Lines[0].Reason, "write refused") {
		t.Errorf("reason %q leaks store error text", result.Lines[0].Reason)
	}
	if partA.OnHandQty != 10 {
		t.Errorf("part A on_hand = %d, want untouched 10", partA.OnHandQty)
	}
	if partB.OnHandQty != 7 {
		t.Errorf("part B on_hand = %d, want 7", partB.OnHandQty)
	}
}

func TestAllocateCopiesCatalogMetadata(t *testing.T) {
	f := newFixture()
	part := f.addPart(10, "Filters")
	coord := f.coordinator(t, false)

	if _, err := coord.Allocate(context.Background(), f.jobCards.card.ID, uuid.New(), []RequestedLine{
		{PartID: &part.ID, Qty: 1, UnitPrice: decimal.NewFromInt(5), Source: enums.PartSourceInventory},
		{Description: "Towing fee bracket", Qty: 1, UnitPrice: decimal.NewFromInt(30), Source: enums.PartSourceExternal},
	}); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if got := f.lines.inserted[0]; got.Category != "Filters" || got.Manufacturer != "Bosch" {
		t.Errorf("catalog metadata = %q/%q, want Filters/Bosch", got.Category, got.Manufacturer)
	}
	if got := f.lines.inserted[1]; got.Category != catalog.DefaultCategory {
		t.Errorf("category = %q, want default %q", got.Category, catalog.DefaultCategory)
	}
}

func TestAllocateRecordsCategoryUsage(t *testing.T) {
	f := newFixture()
	part := f.addPart(10, "Filters")
	coord := f.coordinator(t, false)

	if _, err := coord.Allocate(context.Background(), f.jobCards.card.ID, uuid.New(), []RequestedLine{
		{PartID: &part.ID, Qty: 1, UnitPrice: decimal.NewFromInt(5), Source: enums.PartSourceInventory},
	}); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if len(f.usage.records) != 1 || f.usage.records[0] != "category=Filters" {
		t.Errorf("usage records = %v, want [category=Filters]", f.usage.records)
	}
}

func TestAllocateUnknownJobCard(t *testing.T) {
	f := newFixture()
	coord := f.coordinator(t, false)

	_, err := coord.Allocate(context.Background(), uuid.New(), uuid.New(), []RequestedLine{
		{Description: "anything", Qty: 1, UnitPrice: decimal.Zero, Source: enums.PartSourceCustomer},
	})

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("code = %v, want %s", err, pkgerrors.CodeNotFound)
	}
}

func TestAllocateValidation(t *testing.T) {
	f := newFixture()
	coord := f.coordinator(t, false)

	cases := []struct {
		name  string
		actor uuid.UUID
		lines []RequestedLine
		field string
	}{
		{"no lines", uuid.New(), nil, "lines"},
		{"missing actor", uuid.Nil, []RequestedLine{{Qty: 1, Source: enums.PartSourceCustomer}}, "actor_id"},
		{"zero qty", uuid.New(), []RequestedLine{{Qty: 0, Source: enums.PartSourceCustomer}}, "lines[0].qty"},
		{"negative price", uuid.New(), []RequestedLine{{Qty: 1, UnitPrice: decimal.NewFromInt(-1), Source: enums.PartSourceCustomer}}, "lines[0].unit_price"},
		{"bad source", uuid.New(), []RequestedLine{{Qty: 1, Source: "junkyard"}}, "lines[0].source"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coord.Allocate(context.Background(), f.jobCards.card.ID, tc.actor, tc.lines)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("code = %v, want %s", err, pkgerrors.CodeValidation)
			}
			fields, ok := typed.Details().(map[string]string)
			if !ok {
				t.Fatalf("details = %v, want field map", typed.Details())
			}
			if _, found := fields[tc.field]; !found {
				t.Errorf("details %v should flag %q", fields, tc.field)
			}
		})
	}
}
