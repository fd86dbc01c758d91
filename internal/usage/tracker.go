package usage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
)

// Tracker records which form values a garage actually uses so dropdowns can
// rank them. Recording is fire-and-forget from the callers' point of view;
// the write itself is a single atomic upsert.
type Tracker struct {
	repo  *Repository
	clock func() time.Time
}

func NewTracker(repo *Repository) *Tracker {
	return &Tracker{repo: repo, clock: time.Now}
}

// Record bumps the counter for (garage, field, value).
func (t *Tracker) Record(ctx context.Context, garageID uuid.UUID, field, value string) error {
	field = strings.TrimSpace(strings.ToLower(field))
	value = strings.TrimSpace(value)
	if garageID == uuid.Nil || field == "" || value == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "usage key requires garage, field and value")
	}
	if err := t.repo.Upsert(ctx, garageID, field, value, t.clock().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record usage")
	}
	return nil
}

// Top returns the highest-ranked values for a field.
func (t *Tracker) Top(ctx context.Context, garageID uuid.UUID, field string, limit int) ([]models.UsageCounter, error) {
	counters, err := t.repo.TopValues(ctx, garageID, strings.TrimSpace(strings.ToLower(field)), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rank usage")
	}
	return counters, nil
}
