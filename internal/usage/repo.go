package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
)

// Repository persists form-ranking counters. Upsert is a single atomic
// INSERT ... ON CONFLICT statement so concurrent increments of the same key
// never lose updates.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates the counter at 1 or bumps it by one, in one statement.
func (r *Repository) Upsert(ctx context.Context, garageID uuid.UUID, field, value string, now time.Time) error {
	counter := models.UsageCounter{
		GarageID:   garageID,
		Field:      field,
		Value:      value,
		Count:      1,
		LastUsedAt: now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "garage_id"}, {Name: "field"}, {Name: "value"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count":        gorm.Expr("count + 1"),
				"last_used_at": now,
			}),
		}).
		Create(&counter).Error
}

// TopValues returns the most used values for a field, highest count first.
func (r *Repository) TopValues(ctx context.Context, garageID uuid.UUID, field string, limit int) ([]models.UsageCounter, error) {
	if limit <= 0 {
		limit = 10
	}
	var counters []models.UsageCounter
	if err := r.db.WithContext(ctx).
		Where("garage_id = ? AND field = ?", garageID, field).
		Order("count DESC, value ASC").
		Limit(limit).
		Find(&counters).Error; err != nil {
		return nil, err
	}
	return counters, nil
}
