package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageCounter ranks form field values per garage (most-used categories,
// manufacturers). Exactly one row exists per (garage, field, value) key;
// increments happen through a single atomic upsert.
type UsageCounter struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GarageID   uuid.UUID `gorm:"column:garage_id;type:uuid;not null;uniqueIndex:idx_usage_counters_key"`
	Field      string    `gorm:"column:field;type:text;not null;uniqueIndex:idx_usage_counters_key"`
	Value      string    `gorm:"column:value;type:text;not null;uniqueIndex:idx_usage_counters_key"`
	Count      int       `gorm:"column:count;not null;default:0"`
	LastUsedAt time.Time `gorm:"column:last_used_at;not null"`
}
