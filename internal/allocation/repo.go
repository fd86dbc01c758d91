package allocation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// Repository is the line-item store. InsertBatch is the only write path for
// allocation records in a submission; GORM issues it as one multi-row INSERT
// so the batch lands all-or-nothing.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertBatch writes all allocation records in a single statement.
func (r *Repository) InsertBatch(ctx context.Context, allocations []*models.PartAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(allocations).Error
}

// ListByJobCard returns every line on the card in creation order.
func (r *Repository) ListByJobCard(ctx context.Context, jobCardID uuid.UUID) ([]models.PartAllocation, error) {
	var allocations []models.PartAllocation
	if err := r.db.WithContext(ctx).
		Where("job_card_id = ?", jobCardID).
		Order("created_at ASC, id ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// SetStatus moves a line through requested → used/returned.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.AllocationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.PartAllocation{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
