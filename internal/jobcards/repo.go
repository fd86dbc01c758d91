package jobcards

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	"github.com/garagehub/garagehub-backend/pkg/pagination"
)

// Repository exposes job card persistence, one statement per method.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create opens a new repair order.
func (r *Repository) Create(ctx context.Context, dto CreateJobCardDTO) (*models.JobCard, error) {
	card := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

// FindByID loads a job card without tenant scoping. Coordinator use only.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.JobCard, error) {
	var card models.JobCard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindForGarage loads a job card scoped to the given garage.
func (r *Repository) FindForGarage(ctx context.Context, garageID, id uuid.UUID) (*models.JobCard, error) {
	var card models.JobCard
	if err := r.db.WithContext(ctx).
		First(&card, "id = ? AND garage_id = ?", id, garageID).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// ListByGarage returns a page of the garage's job cards, newest first.
func (r *Repository) ListByGarage(ctx context.Context, garageID uuid.UUID, params pagination.Params) ([]models.JobCard, error) {
	query := r.db.WithContext(ctx).
		Where("garage_id = ?", garageID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var cards []models.JobCard
	if err := query.Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// AddToEstimatedPartsCost bumps the aggregate parts estimate atomically.
func (r *Repository) AddToEstimatedPartsCost(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.JobCard{}).
		Where("id = ?", id).
		UpdateColumn("estimated_parts_cost", gorm.Expr("estimated_parts_cost + ?", delta)).Error
}

// SetStatus moves the card to the given lifecycle state.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.JobCardStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.JobCard{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
