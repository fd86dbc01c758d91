package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	"github.com/garagehub/garagehub-backend/pkg/pagination"
)

// Repository exposes parts persistence. Stock movements never go through a
// caller-side read-modify-write; both decrement variants are single UPDATE
// statements that stay correct under concurrent allocations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new catalog item.
func (r *Repository) Create(ctx context.Context, dto CreatePartDTO) (*models.Part, error) {
	part := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}

// FindByID loads a part without tenant scoping. Coordinator use only.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	var part models.Part
	if err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// FindForGarage loads a part scoped to the given garage.
func (r *Repository) FindForGarage(ctx context.Context, garageID, id uuid.UUID) (*models.Part, error) {
	var part models.Part
	if err := r.db.WithContext(ctx).
		First(&part, "id = ? AND garage_id = ?", id, garageID).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// ListByGarage returns a page of the garage's parts, newest first.
func (r *Repository) ListByGarage(ctx context.Context, garageID uuid.UUID, params pagination.Params) ([]models.Part, error) {
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

	var parts []models.Part
	if err := query.Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// DecrementOnHand atomically subtracts qty from the part's on-hand stock,
// flooring at zero, and re-derives the stock tag in the same statement. The
// CASE expressions read the pre-update on_hand_qty on every backend.
func (r *Repository) DecrementOnHand(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"on_hand_qty": gorm.Expr(
				"CASE WHEN on_hand_qty - ? < 0 THEN 0 ELSE on_hand_qty - ? END",
				qty, qty,
			),
			"stock_status": gorm.Expr(
				"CASE WHEN on_hand_qty - ? <= 0 THEN ? WHEN on_hand_qty - ? <= ? THEN ? ELSE ? END",
				qty, enums.StockStatusOutOfStock,
				qty, enums.LowStockThreshold, enums.StockStatusLowStock,
				enums.StockStatusInStock,
			),
		}).Error
}

// DecrementOnHandStrict subtracts qty only when the part has at least that
// much on hand. Returns false when the guard rejected the update, which also
// covers losing a race to a concurrent allocation.
func (r *Repository) DecrementOnHandStrict(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ? AND on_hand_qty >= ?", id, qty).
		Updates(map[string]any{
			"on_hand_qty": gorm.Expr("on_hand_qty - ?", qty),
			"stock_status": gorm.Expr(
				"CASE WHEN on_hand_qty - ? <= 0 THEN ? WHEN on_hand_qty - ? <= ? THEN ? ELSE ? END",
				qty, enums.StockStatusOutOfStock,
				qty, enums.LowStockThreshold, enums.StockStatusLowStock,
				enums.StockStatusInStock,
			),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementOnHand adds returned or adjusted stock back and re-derives the tag.
func (r *Repository) IncrementOnHand(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"on_hand_qty": gorm.Expr("on_hand_qty + ?", qty),
			"stock_status": gorm.Expr(
				"CASE WHEN on_hand_qty + ? <= 0 THEN ? WHEN on_hand_qty + ? <= ? THEN ? ELSE ? END",
				qty, enums.StockStatusOutOfStock,
				qty, enums.LowStockThreshold, enums.StockStatusLowStock,
				enums.StockStatusInStock,
			),
		}).Error
}
