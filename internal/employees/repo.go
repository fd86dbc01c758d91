package employees

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/pagination"
)

// Repository exposes employee persistence operations. Each method issues a
// single statement against the backend.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an employees repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new employee and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateEmployeeDTO) (*models.Employee, error) {
	employee := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

// FindByID loads an employee by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByHandleOrEmail retrieves the first employee matching either value.
// The handle is unique across the whole system, not per garage.
func (r *Repository) FindByHandleOrEmail(ctx context.Context, handle, email string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).
		Where("handle = ? OR email = ?", handle, email).
		First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// Delete removes the employee row. Used only by provisioning compensation.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id).Error
}

// ListByGarage returns a page of employees for the garage, newest first.
func (r *Repository) ListByGarage(ctx context.Context, garageID uuid.UUID, params pagination.Params) ([]models.Employee, error) {
	query := r.db.WithContext(ctx).
		Where("garage_id = ?", garageID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// SetActive flips the employee's active flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active).Error
}
