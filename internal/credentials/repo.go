package credentials

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
)

// Repository exposes credential persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a credentials repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new credential and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateCredentialDTO) (*models.UserCredential, error) {
	credential := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(credential).Error; err != nil {
		return nil, err
	}
	return credential, nil
}

// FindByHandle retrieves the credential matching the login handle.
func (r *Repository) FindByHandle(ctx context.Context, handle string) (*models.UserCredential, error) {
	var credential models.UserCredential
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&credential).Error; err != nil {
		return nil, err
	}
	return &credential, nil
}

// FindByEmployeeID retrieves the credential paired with the employee.
func (r *Repository) FindByEmployeeID(ctx context.Context, employeeID uuid.UUID) (*models.UserCredential, error) {
	var credential models.UserCredential
	if err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&credential).Error; err != nil {
		return nil, err
	}
	return &credential, nil
}

// SetPasswordHash stores the hash for a credential that had none.
func (r *Repository) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.UserCredential{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}
