package employees

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/pagination"
)

// Service exposes read and lifecycle operations on staff identities.
// Creation goes through the Provisioner, not here.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Get loads a single employee scoped to the caller's garage.
func (s *Service) Get(ctx context.Context, garageID, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load employee")
	}
	if employee.GarageID != garageID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
	}
	return employee, nil
}

// List returns a page of the garage's staff, newest first.
func (s *Service) List(ctx context.Context, garageID uuid.UUID, params pagination.Params) ([]models.Employee, *pagination.Page, error) {
	items, err := s.repo.ListByGarage(ctx, garageID, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list employees")
	}
	page := pagination.BuildPage(len(items), params.Limit, func(i int) (time.Time, uuid.UUID) {
		return items[i].CreatedAt, items[i].ID
	})
	if page.HasMore {
		items = items[:pagination.NormalizeLimit(params.Limit)]
	}
	return items, page, nil
}

// SetActive flips the active flag after confirming tenant ownership.
func (s *Service) SetActive(ctx context.Context, garageID, id uuid.UUID, active bool) error {
	if _, err := s.Get(ctx, garageID, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update employee status")
	}
	return nil
}
