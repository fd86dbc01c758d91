package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db"
	"github.com/garagehub/garagehub-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/pagination"
)

// DefaultCategory labels allocations for parts without catalog metadata.
const DefaultCategory = "General"

// UsageRecorder is the optional hook for form-ranking counters.
type UsageRecorder interface {
	Record(ctx context.Context, garageID uuid.UUID, field, value string) error
}

// Service exposes catalog CRUD. Stock decrements are reserved for the
// allocation coordinator and are not reachable from here.
type Service struct {
	repo  *Repository
	usage UsageRecorder
}

func NewService(repo *Repository, usage UsageRecorder) *Service {
	return &Service{repo: repo, usage: usage}
}

// Create adds a catalog item. The part number must be unique per garage.
func (s *Service) Create(ctx context.Context, dto CreatePartDTO) (*models.Part, error) {
	if strings.TrimSpace(dto.PartNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"part_number": "is required"})
	}
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"name": "is required"})
	}
	if dto.OnHandQty < 0 || dto.WarehouseQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"stock": "must not be negative"})
	}

	part, err := s.repo.Create(ctx, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_parts_garage_number") || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "part number already in use").
				WithDetails(map[string]string{"field": "part_number"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create part")
	}

	// Counter bumps are best-effort; a miss never fails the create.
	if s.usage != nil {
		if manufacturer := strings.TrimSpace(dto.Manufacturer); manufacturer != "" {
			_ = s.usage.Record(ctx, dto.GarageID, "manufacturer", manufacturer)
		}
	}
	return part, nil
}

// Get loads a part scoped to the caller's garage.
func (s *Service) Get(ctx context.Context, garageID, id uuid.UUID) (*models.Part, error) {
	part, err := s.repo.FindForGarage(ctx, garageID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load part")
	}
	return part, nil
}

// List returns a page of the garage's catalog, newest first.
func (s *Service) List(ctx context.Context, garageID uuid.UUID, params pagination.Params) ([]models.Part, *pagination.Page, error) {
	items, err := s.repo.ListByGarage(ctx, garageID, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list parts")
	}
	page := pagination.BuildPage(len(items), params.Limit, func(i int) (time.Time, uuid.UUID) {
		return items[i].CreatedAt, items[i].ID
	})
	if page.HasMore {
		items = items[:pagination.NormalizeLimit(params.Limit)]
	}
	return items, page, nil
}
