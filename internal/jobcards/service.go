package jobcards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/pagination"
)

// Service exposes job card lifecycle operations. Parts allocation lives in
// the allocation package; this service only opens, reads and transitions
// cards.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Open creates a job card. The human-facing number is generated here when
// the caller leaves it blank.
func (s *Service) Open(ctx context.Context, dto CreateJobCardDTO) (*models.JobCard, error) {
	if dto.OpenedByID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"opened_by_id": "is required"})
	}
	if strings.TrimSpace(dto.Number) == "" {
		dto.Number = generateNumber(time.Now())
	}

	card, err := s.repo.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create job card")
	}
	return card, nil
}

// Get loads a job card scoped to the caller's garage.
func (s *Service) Get(ctx context.Context, garageID, id uuid.UUID) (*models.JobCard, error) {
	card, err := s.repo.FindForGarage(ctx, garageID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load job card")
	}
	return card, nil
}

// List returns a page of the garage's job cards, newest first.
func (s *Service) List(ctx context.Context, garageID uuid.UUID, params pagination.Params) ([]models.JobCard, *pagination.Page, error) {
	items, err := s.repo.ListByGarage(ctx, garageID, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list job cards")
	}
	page := pagination.BuildPage(len(items), params.Limit, func(i int) (time.Time, uuid.UUID) {
		return items[i].CreatedAt, items[i].ID
	})
	if page.HasMore {
		items = items[:pagination.NormalizeLimit(params.Limit)]
	}
	return items, page, nil
}

// Transition moves the card to a new status after validating it.
func (s *Service) Transition(ctx context.Context, garageID, id uuid.UUID, status enums.JobCardStatus) (*models.JobCard, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"status": "is not a recognized status"})
	}
	if _, err := s.Get(ctx, garageID, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job card status")
	}
	return s.Get(ctx, garageID, id)
}

func generateNumber(now time.Time) string {
	return fmt.Sprintf("JC-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(uuid.NewString()[:6]))
}
