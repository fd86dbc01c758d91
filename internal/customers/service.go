package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/garagehub-backend/pkg/errors"
	"github.com/garagehub/garagehub-backend/pkg/pagination"
)

// Service exposes customer and vehicle CRUD. Plain single-collection writes;
// no coordination required here.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateCustomerInput is the validated request for adding a client.
type CreateCustomerInput struct {
	GarageID  uuid.UUID
	FirstName string
	LastName  string
	Phone     string
	Email     *string
}

func (s *Service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	fields := map[string]string{}
	if input.GarageID == uuid.Nil {
		fields["garage_id"] = "is required"
	}
	if strings.TrimSpace(input.FirstName) == "" {
		fields["first_name"] = "is required"
	}
	if strings.TrimSpace(input.LastName) == "" {
		fields["last_name"] = "is required"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields)
	}

	customer := &models.Customer{
		GarageID:  input.GarageID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     input.Email,
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, garageID, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindCustomer(ctx, garageID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	return customer, nil
}

func (s *Service) ListCustomers(ctx context.Context, garageID uuid.UUID, params pagination.Params) ([]models.Customer, *pagination.Page, error) {
	items, err := s.repo.ListCustomers(ctx, garageID, params)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}
	page := pagination.BuildPage(len(items), params.Limit, func(i int) (time.Time, uuid.UUID) {
		return items[i].CreatedAt, items[i].ID
	})
	if page.HasMore {
		items = items[:pagination.NormalizeLimit(params.Limit)]
	}
	return items, page, nil
}

// CreateVehicleInput is the validated request for registering a vehicle.
type CreateVehicleInput struct {
	GarageID   uuid.UUID
	CustomerID uuid.UUID
	Make       string
	Model      string
	Year       int
	Plate      string
	VIN        *string
}

func (s *Service) CreateVehicle(ctx context.Context, input CreateVehicleInput) (*models.Vehicle, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.Make) == "" {
		fields["make"] = "is required"
	}
	if strings.TrimSpace(input.Model) == "" {
		fields["model"] = "is required"
	}
	if input.Year != 0 && (input.Year < 1900 || input.Year > time.Now().Year()+1) {
		fields["year"] = "is out of range"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields)
	}

	// The customer must belong to the caller's garage.
	if _, err := s.GetCustomer(ctx, input.GarageID, input.CustomerID); err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		GarageID:   input.GarageID,
		CustomerID: input.CustomerID,
		Make:       strings.TrimSpace(input.Make),
		Model:      strings.TrimSpace(input.Model),
		Year:       input.Year,
		Plate:      strings.ToUpper(strings.TrimSpace(input.Plate)),
		VIN:        input.VIN,
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return vehicle, nil
}

func (s *Service) ListVehicles(ctx context.Context, garageID, customerID uuid.UUID) ([]models.Vehicle, error) {
	vehicles, err := s.repo.ListVehiclesByCustomer(ctx, garageID, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vehicles")
	}
	return vehicles, nil
}
