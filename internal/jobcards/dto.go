package jobcards

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// CreateJobCardDTO carries the fields needed to open a repair order.
type CreateJobCardDTO struct {
	GarageID   uuid.UUID
	Number     string
	CustomerID *uuid.UUID
	VehicleID  *uuid.UUID
	Complaints []string
	OpenedByID uuid.UUID
}

// ToModel converts the DTO into the persistence model.
func (d CreateJobCardDTO) ToModel() *models.JobCard {
	return &models.JobCard{
		GarageID:   d.GarageID,
		Number:     d.Number,
		CustomerID: d.CustomerID,
		VehicleID:  d.VehicleID,
		Status:     enums.JobCardStatusOpen,
		Complaints: pq.StringArray(d.Complaints),
		OpenedByID: d.OpenedByID,
	}
}
