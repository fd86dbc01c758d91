package catalog

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/garagehub/garagehub-backend/pkg/db/models"
	"github.com/garagehub/garagehub-backend/pkg/enums"
)

// CreatePartDTO carries the fields needed to add a catalog item.
type CreatePartDTO struct {
	GarageID     uuid.UUID
	PartNumber   string
	Name         string
	Category     string
	Manufacturer string
	UnitPrice    decimal.Decimal
	OnHandQty    int
	WarehouseQty int
	Fitment      []string
}

// ToModel converts the DTO into the persistence model with a derived stock tag.
func (d CreatePartDTO) ToModel() *models.Part {
	return &models.Part{
		GarageID:     d.GarageID,
		PartNumber:   d.PartNumber,
		Name:         d.Name,
		Category:     d.Category,
		Manufacturer: d.Manufacturer,
		UnitPrice:    d.UnitPrice,
		OnHandQty:    d.OnHandQty,
		WarehouseQty: d.WarehouseQty,
		StockStatus:  enums.StockStatusFor(d.OnHandQty),
		Fitment:      pq.StringArray(d.Fitment),
	}
}
