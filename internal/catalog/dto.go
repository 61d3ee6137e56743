package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

// OfferingDTO is the buyer-facing shape of one catalog offering.
type OfferingDTO struct {
	ID         uuid.UUID         `json:"id"`
	ExternalID string            `json:"external_id"`
	Model      string            `json:"model,omitempty"`
	Product    string            `json:"product"`
	Category   string            `json:"category"`
	Shop       ShopRefDTO        `json:"shop"`
	Price      decimal.Decimal   `json:"price"`
	PriceRRC   decimal.Decimal   `json:"price_rrc"`
	Quantity   int               `json:"quantity"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// CategoryDTO is one entry of the category reference list.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ShopRefDTO identifies the shop selling an offering.
type ShopRefDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ShopStatusDTO is the partner-facing view of their own shop.
type ShopStatusDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

func offeringToDTO(row models.Offering) OfferingDTO {
	dto := OfferingDTO{
		ID:         row.ID,
		ExternalID: row.ExternalID,
		Model:      row.Model,
		Price:      row.Price,
		PriceRRC:   row.PriceRRC,
		Quantity:   row.Quantity,
	}
	if row.Product != nil {
		dto.Product = row.Product.Name
		if row.Product.Category != nil {
			dto.Category = row.Product.Category.Name
		}
	}
	if row.Shop != nil {
		dto.Shop = ShopRefDTO{ID: row.Shop.ID, Name: row.Shop.Name}
	}
	if len(row.Parameters) > 0 {
		dto.Parameters = make(map[string]string, len(row.Parameters))
		for _, value := range row.Parameters {
			if value.Parameter != nil {
				dto.Parameters[value.Parameter.Name] = value.Value
			}
		}
	}
	return dto
}
