package baskets

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

// LineDTO is one basket row with its derived line total.
type LineDTO struct {
	LineID     uuid.UUID       `json:"line_id"`
	OfferingID uuid.UUID       `json:"offering_id"`
	Product    string          `json:"product"`
	Shop       string          `json:"shop"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// BasketDTO is the buyer-facing basket view. Total is always derived from
// current offering prices, never stored.
type BasketDTO struct {
	OrderID *uuid.UUID      `json:"order_id,omitempty"`
	State   string          `json:"state,omitempty"`
	Lines   []LineDTO       `json:"lines"`
	Total   decimal.Decimal `json:"total"`
}

func basketToDTO(order *models.Order) BasketDTO {
	dto := BasketDTO{Lines: []LineDTO{}, Total: decimal.Zero}
	if order == nil {
		return dto
	}
	dto.OrderID = &order.ID
	dto.State = string(order.State)
	for _, line := range order.Lines {
		entry := LineDTO{
			LineID:     line.ID,
			OfferingID: line.OfferingID,
			Quantity:   line.Quantity,
			Subtotal:   decimal.Zero,
		}
		if line.Offering != nil {
			entry.Price = line.Offering.Price
			entry.Subtotal = line.Offering.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			if line.Offering.Product != nil {
				entry.Product = line.Offering.Product.Name
			}
			if line.Offering.Shop != nil {
				entry.Shop = line.Offering.Shop.Name
			}
		}
		dto.Lines = append(dto.Lines, entry)
		dto.Total = dto.Total.Add(entry.Subtotal)
	}
	return dto
}
