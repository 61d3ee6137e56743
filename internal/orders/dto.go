package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// LineDTO is one order row priced at the offering's current price.
type LineDTO struct {
	OfferingID uuid.UUID       `json:"offering_id"`
	Product    string          `json:"product"`
	Shop       string          `json:"shop"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// ContactDTO is the delivery address pinned on a placed order.
type ContactDTO struct {
	ID     uuid.UUID `json:"id"`
	City   string    `json:"city"`
	Street string    `json:"street"`
	House  string    `json:"house,omitempty"`
	Phone  string    `json:"phone"`
}

// OrderDTO is the buyer- and partner-facing order view.
type OrderDTO struct {
	ID        uuid.UUID        `json:"id"`
	State     enums.OrderState `json:"state"`
	Contact   *ContactDTO      `json:"contact,omitempty"`
	Lines     []LineDTO        `json:"lines"`
	Total     decimal.Decimal  `json:"total"`
	CreatedAt time.Time        `json:"created_at"`
}

// orderToDTO builds the order view. When onlyShopOwner is non-nil the lines
// are narrowed to that partner's offerings, so a vendor never sees what a
// buyer ordered from competitors.
func orderToDTO(order models.Order, onlyShopOwner *uuid.UUID) OrderDTO {
	dto := OrderDTO{
		ID:        order.ID,
		State:     order.State,
		Lines:     []LineDTO{},
		Total:     decimal.Zero,
		CreatedAt: order.CreatedAt,
	}
	if order.Contact != nil {
		dto.Contact = &ContactDTO{
			ID:     order.Contact.ID,
			City:   order.Contact.City,
			Street: order.Contact.Street,
			House:  order.Contact.House,
			Phone:  order.Contact.Phone,
		}
	}
	for _, line := range order.Lines {
		if onlyShopOwner != nil {
			if line.Offering == nil || line.Offering.Shop == nil ||
				line.Offering.Shop.UserID == nil || *line.Offering.Shop.UserID != *onlyShopOwner {
				continue
			}
		}
		entry := LineDTO{
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
