package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPlacedEvent is emitted when a basket transitions to a placed order.
// The notification consumer turns it into a buyer notification; email
// delivery is an external collaborator.
type OrderPlacedEvent struct {
	OrderID   uuid.UUID       `json:"order_id"`
	UserID    uuid.UUID       `json:"user_id"`
	ContactID uuid.UUID       `json:"contact_id"`
	Total     decimal.Decimal `json:"total"`
	LineCount int             `json:"line_count"`
}
