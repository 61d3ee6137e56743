package contacts

import (
	"github.com/google/uuid"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

// ContactDTO is the API shape of a delivery contact.
type ContactDTO struct {
	ID     uuid.UUID `json:"id"`
	City   string    `json:"city"`
	Street string    `json:"street"`
	House  string    `json:"house,omitempty"`
	Phone  string    `json:"phone"`
}

// ContactToDTO converts a stored contact into its API shape.
func ContactToDTO(row *models.Contact) ContactDTO {
	return ContactDTO{
		ID:     row.ID,
		City:   row.City,
		Street: row.Street,
		House:  row.House,
		Phone:  row.Phone,
	}
}

// ContactsToDTO converts a contact slice, preserving order.
func ContactsToDTO(rows []models.Contact) []ContactDTO {
	out := make([]ContactDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ContactToDTO(&rows[i]))
	}
	return out
}
