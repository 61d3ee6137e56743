package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

// NotificationDTO is the API shape of one stored notification.
type NotificationDTO struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationsToDTO converts a notification slice, preserving order.
func NotificationsToDTO(rows []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NotificationDTO{
			ID:        row.ID,
			Kind:      row.Kind,
			Body:      row.Body,
			Read:      row.Read,
			CreatedAt: row.CreatedAt,
		})
	}
	return out
}
