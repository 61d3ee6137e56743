package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a per-user message produced by the notification consumer.
// Actual email dispatch is handled by an external collaborator.
type Notification struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Kind      string    `gorm:"column:kind;not null"`
	Body      string    `gorm:"column:body;not null"`
	Read      bool      `gorm:"column:read;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
