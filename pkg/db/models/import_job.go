package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// ImportJob is the durable status record for one feed import run. Rows are
// never deleted; they are the audit trail the submitter polls.
type ImportJob struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null"`
	FeedURL   string                `gorm:"column:feed_url;not null"`
	Status    enums.ImportJobStatus `gorm:"column:status;not null;default:'pending'"`
	Error     *string               `gorm:"column:error"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
