package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a catalog-wide grouping shared by every shop that carries it.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Shops     []Shop    `gorm:"many2many:shop_categories"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
