package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a seller's storefront. The active flag controls catalog visibility.
type Shop struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string     `gorm:"column:name;not null;uniqueIndex:ux_shops_name_user"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex:ux_shops_name_user"`
	Active     bool       `gorm:"column:active;not null;default:true"`
	Categories []Category `gorm:"many2many:shop_categories"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
