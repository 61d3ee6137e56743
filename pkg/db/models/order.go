package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// Order is a buyer's order. At most one basket-state order exists per user;
// it is created lazily and becomes immutable once placed.
type Order struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	State     enums.OrderState `gorm:"column:state;not null;default:'basket'"`
	ContactID *uuid.UUID       `gorm:"column:contact_id;type:uuid"`
	Lines     []OrderLine      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Contact   *Contact         `gorm:"foreignKey:ContactID"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine is one offering within an order. (order_id, offering_id) is
// unique; resubmitting the same offering merges quantities.
type OrderLine struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_order_lines_order_offering"`
	OfferingID uuid.UUID `gorm:"column:offering_id;type:uuid;not null;uniqueIndex:ux_order_lines_order_offering"`
	Quantity   int       `gorm:"column:quantity;not null"`
	Offering   *Offering `gorm:"foreignKey:OfferingID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
