package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offering is a shop's sellable instance of a product. The full offering set
// for a shop is deleted and rebuilt on every successful import.
type Offering struct {
	ID         uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	ShopID     uuid.UUID                `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:ux_offerings_shop_external"`
	ProductID  uuid.UUID                `gorm:"column:product_id;type:uuid;not null"`
	ExternalID string                   `gorm:"column:external_id;not null;uniqueIndex:ux_offerings_shop_external"`
	Model      string                   `gorm:"column:model;not null;default:''"`
	Price      decimal.Decimal          `gorm:"column:price;type:numeric(12,2);not null"`
	PriceRRC   decimal.Decimal          `gorm:"column:price_rrc;type:numeric(12,2);not null"`
	Quantity   int                      `gorm:"column:quantity;not null;default:0"`
	Shop       *Shop                    `gorm:"foreignKey:ShopID"`
	Product    *Product                 `gorm:"foreignKey:ProductID"`
	Parameters []OfferingParameterValue `gorm:"foreignKey:OfferingID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
