package models

import (
	"time"

	"github.com/google/uuid"
)

// Parameter is a globally shared attribute name, reused across offerings.
type Parameter struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// OfferingParameterValue holds one attribute value for one offering. It lives
// and dies with its offering.
type OfferingParameterValue struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OfferingID  uuid.UUID  `gorm:"column:offering_id;type:uuid;not null;uniqueIndex:ux_offering_parameter"`
	ParameterID uuid.UUID  `gorm:"column:parameter_id;type:uuid;not null;uniqueIndex:ux_offering_parameter"`
	Value       string     `gorm:"column:value;not null"`
	Parameter   *Parameter `gorm:"foreignKey:ParameterID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
