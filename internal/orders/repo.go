package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// Repository exposes persistence operations for placed orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repository bound to the provided DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Contact").
		Preload("Lines").
		Preload("Lines.Offering").
		Preload("Lines.Offering.Product").
		Preload("Lines.Offering.Shop")
}

// GetForUser loads one of the user's orders with lines and contact.
func (r *Repository) GetForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.preloaded(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CountLines reports how many lines an order holds.
func (r *Repository) CountLines(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

// ContactBelongsTo reports whether the contact exists and is owned by the user.
func (r *Repository) ContactBelongsTo(ctx context.Context, contactID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ? AND user_id = ?", contactID, userID).
		Count(&count).Error
	return count > 0, err
}

// Place atomically moves a basket into the new state and pins the delivery
// contact. The state guard in the WHERE clause is what makes placement
// exactly-once: a second attempt matches zero rows.
func (r *Repository) Place(ctx context.Context, orderID, userID, contactID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND state = ?", orderID, userID, enums.OrderStateBasket).
		Updates(map[string]any{
			"state":      enums.OrderStateNew,
			"contact_id": contactID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListPlacedForUser returns the user's non-basket orders, newest first.
func (r *Repository) ListPlacedForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.preloaded(ctx).
		Where("user_id = ? AND state <> ?", userID, enums.OrderStateBasket).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// ListForShopOwner returns placed orders that contain at least one offering
// sold by the partner's shops.
func (r *Repository) ListForShopOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Order, error) {
	subquery := r.db.
		Model(&models.OrderLine{}).
		Select("order_lines.order_id").
		Joins("JOIN offerings ON offerings.id = order_lines.offering_id").
		Joins("JOIN shops ON shops.id = offerings.shop_id").
		Where("shops.user_id = ?", ownerID)

	var rows []models.Order
	err := r.preloaded(ctx).
		Where("state <> ? AND id IN (?)", enums.OrderStateBasket, subquery).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// IsNotFound reports whether err is the record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
