package baskets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
)

// Repository exposes persistence operations for basket orders and lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a basket repository bound to the provided DB.
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

// FindBasket loads the user's basket order with lines and offerings, or nil
// when the user has no basket yet.
func (r *Repository) FindBasket(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Offering").
		Preload("Lines.Offering.Product").
		Preload("Lines.Offering.Shop").
		Where("user_id = ? AND state = ?", userID, enums.OrderStateBasket).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindOrCreateBasket returns the user's basket, creating the row lazily.
// The partial unique index on (user_id) WHERE state='basket' backstops
// concurrent creates.
func (r *Repository) FindOrCreateBasket(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	basket, err := r.FindBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	if basket != nil {
		return basket, nil
	}

	fresh := &models.Order{ID: uuid.New(), UserID: userID, State: enums.OrderStateBasket}
	if createErr := r.db.WithContext(ctx).Create(fresh).Error; createErr != nil {
		return nil, createErr
	}
	return fresh, nil
}

// FindLine loads one basket line by offering.
func (r *Repository) FindLine(ctx context.Context, orderID, offeringID uuid.UUID) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND offering_id = ?", orderID, offeringID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &line, nil
}

// CreateLine inserts a basket line.
func (r *Repository) CreateLine(ctx context.Context, line *models.OrderLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// SetLineQuantity overwrites a line's quantity, reporting whether the line
// existed.
func (r *Repository) SetLineQuantity(ctx context.Context, orderID, offeringID uuid.UUID, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ? AND offering_id = ?", orderID, offeringID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateLineQuantity overwrites a line's quantity by line id, scoped to the
// basket, reporting whether a row matched.
func (r *Repository) UpdateLineQuantity(ctx context.Context, orderID, lineID uuid.UUID, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("id = ? AND order_id = ?", lineID, orderID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLines removes the named lines from the basket, returning how many
// rows were actually deleted.
func (r *Repository) DeleteLines(ctx context.Context, orderID uuid.UUID, lineIDs []uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("order_id = ? AND id IN ?", orderID, lineIDs).
		Delete(&models.OrderLine{})
	return res.RowsAffected, res.Error
}

// CountLines reports how many lines the basket currently holds.
func (r *Repository) CountLines(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count, err
}

// OfferingExists reports whether an offering is present in the catalog.
func (r *Repository) OfferingExists(ctx context.Context, offeringID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Offering{}).
		Where("id = ?", offeringID).
		Count(&count).Error
	return count > 0, err
}
