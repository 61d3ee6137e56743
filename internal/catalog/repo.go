package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

// Repository exposes persistence operations for catalog data.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
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

// FindOrCreateShop resolves the seller's shop by (name, owner), creating it
// on first import.
func (r *Repository) FindOrCreateShop(ctx context.Context, name string, userID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Where("name = ? AND user_id = ?", name, userID).
		First(&shop).Error
	if err == nil {
		return &shop, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shop = models.Shop{ID: uuid.New(), Name: name, UserID: &userID, Active: true}
	if createErr := r.db.WithContext(ctx).Create(&shop).Error; createErr != nil {
		return nil, createErr
	}
	return &shop, nil
}

// FindShopByOwner returns the (single) shop owned by the user.
func (r *Repository) FindShopByOwner(ctx context.Context, userID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// SetShopActive flips catalog visibility for the owner's shop and reports
// whether a shop row was matched.
func (r *Repository) SetShopActive(ctx context.Context, userID uuid.UUID, active bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("user_id = ?", userID).
		Update("active", active)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindOrCreateCategory resolves a category by its globally unique name.
func (r *Repository) FindOrCreateCategory(ctx context.Context, name string) (*models.Category, error) {
	return findOrCreate(ctx, r.db, "name = ?", []any{name},
		&models.Category{ID: uuid.New(), Name: name})
}

// FindOrCreateProduct resolves a product by (name, category).
func (r *Repository) FindOrCreateProduct(ctx context.Context, name string, categoryID uuid.UUID) (*models.Product, error) {
	return findOrCreate(ctx, r.db, "name = ? AND category_id = ?", []any{name, categoryID},
		&models.Product{ID: uuid.New(), Name: name, CategoryID: categoryID})
}

// FindOrCreateParameter resolves a parameter by its globally unique name.
func (r *Repository) FindOrCreateParameter(ctx context.Context, name string) (*models.Parameter, error) {
	return findOrCreate(ctx, r.db, "name = ?", []any{name},
		&models.Parameter{ID: uuid.New(), Name: name})
}

// findOrCreate loads the first row matching the condition, inserting the
// fresh row when none exists. A concurrent insert losing the unique-index
// race falls back to re-reading the winner.
func findOrCreate[T any](ctx context.Context, conn *gorm.DB, cond string, args []any, fresh *T) (*T, error) {
	var row T
	err := conn.WithContext(ctx).Where(cond, args...).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	createErr := conn.WithContext(ctx).Create(fresh).Error
	if createErr == nil {
		return fresh, nil
	}
	if db.IsUniqueViolation(createErr) {
		if retryErr := conn.WithContext(ctx).Where(cond, args...).First(&row).Error; retryErr == nil {
			return &row, nil
		}
	}
	return nil, createErr
}

// LinkShopCategories attaches categories to the shop, keeping existing links.
func (r *Repository) LinkShopCategories(ctx context.Context, shop *models.Shop, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(shop).Association("Categories").Append(&categories)
}

// DeleteShopOfferings drops the shop's full offering set ahead of a rebuild.
// Parameter values cascade; baskets keep their lines because offerings are
// referenced, never embedded.
func (r *Repository) DeleteShopOfferings(ctx context.Context, shopID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("offering_id IN (?)", r.db.Model(&models.Offering{}).Select("id").Where("shop_id = ?", shopID)).
		Delete(&models.OfferingParameterValue{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Delete(&models.Offering{}).Error
}

// CreateOffering inserts one offering together with its parameter values.
func (r *Repository) CreateOffering(ctx context.Context, offering *models.Offering) error {
	return r.db.WithContext(ctx).Create(offering).Error
}

// CountShopOfferings reports the size of a shop's current offering set.
func (r *Repository) CountShopOfferings(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Offering{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	return count, err
}
