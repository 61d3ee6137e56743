package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
)

// OfferingFilter narrows a catalog browse. Zero values mean no filtering.
type OfferingFilter struct {
	ShopID     uuid.UUID
	CategoryID uuid.UUID
}

// ListOfferings returns offerings from active shops only, optionally filtered
// by shop and category.
func (r *Repository) ListOfferings(ctx context.Context, filter OfferingFilter) ([]models.Offering, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Offering{}).
		Joins("JOIN shops ON shops.id = offerings.shop_id AND shops.active = ?", true).
		Preload("Shop").
		Preload("Product").
		Preload("Product.Category").
		Preload("Parameters").
		Preload("Parameters.Parameter").
		Order("offerings.created_at ASC")

	if filter.ShopID != uuid.Nil {
		query = query.Where("offerings.shop_id = ?", filter.ShopID)
	}
	if filter.CategoryID != uuid.Nil {
		query = query.
			Joins("JOIN products ON products.id = offerings.product_id").
			Where("products.category_id = ?", filter.CategoryID)
	}

	var rows []models.Offering
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCategories returns every known category, name-ordered.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// ListShops returns the shops buyers can currently order from.
func (r *Repository) ListShops(ctx context.Context) ([]models.Shop, error) {
	var rows []models.Shop
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// ListOfferings serves the buyer-facing catalog browse.
func (s *service) ListOfferings(ctx context.Context, filter OfferingFilter) ([]OfferingDTO, error) {
	rows, err := s.repo.ListOfferings(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]OfferingDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, offeringToDTO(row))
	}
	return dtos, nil
}

// ListCategories serves the category reference list for catalog navigation.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, CategoryDTO{ID: row.ID, Name: row.Name})
	}
	return dtos, nil
}

// ListShops returns active shops only; a disabled shop disappears from the
// listing the same way its offerings do.
func (s *service) ListShops(ctx context.Context) ([]ShopRefDTO, error) {
	rows, err := s.repo.ListShops(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]ShopRefDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ShopRefDTO{ID: row.ID, Name: row.Name})
	}
	return dtos, nil
}

// SetShopActive toggles catalog visibility for the partner's shop.
func (s *service) SetShopActive(ctx context.Context, userID uuid.UUID, active bool) error {
	matched, err := s.repo.SetShopActive(ctx, userID, active)
	if err != nil {
		return err
	}
	if !matched {
		return apperrors.New(apperrors.CodeNotFound, "no shop registered for this account")
	}
	return nil
}

// ShopStatus returns the partner's own shop state.
func (s *service) ShopStatus(ctx context.Context, userID uuid.UUID) (*ShopStatusDTO, error) {
	shop, err := s.repo.FindShopByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "no shop registered for this account")
		}
		return nil, err
	}
	return &ShopStatusDTO{ID: shop.ID, Name: shop.Name, Active: shop.Active}, nil
}
