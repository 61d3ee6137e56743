package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/internal/feed"
	"github.com/vendorahq/vendora-backend/pkg/db"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ImportSummary reports what a successful apply wrote.
type ImportSummary struct {
	ShopID     uuid.UUID `json:"shop_id"`
	ShopName   string    `json:"shop_name"`
	Categories int       `json:"categories"`
	Offerings  int       `json:"offerings"`
}

// Service applies supplier feeds to the catalog and serves catalog reads.
type Service interface {
	Apply(ctx context.Context, userID uuid.UUID, doc *feed.Feed) (*ImportSummary, error)
	ListOfferings(ctx context.Context, filter OfferingFilter) ([]OfferingDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListShops(ctx context.Context) ([]ShopRefDTO, error)
	SetShopActive(ctx context.Context, userID uuid.UUID, active bool) error
	ShopStatus(ctx context.Context, userID uuid.UUID) (*ShopStatusDTO, error)
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a catalog service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// Apply replaces the feed shop's entire offering set inside one transaction.
// Re-applying the same feed lands the catalog in the same end state, which is
// what makes at-least-once job delivery safe.
func (s *service) Apply(ctx context.Context, userID uuid.UUID, doc *feed.Feed) (*ImportSummary, error) {
	if doc == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "feed document required")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var summary ImportSummary
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		shop, err := repo.FindOrCreateShop(ctx, doc.Shop, userID)
		if err != nil {
			return fmt.Errorf("resolving shop: %w", err)
		}

		categoryByFeedID := make(map[feed.ScalarString]*models.Category, len(doc.Categories))
		linked := make([]models.Category, 0, len(doc.Categories))
		for _, entry := range doc.Categories {
			category, err := repo.FindOrCreateCategory(ctx, entry.Name)
			if err != nil {
				return fmt.Errorf("resolving category %q: %w", entry.Name, err)
			}
			categoryByFeedID[entry.ID] = category
			linked = append(linked, *category)
		}
		if err := repo.LinkShopCategories(ctx, shop, linked); err != nil {
			return fmt.Errorf("linking shop categories: %w", err)
		}

		if err := repo.DeleteShopOfferings(ctx, shop.ID); err != nil {
			return fmt.Errorf("clearing previous offerings: %w", err)
		}

		seen := make(map[feed.ScalarString]struct{}, len(doc.Goods))
		for _, good := range doc.Goods {
			if _, dup := seen[good.ID]; dup {
				return apperrors.New(apperrors.CodeConflict,
					fmt.Sprintf("feed lists external id %q more than once", good.ID))
			}
			seen[good.ID] = struct{}{}

			category, ok := categoryByFeedID[good.Category]
			if !ok {
				return apperrors.New(apperrors.CodeValidation,
					fmt.Sprintf("good %q references unknown category %q", good.ID, good.Category))
			}

			product, err := repo.FindOrCreateProduct(ctx, good.Name, category.ID)
			if err != nil {
				return fmt.Errorf("resolving product %q: %w", good.Name, err)
			}

			offering := models.Offering{
				ID:         uuid.New(),
				ShopID:     shop.ID,
				ProductID:  product.ID,
				ExternalID: good.ID.String(),
				Model:      good.Model,
				Price:      good.Price.Decimal,
				PriceRRC:   good.PriceRRC.Decimal,
				Quantity:   good.Quantity,
			}
			for name, value := range good.Parameters {
				parameter, err := repo.FindOrCreateParameter(ctx, name)
				if err != nil {
					return fmt.Errorf("resolving parameter %q: %w", name, err)
				}
				offering.Parameters = append(offering.Parameters, models.OfferingParameterValue{
					ID:          uuid.New(),
					OfferingID:  offering.ID,
					ParameterID: parameter.ID,
					Value:       value.String(),
				})
			}

			if err := repo.CreateOffering(ctx, &offering); err != nil {
				if db.IsUniqueViolation(err) {
					return apperrors.Wrap(apperrors.CodeConflict, err,
						fmt.Sprintf("external id %q already written for this shop", good.ID))
				}
				return fmt.Errorf("writing offering %q: %w", good.ID, err)
			}
		}

		summary = ImportSummary{
			ShopID:     shop.ID,
			ShopName:   shop.Name,
			Categories: len(doc.Categories),
			Offerings:  len(doc.Goods),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"shop":      summary.ShopName,
		"offerings": summary.Offerings,
	}), "catalog feed applied")
	return &summary, nil
}
