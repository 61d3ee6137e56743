package baskets

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ItemInput is one basket mutation entry.
type ItemInput struct {
	OfferingID uuid.UUID `json:"offering_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0"`
}

// LineUpdateInput names an existing basket line and its new quantity.
type LineUpdateInput struct {
	LineID   uuid.UUID `json:"line_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

// AddResult reports how many lines an add created versus merged into
// existing rows.
type AddResult struct {
	Created int `json:"created_count"`
	Merged  int `json:"merged_count"`
}

// UpdateResult reports how many lines an update actually touched.
type UpdateResult struct {
	Updated int `json:"updated_count"`
	Skipped int `json:"skipped_count"`
}

// RemoveResult reports how many lines a remove actually deleted.
type RemoveResult struct {
	Deleted int `json:"deleted_count"`
	Skipped int `json:"skipped_count"`
}

// Service manages the per-user basket.
type Service interface {
	View(ctx context.Context, userID uuid.UUID) (*BasketDTO, error)
	AddItems(ctx context.Context, userID uuid.UUID, items []ItemInput) (*AddResult, error)
	UpdateItems(ctx context.Context, userID uuid.UUID, items []LineUpdateInput) (*UpdateResult, error)
	RemoveItems(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) (*RemoveResult, error)
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the basket service.
func NewService(repo *Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("basket repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// View returns the basket with derived totals. Users without a basket get an
// empty view; reading never creates rows.
func (s *service) View(ctx context.Context, userID uuid.UUID) (*BasketDTO, error) {
	order, err := s.repo.FindBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := basketToDTO(order)
	return &dto, nil
}

// AddItems merges the submitted quantities into the basket: existing lines
// grow, new offerings get fresh lines. Submitting the same offering twice in
// one call merges as well.
func (s *service) AddItems(ctx context.Context, userID uuid.UUID, items []ItemInput) (*AddResult, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	var result AddResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		basket, err := repo.FindOrCreateBasket(ctx, userID)
		if err != nil {
			return fmt.Errorf("resolving basket: %w", err)
		}

		for _, item := range items {
			exists, err := repo.OfferingExists(ctx, item.OfferingID)
			if err != nil {
				return err
			}
			if !exists {
				return apperrors.New(apperrors.CodeValidation,
					fmt.Sprintf("offering %s does not exist", item.OfferingID))
			}

			line, err := repo.FindLine(ctx, basket.ID, item.OfferingID)
			if err != nil {
				return err
			}
			if line != nil {
				if _, err := repo.SetLineQuantity(ctx, basket.ID, item.OfferingID, line.Quantity+item.Quantity); err != nil {
					return err
				}
				result.Merged++
				continue
			}

			fresh := &models.OrderLine{
				ID:         uuid.New(),
				OrderID:    basket.ID,
				OfferingID: item.OfferingID,
				Quantity:   item.Quantity,
			}
			if err := repo.CreateLine(ctx, fresh); err != nil {
				if db.IsUniqueViolation(err) {
					return apperrors.Wrap(apperrors.CodeConflict, err, "basket line already exists")
				}
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateItems overwrites quantities for lines already in the basket. Line
// ids that do not belong to the user's basket are counted as skipped, not
// failed.
func (s *service) UpdateItems(ctx context.Context, userID uuid.UUID, items []LineUpdateInput) (*UpdateResult, error) {
	if err := validateLineUpdates(items); err != nil {
		return nil, err
	}

	var result UpdateResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		basket, err := repo.FindBasket(ctx, userID)
		if err != nil {
			return err
		}
		if basket == nil {
			// No basket means no matching lines; every id is a skip.
			result.Skipped = len(items)
			return nil
		}

		for _, item := range items {
			matched, err := repo.UpdateLineQuantity(ctx, basket.ID, item.LineID, item.Quantity)
			if err != nil {
				return err
			}
			if matched {
				result.Updated++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveItems deletes the named lines from the basket. Scoping the delete to
// the basket order keeps one user from touching another user's lines.
func (s *service) RemoveItems(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) (*RemoveResult, error) {
	if len(lineIDs) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "at least one line id is required")
	}

	var result RemoveResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		basket, err := repo.FindBasket(ctx, userID)
		if err != nil {
			return err
		}
		if basket == nil {
			result.Skipped = len(lineIDs)
			return nil
		}

		deleted, err := repo.DeleteLines(ctx, basket.ID, lineIDs)
		if err != nil {
			return err
		}
		result.Deleted = int(deleted)
		result.Skipped = len(lineIDs) - result.Deleted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return apperrors.New(apperrors.CodeValidation, "at least one item is required")
	}
	for i, item := range items {
		if item.OfferingID == uuid.Nil {
			return apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("items[%d]: offering id is required", i))
		}
		if item.Quantity <= 0 {
			return apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("items[%d]: quantity must be positive", i))
		}
	}
	return nil
}

func validateLineUpdates(items []LineUpdateInput) error {
	if len(items) == 0 {
		return apperrors.New(apperrors.CodeValidation, "at least one item is required")
	}
	for i, item := range items {
		if item.LineID == uuid.Nil {
			return apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("items[%d]: line id is required", i))
		}
		if item.Quantity <= 0 {
			return apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("items[%d]: quantity must be positive", i))
		}
	}
	return nil
}
