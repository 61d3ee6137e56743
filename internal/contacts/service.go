package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

// ContactInput carries the writable contact fields.
type ContactInput struct {
	City   string `json:"city" validate:"required"`
	Street string `json:"street" validate:"required"`
	House  string `json:"house"`
	Phone  string `json:"phone" validate:"required"`
}

// Service manages a buyer's delivery contacts.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input ContactInput) (*models.Contact, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Contact, error)
	Update(ctx context.Context, userID, contactID uuid.UUID, input ContactInput) (*models.Contact, error)
	Delete(ctx context.Context, userID, contactID uuid.UUID) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds the contacts service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contacts repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (i ContactInput) validate() error {
	var errs []error
	if strings.TrimSpace(i.City) == "" {
		errs = append(errs, fmt.Errorf("city is required"))
	}
	if strings.TrimSpace(i.Street) == "" {
		errs = append(errs, fmt.Errorf("street is required"))
	}
	if strings.TrimSpace(i.Phone) == "" {
		errs = append(errs, fmt.Errorf("phone is required"))
	}
	combined := multierr.Combine(errs...)
	if combined == nil {
		return nil
	}
	details := make([]string, 0, len(errs))
	for _, problem := range multierr.Errors(combined) {
		details = append(details, problem.Error())
	}
	return apperrors.Wrap(apperrors.CodeValidation, combined, "missing required contact fields").
		WithDetails(details)
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input ContactInput) (*models.Contact, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	contact := &models.Contact{
		ID:     uuid.New(),
		UserID: userID,
		City:   strings.TrimSpace(input.City),
		Street: strings.TrimSpace(input.Street),
		House:  strings.TrimSpace(input.House),
		Phone:  strings.TrimSpace(input.Phone),
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Contact, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID, contactID uuid.UUID, input ContactInput) (*models.Contact, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	matched, err := s.repo.Update(ctx, contactID, userID, map[string]any{
		"city":   strings.TrimSpace(input.City),
		"street": strings.TrimSpace(input.Street),
		"house":  strings.TrimSpace(input.House),
		"phone":  strings.TrimSpace(input.Phone),
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, apperrors.New(apperrors.CodeNotFound, "contact not found")
	}
	contact, err := s.repo.GetForUser(ctx, contactID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "contact not found")
		}
		return nil, err
	}
	return contact, nil
}

func (s *service) Delete(ctx context.Context, userID, contactID uuid.UUID) error {
	matched, err := s.repo.Delete(ctx, contactID, userID)
	if err != nil {
		return err
	}
	if !matched {
		return apperrors.New(apperrors.CodeNotFound, "contact not found")
	}
	return nil
}
