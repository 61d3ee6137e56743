package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/enums"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
	"github.com/vendorahq/vendora-backend/pkg/outbox"
	"github.com/vendorahq/vendora-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service turns baskets into orders and serves order reads.
type Service interface {
	Place(ctx context.Context, userID, orderID, contactID uuid.UUID) (*OrderDTO, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListPlaced(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListForPartner(ctx context.Context, partnerUserID uuid.UUID) ([]OrderDTO, error)
}

type service struct {
	repo    *Repository
	tx      txRunner
	emitter eventEmitter
	logg    *logger.Logger
}

// NewService builds the order service.
func NewService(repo *Repository, tx txRunner, emitter eventEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, emitter: emitter, logg: logg}, nil
}

// Place promotes the basket into a placed order and queues the notification
// event in the same transaction. The conditional state update makes a
// concurrent double-submit lose cleanly with an already-placed error.
func (s *service) Place(ctx context.Context, userID, orderID, contactID uuid.UUID) (*OrderDTO, error) {
	var placed *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		ownsContact, err := repo.ContactBelongsTo(ctx, contactID, userID)
		if err != nil {
			return err
		}
		if !ownsContact {
			return apperrors.New(apperrors.CodeValidation, "contact not found for this account")
		}

		lineCount, err := repo.CountLines(ctx, orderID)
		if err != nil {
			return err
		}

		ok, err := repo.Place(ctx, orderID, userID, contactID)
		if err != nil {
			return err
		}
		if !ok {
			// Zero rows matched: either the order is gone or it left
			// the basket state already.
			if _, getErr := repo.GetForUser(ctx, orderID, userID); getErr != nil {
				if IsNotFound(getErr) {
					return apperrors.New(apperrors.CodeNotFound, "order not found")
				}
				return getErr
			}
			return apperrors.New(apperrors.CodeAlreadyPlaced, "order has already been placed")
		}

		if lineCount == 0 {
			// Rolls the state change back together with everything else.
			return apperrors.New(apperrors.CodeValidation, "basket is empty")
		}

		order, err := repo.GetForUser(ctx, orderID, userID)
		if err != nil {
			return err
		}
		dto := orderToDTO(*order, nil)

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.OrderPlacedEvent{
				OrderID:   order.ID,
				UserID:    userID,
				ContactID: contactID,
				Total:     dto.Total,
				LineCount: len(dto.Lines),
			},
			Version: 1,
		}
		if err := s.emitter.Emit(ctx, tx, event); err != nil {
			return fmt.Errorf("queueing order placed event: %w", err)
		}

		placed = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": placed.ID.String(),
		"total":    placed.Total.String(),
	}), "order placed")
	return placed, nil
}

// Get returns one of the user's orders.
func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.GetForUser(ctx, orderID, userID)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	dto := orderToDTO(*order, nil)
	return &dto, nil
}

// ListPlaced returns the buyer's order history.
func (s *service) ListPlaced(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListPlacedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, orderToDTO(row, nil))
	}
	return dtos, nil
}

// ListForPartner returns placed orders containing the partner's offerings,
// with lines narrowed to that partner.
func (s *service) ListForPartner(ctx context.Context, partnerUserID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListForShopOwner(ctx, partnerUserID)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, orderToDTO(row, &partnerUserID))
	}
	return dtos, nil
}
