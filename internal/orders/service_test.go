package orders

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
	"github.com/vendorahq/vendora-backend/pkg/outbox"
	"github.com/vendorahq/vendora-backend/pkg/outbox/payloads"
)

func newOrderService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	svc, err := NewService(
		NewRepository(conn),
		gormTxRunner{db: conn},
		outbox.NewService(outbox.NewRepository(conn), logg),
		logg,
	)
	require.NoError(t, err)
	return svc
}

func TestPlaceHappyPath(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrderService(t, conn)
	fixture := seedBasket(t, conn, 2)

	dto, err := svc.Place(context.Background(), fixture.userID, fixture.orderID, fixture.contactID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStateNew, dto.State)
	require.Len(t, dto.Lines, 1)
	assert.Equal(t, "220000", dto.Total.String())
	require.NotNil(t, dto.Contact)
	assert.Equal(t, "Moscow", dto.Contact.City)

	var stored models.Order
	require.NoError(t, conn.First(&stored, "id = ?", fixture.orderID).Error)
	assert.Equal(t, enums.OrderStateNew, stored.State)
	require.NotNil(t, stored.ContactID)
	assert.Equal(t, fixture.contactID, *stored.ContactID)
}

func TestPlaceQueuesOutboxEventInSameTransaction(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrderService(t, conn)
	fixture := seedBasket(t, conn, 2)

	_, err := svc.Place(context.Background(), fixture.userID, fixture.orderID, fixture.contactID)
	require.NoError(t, err)

	var events []models.OutboxEvent
	require.NoError(t, conn.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderPlaced, events[0].EventType)
	assert.Equal(t, enums.AggregateOrder, events[0].AggregateType)
	assert.Equal(t, fixture.orderID, events[0].AggregateID)
	assert.Nil(t, events[0].PublishedAt)

	var envelope outbox.PayloadEnvelope
	require.NoError(t, json.Unmarshal(events[0].Payload, &envelope))
	var payload payloads.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, fixture.orderID, payload.OrderID)
	assert.Equal(t, "220000", payload.Total.String())
	assert.Equal(t, 1, payload.LineCount)
}

func TestPlaceTwiceReportsAlreadyPlaced(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrderService(t, conn)
	fixture := seedBasket(t, conn, 1)

	_, err := svc.Place(context.Background(), fixture.userID, fixture.orderID, fixture.contactID)
	require.NoError(t, err)

	_, err = svc.Place(context.Background(), fixture.userID, fixture.orderID, fixture.contactID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAlreadyPlaced))

	// The second attempt must not queue another event.
	var events int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestPlaceUnknownOrder(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrderService(t, conn)
	fixture := seedBasket(t, conn, 1)

	_, err := svc.Place(context.Background(), fixture.userID, uuid.New(), fixture.contactID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestPlaceSomeoneElsesOrder(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrderService(t, conn)
	fixture := seedBasket(t, conn, 1)
	stranger := seedBasket(t, conn, 1)

	_, err := svc.Place(context.Background(), stranger.userID, fixture.orderID, stranger.contactID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	var stored models.Order
	require.NoError(t, conn.First(&stored, "id = ?", fixture.orderID).Error)
	assert.Equal(t, enums.OrderStateBasket, stored.State)
}

func TestPlaceEmptyBasketRollsBack(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrderService(t, conn)
	fixture := seedBasket(t, conn, 1)

	// Strip the basket down to zero lines.
	require.NoError(t, conn.Where("order_id = ?", fixture.orderID).Delete(&models.OrderLine{}).Error)

	_, err := svc.Place(context.Background(), fixture.userID, fixture.orderID, fixture.contactID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	var stored models.Order
	require.NoError(t, conn.First(&stored, "id = ?", fixture.orderID).Error)
	assert.Equal(t, enums.OrderStateBasket, stored.State, "failed placement leaves the basket untouched")

	var events int64
	require.NoError(t, conn.Model(&models.OutboxEvent{}).Count(&events).Error)
	assert.EqualValues(t, 0, events)
}

func TestPlaceRejectsForeignContact(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrderService(t, conn)
	fixture := seedBasket(t, conn, 1)
	other := seedBasket(t, conn, 1)

	_, err := svc.Place(context.Background(), fixture.userID, fixture.orderID, other.contactID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestListPlacedExcludesBasket(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrderService(t, conn)
	fixture := seedBasket(t, conn, 1)

	dtos, err := svc.ListPlaced(context.Background(), fixture.userID)
	require.NoError(t, err)
	assert.Empty(t, dtos, "an unplaced basket is not order history")

	_, err = svc.Place(context.Background(), fixture.userID, fixture.orderID, fixture.contactID)
	require.NoError(t, err)

	dtos, err = svc.ListPlaced(context.Background(), fixture.userID)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, fixture.orderID, dtos[0].ID)
}

func TestListForPartnerNarrowsLines(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrderService(t, conn)

	// One order mixing offerings from two different vendors.
	buyer := uuid.New()
	vendorA := uuid.New()
	vendorB := uuid.New()
	offeringA := seedOffering(t, conn, vendorA, "Widget A", "100")
	offeringB := seedOffering(t, conn, vendorB, "Widget B", "200")

	order := &models.Order{ID: uuid.New(), UserID: buyer, State: enums.OrderStateBasket}
	require.NoError(t, conn.Create(order).Error)
	for _, offering := range []*models.Offering{offeringA, offeringB} {
		require.NoError(t, conn.Create(&models.OrderLine{
			ID:         uuid.New(),
			OrderID:    order.ID,
			OfferingID: offering.ID,
			Quantity:   1,
		}).Error)
	}
	contact := &models.Contact{ID: uuid.New(), UserID: buyer, City: "Moscow", Street: "Arbat", Phone: "+7 900"}
	require.NoError(t, conn.Create(contact).Error)

	_, err := svc.Place(context.Background(), buyer, order.ID, contact.ID)
	require.NoError(t, err)

	dtos, err := svc.ListForPartner(context.Background(), vendorA)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	require.Len(t, dtos[0].Lines, 1, "partner sees only their own lines")
	assert.Equal(t, "Widget A", dtos[0].Lines[0].Product)
	assert.Equal(t, "100", dtos[0].Total.String(), "partner total covers only their lines")

	dtos, err = svc.ListForPartner(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, dtos)
}
