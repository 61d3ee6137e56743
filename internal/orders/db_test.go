package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
	"github.com/vendorahq/vendora-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS shops (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  user_id TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS offerings (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  external_id TEXT NOT NULL,
  model TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL,
  price_rrc TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS contacts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  city TEXT NOT NULL,
  street TEXT NOT NULL,
  house TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT 'basket',
  contact_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  offering_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (order_id, offering_id)
);`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type basketFixture struct {
	userID    uuid.UUID
	orderID   uuid.UUID
	contactID uuid.UUID
	offering  *models.Offering
}

func seedOffering(t *testing.T, conn *gorm.DB, ownerID uuid.UUID, name, price string) *models.Offering {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: "Category " + uuid.NewString()}
	require.NoError(t, conn.Create(category).Error)
	product := &models.Product{ID: uuid.New(), Name: name, CategoryID: category.ID}
	require.NoError(t, conn.Create(product).Error)
	shop := &models.Shop{ID: uuid.New(), Name: "Shop " + uuid.NewString(), UserID: &ownerID, Active: true}
	require.NoError(t, conn.Create(shop).Error)

	offering := &models.Offering{
		ID:         uuid.New(),
		ShopID:     shop.ID,
		ProductID:  product.ID,
		ExternalID: uuid.NewString(),
		Price:      decimal.RequireFromString(price),
		PriceRRC:   decimal.RequireFromString(price),
		Quantity:   50,
	}
	require.NoError(t, conn.Create(offering).Error)
	return offering
}

// seedBasket builds a user with a one-line basket and a contact.
func seedBasket(t *testing.T, conn *gorm.DB, quantity int) basketFixture {
	t.Helper()

	userID := uuid.New()
	offering := seedOffering(t, conn, uuid.New(), "iPhone XS Max", "110000")

	order := &models.Order{ID: uuid.New(), UserID: userID, State: enums.OrderStateBasket}
	require.NoError(t, conn.Create(order).Error)
	line := &models.OrderLine{
		ID:         uuid.New(),
		OrderID:    order.ID,
		OfferingID: offering.ID,
		Quantity:   quantity,
	}
	require.NoError(t, conn.Create(line).Error)

	contact := &models.Contact{
		ID:     uuid.New(),
		UserID: userID,
		City:   "Moscow",
		Street: "Tverskaya",
		House:  "1",
		Phone:  "+7 900 000-00-00",
	}
	require.NoError(t, conn.Create(contact).Error)

	return basketFixture{
		userID:    userID,
		orderID:   order.ID,
		contactID: contact.ID,
		offering:  offering,
	}
}

// gormTxRunner adapts a raw gorm connection to the service's tx runner.
type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
