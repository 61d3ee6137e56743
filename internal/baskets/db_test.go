package baskets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/pkg/db/models"
)

func setupBasketTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:baskets_" + uuid.NewString() + "?mode=memory&cache=shared"
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
  updated_at DATETIME,
  UNIQUE (shop_id, external_id)
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT 'basket',
  contact_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_user_basket
  ON orders (user_id) WHERE state = 'basket';`,
		`CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  offering_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (order_id, offering_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func mustCreateOffering(t *testing.T, conn *gorm.DB, name, price string) *models.Offering {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: "Category " + uuid.NewString()}
	require.NoError(t, conn.Create(category).Error)

	product := &models.Product{ID: uuid.New(), Name: name, CategoryID: category.ID}
	require.NoError(t, conn.Create(product).Error)

	ownerID := uuid.New()
	shop := &models.Shop{ID: uuid.New(), Name: "Shop " + uuid.NewString(), UserID: &ownerID, Active: true}
	require.NoError(t, conn.Create(shop).Error)

	offering := &models.Offering{
		ID:         uuid.New(),
		ShopID:     shop.ID,
		ProductID:  product.ID,
		ExternalID: uuid.NewString(),
		Price:      decimal.RequireFromString(price),
		PriceRRC:   decimal.RequireFromString(price),
		Quantity:   100,
	}
	require.NoError(t, conn.Create(offering).Error)
	return offering
}

// gormTxRunner adapts a raw gorm connection to the service's tx runner.
type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
