package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vendorahq/vendora-backend/internal/feed"
	"github.com/vendorahq/vendora-backend/pkg/db/models"
	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
	"github.com/vendorahq/vendora-backend/pkg/logger"
)

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		gormTxRunner{db: conn},
		logger.New(logger.Options{ServiceName: "test"}),
	)
	require.NoError(t, err)
	return svc
}

func money(t *testing.T, raw string) feed.Money {
	t.Helper()
	amount, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return feed.Money{Decimal: amount}
}

func phoneFeed(t *testing.T) *feed.Feed {
	t.Helper()
	return &feed.Feed{
		Shop: "Svyaznoy",
		Categories: []feed.Category{
			{ID: "224", Name: "Smartphones"},
			{ID: "15", Name: "Accessories"},
		},
		Goods: []feed.Good{
			{
				ID:       "4216292",
				Name:     "iPhone XS Max 512GB (gold)",
				Category: "224",
				Model:    "apple/iphone/xs-max",
				Price:    money(t, "110000"),
				PriceRRC: money(t, "116990"),
				Quantity: 14,
				Parameters: map[string]feed.ScalarString{
					"Color":         "gold",
					"Internal (GB)": "512",
				},
			},
			{
				ID:       "4216313",
				Name:     "Leather Case",
				Category: "15",
				Model:    "apple/case",
				Price:    money(t, "4990"),
				PriceRRC: money(t, "5490"),
				Quantity: 2,
			},
		},
	}
}

func TestApplyBuildsCatalogFromScratch(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "seller@example.com")

	summary, err := svc.Apply(context.Background(), user.ID, phoneFeed(t))
	require.NoError(t, err)
	assert.Equal(t, "Svyaznoy", summary.ShopName)
	assert.Equal(t, 2, summary.Categories)
	assert.Equal(t, 2, summary.Offerings)

	var offerings []models.Offering
	require.NoError(t, conn.Preload("Parameters.Parameter").Find(&offerings).Error)
	require.Len(t, offerings, 2)

	byExternal := map[string]models.Offering{}
	for _, o := range offerings {
		byExternal[o.ExternalID] = o
	}
	phone := byExternal["4216292"]
	assert.Equal(t, "110000", phone.Price.String())
	assert.Equal(t, 14, phone.Quantity)
	assert.Len(t, phone.Parameters, 2)

	var categoryCount int64
	require.NoError(t, conn.Model(&models.Category{}).Count(&categoryCount).Error)
	assert.EqualValues(t, 2, categoryCount)
}

func TestApplyIsIdempotent(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "seller@example.com")

	_, err := svc.Apply(context.Background(), user.ID, phoneFeed(t))
	require.NoError(t, err)
	_, err = svc.Apply(context.Background(), user.ID, phoneFeed(t))
	require.NoError(t, err)

	var counts struct {
		Shops, Categories, Products, Offerings, Parameters int64
	}
	require.NoError(t, conn.Model(&models.Shop{}).Count(&counts.Shops).Error)
	require.NoError(t, conn.Model(&models.Category{}).Count(&counts.Categories).Error)
	require.NoError(t, conn.Model(&models.Product{}).Count(&counts.Products).Error)
	require.NoError(t, conn.Model(&models.Offering{}).Count(&counts.Offerings).Error)
	require.NoError(t, conn.Model(&models.Parameter{}).Count(&counts.Parameters).Error)

	assert.EqualValues(t, 1, counts.Shops)
	assert.EqualValues(t, 2, counts.Categories)
	assert.EqualValues(t, 2, counts.Products)
	assert.EqualValues(t, 2, counts.Offerings)
	assert.EqualValues(t, 2, counts.Parameters)
}

func TestApplyReplacesPreviousOfferingSet(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "seller@example.com")

	_, err := svc.Apply(context.Background(), user.ID, phoneFeed(t))
	require.NoError(t, err)

	// Second feed drops the case and reprices the phone.
	update := phoneFeed(t)
	update.Goods = update.Goods[:1]
	update.Goods[0].Price = money(t, "99000")
	update.Goods[0].Quantity = 3

	_, err = svc.Apply(context.Background(), user.ID, update)
	require.NoError(t, err)

	var offerings []models.Offering
	require.NoError(t, conn.Find(&offerings).Error)
	require.Len(t, offerings, 1)
	assert.Equal(t, "4216292", offerings[0].ExternalID)
	assert.Equal(t, "99000", offerings[0].Price.String())
	assert.Equal(t, 3, offerings[0].Quantity)

	var paramValues int64
	require.NoError(t, conn.Model(&models.OfferingParameterValue{}).Count(&paramValues).Error)
	assert.EqualValues(t, 2, paramValues)
}

func TestApplyRejectsUnknownCategoryReference(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "seller@example.com")

	doc := phoneFeed(t)
	doc.Goods[0].Category = "999"

	_, err := svc.Apply(context.Background(), user.ID, doc)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFormat))

	var offerings int64
	require.NoError(t, conn.Model(&models.Offering{}).Count(&offerings).Error)
	assert.EqualValues(t, 0, offerings, "a rejected feed must write nothing")
}

func TestApplyRejectsDuplicateExternalID(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "seller@example.com")

	doc := phoneFeed(t)
	doc.Goods[1].ID = doc.Goods[0].ID

	_, err := svc.Apply(context.Background(), user.ID, doc)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestApplyScopesShopsByOwner(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	alice := mustCreateUser(t, conn, "alice@example.com")
	bob := mustCreateUser(t, conn, "bob@example.com")

	_, err := svc.Apply(context.Background(), alice.ID, phoneFeed(t))
	require.NoError(t, err)
	_, err = svc.Apply(context.Background(), bob.ID, phoneFeed(t))
	require.NoError(t, err)

	var shops int64
	require.NoError(t, conn.Model(&models.Shop{}).Count(&shops).Error)
	assert.EqualValues(t, 2, shops, "same shop name under two owners stays separate")
}

func TestListOfferingsSkipsInactiveShops(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "seller@example.com")

	_, err := svc.Apply(context.Background(), user.ID, phoneFeed(t))
	require.NoError(t, err)

	dtos, err := svc.ListOfferings(context.Background(), OfferingFilter{})
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "Svyaznoy", dtos[0].Shop.Name)

	require.NoError(t, svc.SetShopActive(context.Background(), user.ID, false))

	dtos, err = svc.ListOfferings(context.Background(), OfferingFilter{})
	require.NoError(t, err)
	assert.Empty(t, dtos)
}

func TestListOfferingsFiltersByCategory(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "seller@example.com")

	_, err := svc.Apply(context.Background(), user.ID, phoneFeed(t))
	require.NoError(t, err)

	var accessories models.Category
	require.NoError(t, conn.Where("name = ?", "Accessories").First(&accessories).Error)

	dtos, err := svc.ListOfferings(context.Background(), OfferingFilter{CategoryID: accessories.ID})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Leather Case", dtos[0].Product)
}

func TestListCategoriesReturnsNameOrderedReference(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "seller@example.com")

	_, err := svc.Apply(context.Background(), user.ID, phoneFeed(t))
	require.NoError(t, err)

	dtos, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "Accessories", dtos[0].Name)
	assert.Equal(t, "Smartphones", dtos[1].Name)
}

func TestListShopsHidesDeactivatedShops(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "seller@example.com")

	_, err := svc.Apply(context.Background(), user.ID, phoneFeed(t))
	require.NoError(t, err)

	dtos, err := svc.ListShops(context.Background())
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Svyaznoy", dtos[0].Name)

	require.NoError(t, svc.SetShopActive(context.Background(), user.ID, false))

	dtos, err = svc.ListShops(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dtos)
}

func TestShopStatusForUnknownOwner(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newTestService(t, conn)
	user := mustCreateUser(t, conn, "buyer@example.com")

	_, err := svc.ShopStatus(context.Background(), user.ID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
