package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
)

const sampleFeed = `
shop: Svyaznoy
categories:
  - id: 224
    name: Smartphones
  - id: "15"
    name: Accessories
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: iPhone XS Max 512GB (gold)
    price: 110000.50
    price_rrc: 116990
    quantity: 14
    parameters:
      "Display (inch)": 6.5
      "Color": gold
  - id: "4216313"
    category: "15"
    model: apple/case
    name: Leather Case
    price: 4990
    price_rrc: 5490
    quantity: 2
`

func TestParseSampleFeed(t *testing.T) {
	doc, err := Parse([]byte(sampleFeed))
	require.NoError(t, err)

	assert.Equal(t, "Svyaznoy", doc.Shop)
	require.Len(t, doc.Categories, 2)
	assert.Equal(t, ScalarString("224"), doc.Categories[0].ID)
	assert.Equal(t, ScalarString("15"), doc.Categories[1].ID)

	require.Len(t, doc.Goods, 2)
	phone := doc.Goods[0]
	assert.Equal(t, ScalarString("4216292"), phone.ID)
	assert.Equal(t, ScalarString("224"), phone.Category)
	assert.Equal(t, "110000.5", phone.Price.String())
	assert.Equal(t, 14, phone.Quantity)
	assert.Equal(t, ScalarString("6.5"), phone.Parameters["Display (inch)"])
	assert.Equal(t, ScalarString("gold"), phone.Parameters["Color"])
}

func TestParseQuotedAndBareIDsDecodeIdentically(t *testing.T) {
	doc, err := Parse([]byte(sampleFeed))
	require.NoError(t, err)

	// goods[1] uses quoted ids, categories[1] a quoted id; both sides meet.
	assert.Equal(t, doc.Categories[1].ID, doc.Goods[1].Category)
}

func TestParseDefaultsMissingPriceRRCToPrice(t *testing.T) {
	doc, err := Parse([]byte(`
shop: Svyaznoy
categories:
  - id: 224
    name: Smartphones
goods:
  - id: 4216292
    category: 224
    name: iPhone XS Max 512GB (gold)
    price: 110000
  - id: 4216313
    category: 224
    name: Promo Case
    price: 4990
    price_rrc: 0
`))
	require.NoError(t, err)
	require.Len(t, doc.Goods, 2)

	assert.Equal(t, "110000", doc.Goods[0].PriceRRC.String(),
		"omitted price_rrc inherits price")
	assert.Zero(t, doc.Goods[0].Quantity, "omitted quantity reads as zero")
	assert.Equal(t, "0", doc.Goods[1].PriceRRC.String(),
		"an explicit zero is kept as written")
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("shop: [unclosed"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFormat))
}

func TestValidateRejectsUnknownCategoryReference(t *testing.T) {
	doc := &Feed{
		Shop:       "Acme",
		Categories: []Category{{ID: "1", Name: "Widgets"}},
		Goods: []Good{
			{ID: "77", Name: "Gadget", Category: "999", Quantity: 1},
		},
	}
	err := doc.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeFormat))

	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Contains(t, typed.Details(), `goods[0]: unknown category "999"`)
}

func TestValidateRejectsMissingShopAndNegativeQuantity(t *testing.T) {
	doc := &Feed{
		Categories: []Category{{ID: "1", Name: "Widgets"}},
		Goods: []Good{
			{ID: "77", Name: "Gadget", Category: "1", Quantity: -3},
		},
	}
	err := doc.Validate()
	require.Error(t, err)

	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Contains(t, typed.Details(), "shop name is required")
	assert.Contains(t, typed.Details(), "goods[0]: quantity must not be negative")
}

func TestValidateRejectsDuplicateCategoryIDs(t *testing.T) {
	doc := &Feed{
		Shop: "Acme",
		Categories: []Category{
			{ID: "1", Name: "Widgets"},
			{ID: "1", Name: "Widgets Again"},
		},
	}
	err := doc.Validate()
	require.Error(t, err)

	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Contains(t, typed.Details(), `categories[1]: duplicate id "1"`)
}
