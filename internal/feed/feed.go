package feed

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	apperrors "github.com/vendorahq/vendora-backend/pkg/errors"
)

// ScalarString accepts any YAML scalar and keeps its literal text. Supplier
// feeds are inconsistent about quoting ids and parameter values, so "421"
// and 421 must decode to the same thing.
type ScalarString string

func (s *ScalarString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar, got %s", node.Tag)
	}
	*s = ScalarString(node.Value)
	return nil
}

func (s ScalarString) String() string {
	return string(s)
}

// Money decodes a YAML scalar into an exact decimal amount and remembers
// whether the document carried the field at all, so omitted amounts can be
// defaulted rather than read as zero.
type Money struct {
	decimal.Decimal
	set bool
}

func (m *Money) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected scalar amount, got %s", node.Tag)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", node.Value, err)
	}
	m.Decimal = amount
	m.set = true
	return nil
}

// Category is one category entry of a supplier feed.
type Category struct {
	ID   ScalarString `yaml:"id"`
	Name string       `yaml:"name"`
}

// Good is one sellable item of a supplier feed.
type Good struct {
	ID         ScalarString            `yaml:"id"`
	Name       string                  `yaml:"name"`
	Category   ScalarString            `yaml:"category"`
	Model      string                  `yaml:"model"`
	Price      Money                   `yaml:"price"`
	PriceRRC   Money                   `yaml:"price_rrc"`
	Quantity   int                     `yaml:"quantity"`
	Parameters map[string]ScalarString `yaml:"parameters"`
}

// Feed is a full supplier catalog document. A successful import replaces
// the shop's entire offering set with the goods listed here.
type Feed struct {
	Shop       string     `yaml:"shop"`
	Categories []Category `yaml:"categories"`
	Goods      []Good     `yaml:"goods"`
}

// Parse decodes and structurally validates a feed document. Goods that omit
// price_rrc inherit their price.
func Parse(data []byte) (*Feed, error) {
	var doc Feed
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFormat, err, "feed is not valid yaml")
	}
	for i := range doc.Goods {
		if !doc.Goods[i].PriceRRC.set {
			doc.Goods[i].PriceRRC = doc.Goods[i].Price
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural rules that hold regardless of catalog state.
// Referential checks against the database happen during apply.
func (f *Feed) Validate() error {
	var errs []error

	if strings.TrimSpace(f.Shop) == "" {
		errs = append(errs, fmt.Errorf("shop name is required"))
	}
	seenCategories := make(map[ScalarString]struct{}, len(f.Categories))
	for i, cat := range f.Categories {
		if cat.ID == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: id is required", i))
		}
		if strings.TrimSpace(cat.Name) == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name is required", i))
		}
		if _, dup := seenCategories[cat.ID]; dup {
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate id %q", i, cat.ID))
		}
		seenCategories[cat.ID] = struct{}{}
	}
	for i, good := range f.Goods {
		if good.ID == "" {
			errs = append(errs, fmt.Errorf("goods[%d]: id is required", i))
		}
		if strings.TrimSpace(good.Name) == "" {
			errs = append(errs, fmt.Errorf("goods[%d]: name is required", i))
		}
		if good.Category == "" {
			errs = append(errs, fmt.Errorf("goods[%d]: category is required", i))
		} else if _, ok := seenCategories[good.Category]; !ok {
			errs = append(errs, fmt.Errorf("goods[%d]: unknown category %q", i, good.Category))
		}
		if good.Quantity < 0 {
			errs = append(errs, fmt.Errorf("goods[%d]: quantity must not be negative", i))
		}
		if good.Price.IsNegative() || good.PriceRRC.IsNegative() {
			errs = append(errs, fmt.Errorf("goods[%d]: prices must not be negative", i))
		}
	}

	combined := multierr.Combine(errs...)
	if combined == nil {
		return nil
	}
	details := make([]string, 0, len(errs))
	for _, problem := range multierr.Errors(combined) {
		details = append(details, problem.Error())
	}
	return apperrors.Wrap(apperrors.CodeFormat, combined, "feed document failed validation").
		WithDetails(details)
}
