package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-variants/internal/domain"
	"storefront-variants/pkg/utils"
)

// TitleSeparator joins value labels into a variant title.
const TitleSeparator = " / "

// Seed holds the default field values of newly synthesized variants.
type Seed struct {
	SKUPrefix         string
	Inventory         int
	ComparePriceRatio decimal.Decimal
	CostRatio         decimal.Decimal
	Channels          []domain.SalesChannel
	InventoryPolicy   domain.InventoryPolicy

	Active                        bool
	TrackQuantity                 bool
	ContinueSellingWhenOutOfStock bool
	RequiresShipping              bool
	Taxable                       bool
}

// DefaultSeed returns the storefront conventions: 100 units in stock, compare
// price at 125% and cost at 60% of the resolved price, active and taxable.
func DefaultSeed() Seed {
	return Seed{
		SKUPrefix:         domain.DefaultSKUPrefix,
		Inventory:         domain.DefaultInventory,
		ComparePriceRatio: decimal.RequireFromString(domain.DefaultComparePriceRatio),
		CostRatio:         decimal.RequireFromString(domain.DefaultCostRatio),
		Channels:          append([]domain.SalesChannel(nil), domain.DefaultChannels...),
		InventoryPolicy: domain.InventoryPolicy{
			LowStockThreshold: domain.DefaultLowStockThreshold,
			ReorderPoint:      domain.DefaultReorderPoint,
			MaxStock:          domain.DefaultMaxStock,
		},
		Active:           true,
		TrackQuantity:    true,
		RequiresShipping: true,
		Taxable:          true,
	}
}

// Synthesizer turns tuples into new variants.
type Synthesizer struct {
	seed  Seed
	newID func() string
}

func NewSynthesizer(seed Seed) *Synthesizer {
	return &Synthesizer{seed: seed, newID: uuid.NewString}
}

// WithIDGenerator replaces the identity source, mainly for tests.
func (s *Synthesizer) WithIDGenerator(fn func() string) *Synthesizer {
	return &Synthesizer{seed: s.seed, newID: fn}
}

// Synthesize creates a variant with a fresh identity for t.
// Price fields are seeded here once and never recomputed afterwards.
func (s *Synthesizer) Synthesize(t domain.Tuple, idx *AttributeIndex, basePrice decimal.Decimal) domain.Variant {
	values := t.Values()
	price := basePrice.Add(idx.Sum(t))

	channels := make(domain.ChannelSet, len(domain.SalesChannels))
	for _, c := range domain.SalesChannels {
		channels[c] = false
	}
	for _, c := range s.seed.Channels {
		channels[c] = true
	}

	return domain.Variant{
		ID:           s.newID(),
		Attributes:   t.Clone(),
		Title:        Title(t),
		SKU:          utils.GenerateSKU(s.seed.SKUPrefix, values),
		Price:        price,
		ComparePrice: price.Mul(s.seed.ComparePriceRatio),
		Cost:         price.Mul(s.seed.CostRatio),
		Inventory:    s.seed.Inventory,
		Weight:       decimal.Zero,
		Dimensions:   domain.Dimensions{Unit: "cm"},

		Active:                        s.seed.Active,
		TrackQuantity:                 s.seed.TrackQuantity,
		ContinueSellingWhenOutOfStock: s.seed.ContinueSellingWhenOutOfStock,
		RequiresShipping:              s.seed.RequiresShipping,
		Taxable:                       s.seed.Taxable,

		Images:          []string{},
		SalesChannels:   channels,
		InventoryPolicy: s.seed.InventoryPolicy,
	}
}

// Title joins the value labels of t in tuple order.
func Title(t domain.Tuple) string {
	return strings.Join(t.Values(), TitleSeparator)
}
