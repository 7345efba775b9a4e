package engine

import (
	"github.com/shopspring/decimal"

	"storefront-variants/internal/domain"
)

// AttributeIndex resolves the price modifier of a chosen value without
// rescanning the attribute set for every tuple. Build it once per pass.
type AttributeIndex struct {
	byValueID map[string]decimal.Decimal
	byLabel   map[string]map[string]decimal.Decimal
}

// NewIndex indexes attrs. When an attribute name or a value label repeats,
// the first occurrence wins for label lookups; value ids are always exact.
func NewIndex(attrs []domain.Attribute) *AttributeIndex {
	ix := &AttributeIndex{
		byValueID: make(map[string]decimal.Decimal),
		byLabel:   make(map[string]map[string]decimal.Decimal, len(attrs)),
	}
	for _, a := range attrs {
		labels, ok := ix.byLabel[a.Name]
		if !ok {
			labels = make(map[string]decimal.Decimal, len(a.Values))
			ix.byLabel[a.Name] = labels
		}
		for _, v := range a.Values {
			if v.ID != "" {
				if _, dup := ix.byValueID[v.ID]; !dup {
					ix.byValueID[v.ID] = v.PriceModifier
				}
			}
			if _, dup := labels[v.Value]; !dup {
				labels[v.Value] = v.PriceModifier
			}
		}
	}
	return ix
}

// Modifier returns the price modifier for c, or zero if c is unknown.
func (ix *AttributeIndex) Modifier(c domain.Choice) decimal.Decimal {
	if ix == nil {
		return decimal.Zero
	}
	if c.ValueID != "" {
		if m, ok := ix.byValueID[c.ValueID]; ok {
			return m
		}
	}
	return ix.byLabel[c.Name][c.Value]
}

// Sum adds up the modifiers of every choice in t.
func (ix *AttributeIndex) Sum(t domain.Tuple) decimal.Decimal {
	total := decimal.Zero
	for _, c := range t {
		total = total.Add(ix.Modifier(c))
	}
	return total
}
