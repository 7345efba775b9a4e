package collection

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront-variants/internal/domain"
)

// Filter returns the variants matching f, in collection order. The search term
// matches case-insensitively against title, SKU and every tuple value; the
// status filter is an exact match on Active. Both must hold.
func Filter(variants []domain.Variant, f domain.VariantFilter) []domain.Variant {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Variant, 0, len(variants))
	for _, v := range variants {
		if !matchesStatus(v, f.Status) || !matchesTerm(v, term) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func matchesStatus(v domain.Variant, status domain.StatusFilter) bool {
	switch status {
	case domain.StatusActive:
		return v.Active
	case domain.StatusInactive:
		return !v.Active
	default:
		return true
	}
}

func matchesTerm(v domain.Variant, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(v.Title), term) || strings.Contains(strings.ToLower(v.SKU), term) {
		return true
	}
	for _, c := range v.Attributes {
		if strings.Contains(strings.ToLower(c.Value), term) {
			return true
		}
	}
	return false
}

// AggregateStats summarises variants using the display low-stock threshold.
func AggregateStats(variants []domain.Variant) domain.VariantStats {
	return AggregateStatsWithThreshold(variants, domain.LowStockDisplayThreshold)
}

// AggregateStatsWithThreshold counts a variant as low on stock when its
// inventory is below lowStock. AvgPrice is zero for an empty list.
func AggregateStatsWithThreshold(variants []domain.Variant, lowStock int) domain.VariantStats {
	stats := domain.VariantStats{AvgPrice: decimal.Zero}
	total := decimal.Zero
	for _, v := range variants {
		stats.TotalVariants++
		if v.Active {
			stats.ActiveVariants++
		} else {
			stats.InactiveVariants++
		}
		total = total.Add(v.Price)
		stats.TotalInventory += v.Inventory
		if v.Inventory < lowStock {
			stats.LowStock++
		}
	}
	if stats.TotalVariants > 0 {
		stats.AvgPrice = total.Div(decimal.NewFromInt(int64(stats.TotalVariants)))
	}
	return stats
}
