package domain

import "github.com/shopspring/decimal"

type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

var StatusFilters = []StatusFilter{StatusAll, StatusActive, StatusInactive}

// ParseStatusFilter maps unknown or empty input to StatusAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case StatusActive:
		return StatusActive
	case StatusInactive:
		return StatusInactive
	default:
		return StatusAll
	}
}

// VariantFilter selects the presented view of a collection.
type VariantFilter struct {
	Search string
	Status StatusFilter
}

// VariantStats summarises a list of variants for the stats panel.
type VariantStats struct {
	TotalVariants    int             `json:"totalVariants"`
	ActiveVariants   int             `json:"activeVariants"`
	InactiveVariants int             `json:"inactiveVariants"`
	AvgPrice         decimal.Decimal `json:"avgPrice"`
	TotalInventory   int             `json:"totalInventory"`
	LowStock         int             `json:"lowStock"`
}
