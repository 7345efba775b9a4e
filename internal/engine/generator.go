package engine

import (
	"math"
	"sort"

	"storefront-variants/internal/domain"
)

// maxPrealloc bounds the up-front allocation of Generate. Larger products
// grow by append.
const maxPrealloc = 4096

// Generate returns the Cartesian product of the eligible attributes.
// Attributes are ordered by DisplayOrder (ties keep input order) and values
// keep their insertion order, so the first attribute varies slowest.
// Ineligible attributes are skipped; with none left the result is empty.
// Duplicate value labels are not collapsed.
func Generate(attrs []domain.Attribute) []domain.Tuple {
	eligible := sortedEligible(attrs)
	if len(eligible) == 0 {
		return []domain.Tuple{}
	}

	out := make([]domain.Tuple, 0, capacityHint(Count(attrs)))
	current := make(domain.Tuple, 0, len(eligible))

	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(eligible) {
			out = append(out, current.Clone())
			return
		}
		a := eligible[depth]
		for _, v := range a.Values {
			current = append(current, domain.Choice{Name: a.Name, Value: v.Value, ValueID: v.ID})
			walk(depth + 1)
			current = current[:len(current)-1]
		}
	}
	walk(0)

	return out
}

// Count returns the number of tuples Generate would produce, saturating at math.MaxInt.
func Count(attrs []domain.Attribute) int {
	n := 0
	for _, a := range attrs {
		if !a.IsEligible() {
			continue
		}
		if n == 0 {
			n = 1
		}
		size := len(a.Values)
		if n > math.MaxInt/size {
			return math.MaxInt
		}
		n *= size
	}
	return n
}

func capacityHint(n int) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return n
}

func sortedEligible(attrs []domain.Attribute) []domain.Attribute {
	eligible := domain.AttributeSet(attrs).Eligible()
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].DisplayOrder < eligible[j].DisplayOrder
	})
	return eligible
}
