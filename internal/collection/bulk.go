package collection

import (
	"storefront-variants/internal/domain"
	"storefront-variants/pkg/utils"
)

// ParseBulkForm converts raw bulk-edit input into a sparse patch. Blank fields
// stay absent. Fields that do not parse, or a negative inventory, are left
// out of the patch and reported by name; they never become zero.
func ParseBulkForm(form domain.BulkEditForm) (domain.VariantPatch, []string) {
	var patch domain.VariantPatch
	var rejected []string

	if v, present, ok := utils.ParseOptionalDecimal(form.Price); present {
		if ok {
			patch.Price = &v
		} else {
			rejected = append(rejected, "price")
		}
	}
	if v, present, ok := utils.ParseOptionalDecimal(form.ComparePrice); present {
		if ok {
			patch.ComparePrice = &v
		} else {
			rejected = append(rejected, "comparePrice")
		}
	}
	if v, present, ok := utils.ParseOptionalDecimal(form.Cost); present {
		if ok {
			patch.Cost = &v
		} else {
			rejected = append(rejected, "cost")
		}
	}
	if v, present, ok := utils.ParseOptionalDecimal(form.Weight); present {
		if ok {
			patch.Weight = &v
		} else {
			rejected = append(rejected, "weight")
		}
	}
	if v, present, ok := utils.ParseOptionalInt(form.Inventory); present {
		if ok && v >= 0 {
			patch.Inventory = &v
		} else {
			rejected = append(rejected, "inventory")
		}
	}
	if v, present, ok := utils.ParseOptionalInt(form.LowStockThreshold); present {
		if ok && v >= 0 {
			patch.LowStockThreshold = &v
		} else {
			rejected = append(rejected, "lowStockThreshold")
		}
	}

	patch.Active = form.Active
	patch.TrackQuantity = form.TrackQuantity
	patch.ContinueSellingWhenOutOfStock = form.ContinueSellingWhenOutOfStock
	patch.RequiresShipping = form.RequiresShipping
	patch.Taxable = form.Taxable

	return patch, rejected
}

// BulkEditForm parses form and applies it to the selection.
func (s *Store) BulkEditForm(form domain.BulkEditForm) (*Snapshot, int, []string) {
	patch, rejected := ParseBulkForm(form)
	snap, n, _ := s.BulkEdit(patch)
	return snap, n, rejected
}
