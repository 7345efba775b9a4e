package collection

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront-variants/internal/domain"
)

// DetailEditor edits a single variant in place of the collection: media,
// shipping, channels and inventory policy.
type DetailEditor struct {
	store *Store
	id    string
}

func (s *Store) Editor(id string) *DetailEditor {
	return &DetailEditor{store: s, id: id}
}

func (e *DetailEditor) Variant() (domain.Variant, error) {
	v, ok := e.store.Snapshot().Find(e.id)
	if !ok {
		return domain.Variant{}, domain.ErrVariantNotFound
	}
	return v, nil
}

// Apply writes the present fields of patch.
func (e *DetailEditor) Apply(patch domain.VariantPatch) (domain.Variant, error) {
	if patch.Inventory != nil && *patch.Inventory < 0 {
		return domain.Variant{}, domain.ErrNegativeInventory
	}
	for c := range patch.SalesChannels {
		if !domain.IsValidSalesChannel(c) {
			return domain.Variant{}, fmt.Errorf("%w: %s", domain.ErrInvalidSalesChannel, c)
		}
	}
	_, v, err := e.store.Modify(e.id, func(v *domain.Variant) error {
		patch.Apply(v)
		return nil
	})
	return v, err
}

func (e *DetailEditor) AddImage(ref string) (domain.Variant, error) {
	_, v, err := e.store.Modify(e.id, func(v *domain.Variant) error {
		v.Images = append(v.Images, ref)
		return nil
	})
	return v, err
}

func (e *DetailEditor) RemoveImage(index int) (domain.Variant, error) {
	_, v, err := e.store.Modify(e.id, func(v *domain.Variant) error {
		if index < 0 || index >= len(v.Images) {
			return domain.ErrImageIndexOutOfRange
		}
		v.Images = append(v.Images[:index], v.Images[index+1:]...)
		return nil
	})
	return v, err
}

// MoveImage moves the image at from to position to, shifting the others.
func (e *DetailEditor) MoveImage(from, to int) (domain.Variant, error) {
	_, v, err := e.store.Modify(e.id, func(v *domain.Variant) error {
		n := len(v.Images)
		if from < 0 || from >= n || to < 0 || to >= n {
			return domain.ErrImageIndexOutOfRange
		}
		img := v.Images[from]
		rest := append(v.Images[:from:from], v.Images[from+1:]...)
		out := make([]string, 0, n)
		out = append(out, rest[:to]...)
		out = append(out, img)
		out = append(out, rest[to:]...)
		v.Images = out
		return nil
	})
	return v, err
}

func (e *DetailEditor) SetChannel(c domain.SalesChannel, enabled bool) (domain.Variant, error) {
	if !domain.IsValidSalesChannel(c) {
		return domain.Variant{}, fmt.Errorf("%w: %s", domain.ErrInvalidSalesChannel, c)
	}
	return e.Apply(domain.VariantPatch{SalesChannels: domain.ChannelSet{c: enabled}})
}

func (e *DetailEditor) SetInventoryPolicy(p domain.InventoryPolicy) (domain.Variant, error) {
	return e.Apply(domain.VariantPatch{InventoryPolicy: &p})
}

func (e *DetailEditor) UpdateShipping(weight decimal.Decimal, dims domain.Dimensions, requiresShipping bool) (domain.Variant, error) {
	return e.Apply(domain.VariantPatch{
		Weight:           &weight,
		Dimensions:       &dims,
		RequiresShipping: &requiresShipping,
	})
}
