package domain

import "github.com/shopspring/decimal"

// VariantPatch is a sparse update: a nil field is left untouched, a non-nil
// field is written even when it holds a zero value. Identity (ID, Attributes)
// is never patched.
type VariantPatch struct {
	Title        *string          `json:"title,omitempty"`
	SKU          *string          `json:"sku,omitempty"`
	Barcode      *string          `json:"barcode,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	ComparePrice *decimal.Decimal `json:"comparePrice,omitempty"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	Inventory    *int             `json:"inventory,omitempty"`
	Weight       *decimal.Decimal `json:"weight,omitempty"`
	Dimensions   *Dimensions      `json:"dimensions,omitempty"`

	Active                        *bool `json:"active,omitempty"`
	TrackQuantity                 *bool `json:"trackQuantity,omitempty"`
	ContinueSellingWhenOutOfStock *bool `json:"continueSellingWhenOutOfStock,omitempty"`
	RequiresShipping              *bool `json:"requiresShipping,omitempty"`
	Taxable                       *bool `json:"taxable,omitempty"`

	Images          *[]string        `json:"images,omitempty"`
	SalesChannels   ChannelSet       `json:"salesChannels,omitempty"` // merged per channel
	InventoryPolicy *InventoryPolicy `json:"inventoryPolicy,omitempty"`

	// LowStockThreshold is applied after InventoryPolicy.
	LowStockThreshold *int `json:"lowStockThreshold,omitempty"`
}

func (p VariantPatch) IsEmpty() bool {
	return p.Title == nil && p.SKU == nil && p.Barcode == nil &&
		p.Price == nil && p.ComparePrice == nil && p.Cost == nil &&
		p.Inventory == nil && p.Weight == nil && p.Dimensions == nil &&
		p.Active == nil && p.TrackQuantity == nil && p.ContinueSellingWhenOutOfStock == nil &&
		p.RequiresShipping == nil && p.Taxable == nil &&
		p.Images == nil && len(p.SalesChannels) == 0 && p.InventoryPolicy == nil &&
		p.LowStockThreshold == nil
}

// Apply writes the present fields of p onto v.
func (p VariantPatch) Apply(v *Variant) {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.SKU != nil {
		v.SKU = *p.SKU
	}
	if p.Barcode != nil {
		v.Barcode = *p.Barcode
	}
	if p.Price != nil {
		v.Price = *p.Price
	}
	if p.ComparePrice != nil {
		v.ComparePrice = *p.ComparePrice
	}
	if p.Cost != nil {
		v.Cost = *p.Cost
	}
	if p.Inventory != nil {
		v.Inventory = *p.Inventory
	}
	if p.Weight != nil {
		v.Weight = *p.Weight
	}
	if p.Dimensions != nil {
		v.Dimensions = *p.Dimensions
	}
	if p.Active != nil {
		v.Active = *p.Active
	}
	if p.TrackQuantity != nil {
		v.TrackQuantity = *p.TrackQuantity
	}
	if p.ContinueSellingWhenOutOfStock != nil {
		v.ContinueSellingWhenOutOfStock = *p.ContinueSellingWhenOutOfStock
	}
	if p.RequiresShipping != nil {
		v.RequiresShipping = *p.RequiresShipping
	}
	if p.Taxable != nil {
		v.Taxable = *p.Taxable
	}
	if p.Images != nil {
		v.Images = append([]string{}, (*p.Images)...)
	}
	if len(p.SalesChannels) > 0 {
		channels := v.SalesChannels.Clone()
		for c, on := range p.SalesChannels {
			channels[c] = on
		}
		v.SalesChannels = channels
	}
	if p.InventoryPolicy != nil {
		v.InventoryPolicy = *p.InventoryPolicy
	}
	if p.LowStockThreshold != nil {
		v.InventoryPolicy.LowStockThreshold = *p.LowStockThreshold
	}
}

// BulkEditForm is the raw table/bulk-edit input. Numeric fields arrive as text;
// nil or "" means "don't touch".
type BulkEditForm struct {
	Price             *string `json:"price"`
	ComparePrice      *string `json:"comparePrice"`
	Cost              *string `json:"cost"`
	Inventory         *string `json:"inventory"`
	Weight            *string `json:"weight"`
	LowStockThreshold *string `json:"lowStockThreshold"`

	Active                        *bool `json:"active"`
	TrackQuantity                 *bool `json:"trackQuantity"`
	ContinueSellingWhenOutOfStock *bool `json:"continueSellingWhenOutOfStock"`
	RequiresShipping              *bool `json:"requiresShipping"`
	Taxable                       *bool `json:"taxable"`
}
