package domain

import (
	"sort"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Choice is one (attribute name -> value label) pair of a tuple.
type Choice struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	ValueID string `json:"valueId,omitempty"`
}

// Tuple is one concrete combination, ordered by attribute display order.
type Tuple []Choice

// Key returns the canonical identity of the tuple: name/value pairs sorted by
// name and serialised as JSON. Value ids do not take part in identity.
func (t Tuple) Key() string {
	pairs := make([][2]string, len(t))
	for i, c := range t {
		pairs[i] = [2]string{c.Name, c.Value}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })
	b, err := json.Marshal(pairs)
	if err != nil {
		// [][2]string always marshals
		panic(err)
	}
	return string(b)
}

// Values returns the value labels in tuple order.
func (t Tuple) Values() []string {
	out := make([]string, len(t))
	for i, c := range t {
		out[i] = c.Value
	}
	return out
}

// Map returns the tuple as attribute name -> value label.
func (t Tuple) Map() map[string]string {
	m := make(map[string]string, len(t))
	for _, c := range t {
		if _, ok := m[c.Name]; !ok {
			m[c.Name] = c.Value
		}
	}
	return m
}

func (t Tuple) Clone() Tuple {
	if t == nil {
		return nil
	}
	out := make(Tuple, len(t))
	copy(out, t)
	return out
}

type Dimensions struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Unit   string          `json:"unit"`
}

type SalesChannel string

const (
	ChannelOnline      SalesChannel = "online"
	ChannelInStore     SalesChannel = "in_store"
	ChannelMobile      SalesChannel = "mobile"
	ChannelSocial      SalesChannel = "social"
	ChannelMarketplace SalesChannel = "marketplace"
)

var SalesChannels = []SalesChannel{
	ChannelOnline,
	ChannelInStore,
	ChannelMobile,
	ChannelSocial,
	ChannelMarketplace,
}

func IsValidSalesChannel(c SalesChannel) bool {
	for _, known := range SalesChannels {
		if known == c {
			return true
		}
	}
	return false
}

// ChannelSet is the set of channels a variant is visible on.
type ChannelSet map[SalesChannel]bool

func (s ChannelSet) Clone() ChannelSet {
	out := make(ChannelSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Enabled returns the enabled channels in declaration order.
func (s ChannelSet) Enabled() []SalesChannel {
	var out []SalesChannel
	for _, c := range SalesChannels {
		if s[c] {
			out = append(out, c)
		}
	}
	return out
}

type InventoryPolicy struct {
	LowStockThreshold int `json:"lowStockThreshold"`
	ReorderPoint      int `json:"reorderPoint"`
	MaxStock          int `json:"maxStock"`
}

// Variant is a sellable configuration for exactly one tuple.
type Variant struct {
	ID           string          `json:"id"`
	Attributes   Tuple           `json:"attributes"`
	Title        string          `json:"title"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	Price        decimal.Decimal `json:"price"`
	ComparePrice decimal.Decimal `json:"comparePrice"`
	Cost         decimal.Decimal `json:"cost"`
	Inventory    int             `json:"inventory"`
	Weight       decimal.Decimal `json:"weight"`
	Dimensions   Dimensions      `json:"dimensions"`

	Active                        bool `json:"active"`
	TrackQuantity                 bool `json:"trackQuantity"`
	ContinueSellingWhenOutOfStock bool `json:"continueSellingWhenOutOfStock"`
	RequiresShipping              bool `json:"requiresShipping"`
	Taxable                       bool `json:"taxable"`

	Images          []string        `json:"images"`
	SalesChannels   ChannelSet      `json:"salesChannels"`
	InventoryPolicy InventoryPolicy `json:"inventoryPolicy"`
}

// Key is the reconciliation identity of the variant.
func (v Variant) Key() string {
	return v.Attributes.Key()
}

// Clone returns a deep copy so that snapshots never share mutable slices or maps.
func (v Variant) Clone() Variant {
	out := v
	out.Attributes = v.Attributes.Clone()
	if v.Images != nil {
		out.Images = make([]string, len(v.Images))
		copy(out.Images, v.Images)
	}
	if v.SalesChannels != nil {
		out.SalesChannels = v.SalesChannels.Clone()
	}
	return out
}
