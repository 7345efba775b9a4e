package domain

// Seed defaults for synthesized variants. All of them are overridable via config.
const (
	DefaultSKUPrefix         = "VAR-"
	DefaultInventory         = 100
	DefaultComparePriceRatio = "1.25"
	DefaultCostRatio         = "0.6"
	DefaultLowStockThreshold = 10
	DefaultReorderPoint      = 20
	DefaultMaxStock          = 1000
)

// LowStockDisplayThreshold is the inventory level below which the stats panel
// counts a variant as low on stock.
const LowStockDisplayThreshold = 10

// DefaultChannels are enabled on every newly synthesized variant.
var DefaultChannels = []SalesChannel{
	ChannelOnline,
	ChannelInStore,
	ChannelMobile,
}
