package models

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

// Stock level classifications derived from the current stock count.
const (
	StockLevelOut = "out-of-stock"
	StockLevelLow = "low-stock"
	StockLevelIn  = "in-stock"
)

// PriceBreak is a quantity threshold at which a lower unit price applies.
// A product's breaks are not guaranteed to be sorted or free of duplicates.
type PriceBreak struct {
	MinQty int     `json:"min_qty"`
	Price  float64 `json:"price"`
}

type Product struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	SKU         string       `json:"sku"`
	Category    string       `json:"category,omitempty"`
	Supplier    string       `json:"supplier,omitempty"`
	Description string       `json:"description,omitempty"`
	BasePrice   float64      `json:"base_price"`
	Stock       int          `json:"stock"`
	Status      string       `json:"status"`
	Colors      []string     `json:"colors,omitempty"`
	Sizes       []string     `json:"sizes,omitempty"`
	PriceBreaks []PriceBreak `json:"price_breaks,omitempty"`
}

// CanAddToCart reports whether the product is orderable at all.
func (p *Product) CanAddToCart() bool {
	return p.Status == StatusActive && p.Stock > 0
}

// StockLevel buckets the current stock count for display badges.
func (p *Product) StockLevel(lowThreshold int) string {
	switch {
	case p.Stock == 0:
		return StockLevelOut
	case p.Stock < lowThreshold:
		return StockLevelLow
	default:
		return StockLevelIn
	}
}
