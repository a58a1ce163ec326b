// Package catalog holds the session's immutable product snapshot and answers
// the stock and lookup queries the cart and quotation engines depend on.
package catalog

import (
	"sort"
	"strings"

	"github.com/sebagonz91/promo-storefront/internal/models"
)

// Reader is the read-only view the line-item engines consult for authoritative
// price and stock data.
type Reader interface {
	FindByID(id int64) (*models.Product, bool)
	StockOf(id int64) (int, bool)
}

// Sort orders accepted by List.
const (
	SortByName  = "name"
	SortByPrice = "price"
	SortByStock = "stock"
)

// Filter narrows and orders a catalog listing. Nil price bounds are open.
type Filter struct {
	Category string
	Supplier string
	Query    string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
}

// Catalog is an immutable-for-the-session product list.
type Catalog struct {
	products []models.Product
	byID     map[int64]*models.Product
}

func New(products []models.Product) *Catalog {
	c := &Catalog{
		products: products,
		byID:     make(map[int64]*models.Product, len(products)),
	}

	for i := range c.products {
		c.byID[c.products[i].ID] = &c.products[i]
	}

	return c
}

func (c *Catalog) FindByID(id int64) (*models.Product, bool) {
	p, ok := c.byID[id]

	return p, ok
}

// StockOf returns the current stock for a product. The second return value is
// false when the product has been delisted; callers fall back to their own
// snapshotted stock in that case.
func (c *Catalog) StockOf(id int64) (int, bool) {
	p, ok := c.byID[id]
	if !ok {
		return 0, false
	}

	return p.Stock, true
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// List returns the products matching the filter, ordered per SortBy. The
// returned slice is a copy; mutating it does not touch the catalog.
func (c *Catalog) List(f Filter) []models.Product {
	filtered := make([]models.Product, 0, len(c.products))

	term := strings.ToLower(strings.TrimSpace(f.Query))

	for _, p := range c.products {
		if f.Category != "" && f.Category != "all" && p.Category != f.Category {
			continue
		}

		if f.Supplier != "" && p.Supplier != f.Supplier {
			continue
		}

		if f.MinPrice != nil && p.BasePrice < *f.MinPrice {
			continue
		}

		if f.MaxPrice != nil && p.BasePrice > *f.MaxPrice {
			continue
		}

		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.SKU), term) {
			continue
		}

		filtered = append(filtered, p)
	}

	switch f.SortBy {
	case SortByPrice:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].BasePrice < filtered[j].BasePrice
		})
	case SortByStock:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Stock > filtered[j].Stock
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Name < filtered[j].Name
		})
	}

	return filtered
}
