package models

// LineItems is an ordered collection of line items, unique by VariantKey.
// Both the cart and the quotation are instances of it.
type LineItems []LineItem

// IndexOf returns the position of the item matching key, or -1.
func (items LineItems) IndexOf(key VariantKey) int {
	for i := range items {
		if items[i].Key() == key {
			return i
		}
	}

	return -1
}

// Remove deletes the entry matching key, preserving order. Removing an absent
// key is a no-op and reports false.
func (items *LineItems) Remove(key VariantKey) bool {
	i := items.IndexOf(key)
	if i < 0 {
		return false
	}

	*items = append((*items)[:i], (*items)[i+1:]...)

	return true
}

// ItemCount is the sum of quantities across all entries.
func (items LineItems) ItemCount() int {
	var count int

	for i := range items {
		count += items[i].Quantity
	}

	return count
}

// Subtotal is the sum of line totals across all entries.
func (items LineItems) Subtotal() float64 {
	var subtotal float64

	for i := range items {
		subtotal += items[i].TotalPrice
	}

	return subtotal
}

type Cart struct {
	Items LineItems `json:"items"`
	Total float64   `json:"total"`
}

func NewCart() *Cart {
	return &Cart{Items: LineItems{}}
}

// RecomputeTotals re-derives the cart total from its line items. Called after
// every mutation instead of trusting a previously stored value.
func (c *Cart) RecomputeTotals() {
	c.Total = c.Items.Subtotal()
}

func (c *Cart) ItemCount() int {
	return c.Items.ItemCount()
}
