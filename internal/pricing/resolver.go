// Package pricing selects unit prices from a product's base price and its
// quantity price breaks, and bounds requested quantities to available stock.
package pricing

import "github.com/sebagonz91/promo-storefront/internal/models"

// UnitPriceFor returns the unit price that applies at the given quantity: the
// qualifying break with the lowest price, or the base price when no break
// qualifies.
//
// Note that cart insertion deliberately prices at base price regardless of
// quantity; this quantity-sensitive resolution is used for display.
func UnitPriceFor(p *models.Product, quantity int) float64 {
	price := p.BasePrice

	for _, pb := range p.PriceBreaks {
		if quantity >= pb.MinQty && pb.Price < price {
			price = pb.Price
		}
	}

	return price
}

// BestBreak returns the deepest available discount for display: the break
// with the lowest price, ties going to the higher MinQty. A product with
// fewer than two breaks has no best break to advertise.
func BestBreak(p *models.Product) (models.PriceBreak, bool) {
	if len(p.PriceBreaks) <= 1 {
		return models.PriceBreak{}, false
	}

	best := p.PriceBreaks[0]

	for _, pb := range p.PriceBreaks[1:] {
		if pb.Price < best.Price || (pb.Price == best.Price && pb.MinQty > best.MinQty) {
			best = pb
		}
	}

	return best, true
}

// Clamp bounds a requested quantity into [1, stock]. Non-positive requests
// are coerced to 1 first, so a positive stock never yields a quantity below
// one. Callers must special-case stock <= 0 and reject the mutation instead,
// since clamping to 1 would violate the stock bound.
func Clamp(requested, stock int) int {
	if requested < 1 {
		requested = 1
	}

	if requested > stock {
		return stock
	}

	return requested
}
