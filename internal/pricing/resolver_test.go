package pricing_test

import (
	"testing"

	"github.com/sebagonz91/promo-storefront/internal/models"
	"github.com/sebagonz91/promo-storefront/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitPriceFor(t *testing.T) {
	product := &models.Product{
		ID:        1,
		BasePrice: 100,
		PriceBreaks: []models.PriceBreak{
			{MinQty: 10, Price: 85},
			{MinQty: 5, Price: 90},
		},
	}

	t.Run("Below Every Break", func(t *testing.T) {
		assert.Equal(t, float64(100), pricing.UnitPriceFor(product, 4))
	})

	t.Run("First Qualifying Break", func(t *testing.T) {
		assert.Equal(t, float64(90), pricing.UnitPriceFor(product, 5))
	})

	t.Run("Deepest Qualifying Break", func(t *testing.T) {
		assert.Equal(t, float64(85), pricing.UnitPriceFor(product, 25))
	})

	t.Run("No Breaks", func(t *testing.T) {
		bare := &models.Product{ID: 2, BasePrice: 50}
		assert.Equal(t, float64(50), pricing.UnitPriceFor(bare, 100))
	})

	t.Run("Break Above Base Price Is Ignored", func(t *testing.T) {
		odd := &models.Product{
			ID:          3,
			BasePrice:   100,
			PriceBreaks: []models.PriceBreak{{MinQty: 2, Price: 120}, {MinQty: 5, Price: 95}},
		}
		assert.Equal(t, float64(100), pricing.UnitPriceFor(odd, 3))
		assert.Equal(t, float64(95), pricing.UnitPriceFor(odd, 5))
	})
}

func TestBestBreak(t *testing.T) {
	t.Run("Lowest Price Wins With Tie On Higher MinQty", func(t *testing.T) {
		// Arrange
		product := &models.Product{
			ID:        1,
			BasePrice: 100,
			PriceBreaks: []models.PriceBreak{
				{MinQty: 5, Price: 90},
				{MinQty: 10, Price: 90},
				{MinQty: 3, Price: 95},
			},
		}

		// Act
		best, ok := pricing.BestBreak(product)

		// Assert
		require.True(t, ok)
		assert.Equal(t, models.PriceBreak{MinQty: 10, Price: 90}, best)
	})

	t.Run("Single Break Is Not A Discount", func(t *testing.T) {
		product := &models.Product{
			ID:          2,
			BasePrice:   100,
			PriceBreaks: []models.PriceBreak{{MinQty: 5, Price: 90}},
		}

		_, ok := pricing.BestBreak(product)
		assert.False(t, ok)
	})

	t.Run("No Breaks", func(t *testing.T) {
		_, ok := pricing.BestBreak(&models.Product{ID: 3, BasePrice: 100})
		assert.False(t, ok)
	})
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		stock     int
		want      int
	}{
		{"Within Stock", 3, 10, 3},
		{"Exceeds Stock", 15, 10, 10},
		{"Exact Stock", 10, 10, 10},
		{"Zero Requested Coerced To One", 0, 10, 1},
		{"Negative Requested Coerced To One", -4, 10, 1},
		{"Minimum Of One", 1, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.Clamp(tt.requested, tt.stock))
		})
	}
}
