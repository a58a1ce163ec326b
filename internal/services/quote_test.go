package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sebagonz91/promo-storefront/internal/catalog"
	appErrors "github.com/sebagonz91/promo-storefront/internal/errors"
	"github.com/sebagonz91/promo-storefront/internal/models"
	service "github.com/sebagonz91/promo-storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQuote(t *testing.T) (*service.QuoteService, *service.CartService, *recordingNotifier) {
	t.Helper()

	store := newMemCartStore()
	notifier := &recordingNotifier{}
	cat := catalog.New(catalogProducts())

	return service.NewQuoteService(cat, store, notifier),
		service.NewCartService(cat, store, notifier),
		notifier
}

func TestOpenQuotation(t *testing.T) {
	ctx := context.Background()

	t.Run("Without Product Starts Empty", func(t *testing.T) {
		quotes, _, _ := setupQuote(t)

		quote, err := quotes.Open(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, quote.Items)
		assert.False(t, quote.CartSynced)
		assert.Zero(t, quote.Total)
	})

	t.Run("With Product Seeds One Unit At Base Price", func(t *testing.T) {
		quotes, _, _ := setupQuote(t)
		productID := int64(7)

		quote, err := quotes.Open(ctx, &productID)
		require.NoError(t, err)
		require.Len(t, quote.Items, 1)
		assert.Equal(t, 1, quote.Items[0].Quantity)
		assert.Equal(t, float64(1000), quote.Items[0].UnitPrice)
		assert.Equal(t, float64(1000), quote.Total)
	})

	t.Run("Unknown Product", func(t *testing.T) {
		quotes, _, _ := setupQuote(t)
		productID := int64(999)

		_, err := quotes.Open(ctx, &productID)
		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Reopening Yields Fresh State", func(t *testing.T) {
		quotes, _, _ := setupQuote(t)

		first, err := quotes.Open(ctx, nil)
		require.NoError(t, err)
		second, err := quotes.Open(ctx, nil)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestAddCartItems(t *testing.T) {
	ctx := context.Background()

	t.Run("Merge Appends Cart Items Missing From The Quotation", func(t *testing.T) {
		// Arrange
		quotes, carts, _ := setupQuote(t)
		_, err := carts.AddItem(ctx, session, service.ItemRef{ProductID: 7}, 3)
		require.NoError(t, err)
		_, err = carts.AddItem(ctx, session, service.ItemRef{ProductID: 8, Color: strPtr("blanco"), Size: strPtr("M")}, 2)
		require.NoError(t, err)

		productID := int64(7)
		quote, err := quotes.Open(ctx, &productID)
		require.NoError(t, err)

		// Act
		quote, merged, err := quotes.AddCartItems(ctx, quote.ID, session)

		// Assert: product 7 was already quoted (qty 1) and must not be
		// overwritten by the cart's qty 3; product 8 is appended. The
		// pre-existing divergence clears the clean flag immediately.
		require.NoError(t, err)
		assert.True(t, merged)
		assert.False(t, quote.CartSynced)
		require.Len(t, quote.Items, 2)
		assert.Equal(t, 1, quote.Items[0].Quantity)
		assert.Equal(t, int64(8), quote.Items[1].Product.ID)
		assert.Equal(t, 2, quote.Items[1].Quantity)
		assert.Equal(t, float64(1000+2*5500), quote.Total)
	})

	t.Run("Merge Is Idempotent", func(t *testing.T) {
		// Arrange
		quotes, carts, _ := setupQuote(t)
		_, err := carts.AddItem(ctx, session, service.ItemRef{ProductID: 7}, 3)
		require.NoError(t, err)

		quote, err := quotes.Open(ctx, nil)
		require.NoError(t, err)

		// Act
		quote, merged, err := quotes.AddCartItems(ctx, quote.ID, session)
		require.NoError(t, err)
		require.True(t, merged)
		firstItems := len(quote.Items)

		quote, merged, err = quotes.AddCartItems(ctx, quote.ID, session)

		// Assert: second call is disabled while the flag is clean.
		require.NoError(t, err)
		assert.False(t, merged)
		assert.True(t, quote.CartSynced)
		assert.Len(t, quote.Items, firstItems)
	})

	t.Run("Empty Cart Disables The Merge", func(t *testing.T) {
		quotes, _, _ := setupQuote(t)
		quote, err := quotes.Open(ctx, nil)
		require.NoError(t, err)

		quote, merged, err := quotes.AddCartItems(ctx, quote.ID, session)
		require.NoError(t, err)
		assert.False(t, merged)
		assert.False(t, quote.CartSynced)
		assert.Empty(t, quote.Items)
	})

	t.Run("Merged Items Are Copies", func(t *testing.T) {
		// Arrange
		quotes, carts, _ := setupQuote(t)
		_, err := carts.AddItem(ctx, session, service.ItemRef{ProductID: 7}, 3)
		require.NoError(t, err)

		quote, err := quotes.Open(ctx, nil)
		require.NoError(t, err)
		_, _, err = quotes.AddCartItems(ctx, quote.ID, session)
		require.NoError(t, err)

		// Act: mutate the cart after the merge.
		_, err = carts.UpdateQuantity(ctx, session, service.ItemRef{ProductID: 7}, 1)
		require.NoError(t, err)

		// Assert: the quoted quantity is untouched.
		got, err := quotes.Get(ctx, quote.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Items[0].Quantity)
	})

	t.Run("Unknown Quotation", func(t *testing.T) {
		quotes, _, _ := setupQuote(t)

		_, _, err := quotes.AddCartItems(ctx, uuid.New(), session)
		require.Error(t, err)
	})
}

func TestQuotationCleanFlag(t *testing.T) {
	ctx := context.Background()

	merge := func(t *testing.T, quotes *service.QuoteService, carts *service.CartService) *models.Quotation {
		t.Helper()

		_, err := carts.AddItem(ctx, session, service.ItemRef{ProductID: 7}, 3)
		require.NoError(t, err)

		quote, err := quotes.Open(ctx, nil)
		require.NoError(t, err)

		quote, merged, err := quotes.AddCartItems(ctx, quote.ID, session)
		require.NoError(t, err)
		require.True(t, merged)

		return quote
	}

	t.Run("Diverging A Merged Quantity Clears The Flag", func(t *testing.T) {
		// Arrange
		quotes, carts, _ := setupQuote(t)
		quote := merge(t, quotes, carts)

		// Act
		quote, err := quotes.UpdateItemQuantity(ctx, quote.ID, session, service.ItemRef{ProductID: 7}, 2)

		// Assert
		require.NoError(t, err)
		assert.False(t, quote.CartSynced)
		assert.Equal(t, 2, quote.Items[0].Quantity)
	})

	t.Run("Re-Merge Enabled After Divergence", func(t *testing.T) {
		// Arrange
		quotes, carts, _ := setupQuote(t)
		quote := merge(t, quotes, carts)

		_, err := quotes.UpdateItemQuantity(ctx, quote.ID, session, service.ItemRef{ProductID: 7}, 2)
		require.NoError(t, err)

		// Act + Assert
		assert.True(t, quotes.CanMergeCart(ctx, quote.ID, session))
	})

	t.Run("Updating Back To The Cart Quantity Does Not Restore The Flag", func(t *testing.T) {
		// Arrange
		quotes, carts, _ := setupQuote(t)
		quote := merge(t, quotes, carts)

		_, err := quotes.UpdateItemQuantity(ctx, quote.ID, session, service.ItemRef{ProductID: 7}, 2)
		require.NoError(t, err)

		// Act: back to the cart's quantity of 3.
		quote, err = quotes.UpdateItemQuantity(ctx, quote.ID, session, service.ItemRef{ProductID: 7}, 3)

		// Assert: only a merge sets the flag true again.
		require.NoError(t, err)
		assert.False(t, quote.CartSynced)
	})

	t.Run("Removing A Quotation-Only Item Leaves The Flag Alone", func(t *testing.T) {
		// Arrange: quote seeded with product 8, cart holds product 7 only.
		quotes, carts, _ := setupQuote(t)
		_, err := carts.AddItem(ctx, session, service.ItemRef{ProductID: 7}, 3)
		require.NoError(t, err)

		productID := int64(8)
		quote, err := quotes.Open(ctx, &productID)
		require.NoError(t, err)

		quote, merged, err := quotes.AddCartItems(ctx, quote.ID, session)
		require.NoError(t, err)
		require.True(t, merged)

		// Act: drop the quotation-only item (product 8).
		quote, err = quotes.RemoveItem(ctx, quote.ID, session, service.ItemRef{ProductID: 8})

		// Assert
		require.NoError(t, err)
		assert.True(t, quote.CartSynced)
		require.Len(t, quote.Items, 1)
		assert.Equal(t, int64(7), quote.Items[0].Product.ID)
	})

	t.Run("Quotation Updates Clamp To Stock", func(t *testing.T) {
		// Arrange
		quotes, carts, notifier := setupQuote(t)
		quote := merge(t, quotes, carts)

		// Act: product 7 has stock 4.
		quote, err := quotes.UpdateItemQuantity(ctx, quote.ID, session, service.ItemRef{ProductID: 7}, 40)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 4, quote.Items[0].Quantity)
		assert.Equal(t, float64(4000), quote.Items[0].TotalPrice)
		assert.NotZero(t, notifier.count())
	})
}

func TestCloseQuotation(t *testing.T) {
	ctx := context.Background()

	t.Run("Close Discards State And Leaves The Cart Alone", func(t *testing.T) {
		// Arrange
		quotes, carts, _ := setupQuote(t)
		_, err := carts.AddItem(ctx, session, service.ItemRef{ProductID: 7}, 3)
		require.NoError(t, err)

		quote, err := quotes.Open(ctx, nil)
		require.NoError(t, err)
		_, _, err = quotes.AddCartItems(ctx, quote.ID, session)
		require.NoError(t, err)

		// Act
		quotes.Close(ctx, quote.ID)

		// Assert
		_, err = quotes.Get(ctx, quote.ID)
		require.Error(t, err)

		cart, err := carts.Get(ctx, session)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
	})
}

func TestExportQuotation(t *testing.T) {
	ctx := context.Background()

	company := models.CompanyInfo{Name: "Promocional SpA", Email: "ventas@promocional.cl", TaxID: "76.123.456-7"}

	t.Run("One Line Per Item Plus Grand Total", func(t *testing.T) {
		// Arrange
		quotes, carts, _ := setupQuote(t)
		_, err := carts.AddItem(ctx, session, service.ItemRef{ProductID: 7}, 4)
		require.NoError(t, err)
		_, err = carts.AddItem(ctx, session, service.ItemRef{ProductID: 8, Color: strPtr("negro"), Size: strPtr("L")}, 2)
		require.NoError(t, err)

		quote, err := quotes.Open(ctx, nil)
		require.NoError(t, err)
		_, merged, err := quotes.AddCartItems(ctx, quote.ID, session)
		require.NoError(t, err)
		require.True(t, merged)

		// Act
		doc, err := quotes.Export(ctx, quote.ID, company)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, company, doc.Company)
		require.Len(t, doc.Lines, 2)
		assert.Equal(t, models.QuoteLine{Name: "Botella Térmica", Quantity: 4, FormattedTotal: "$4.000"}, doc.Lines[0])
		assert.Equal(t, models.QuoteLine{Name: "Polera Corporativa", Quantity: 2, FormattedTotal: "$11.000"}, doc.Lines[1])
		assert.Equal(t, float64(15000), doc.Total)
		assert.Equal(t, "$15.000", doc.FormattedTotal)
	})

	t.Run("Empty Quotation Cannot Be Exported", func(t *testing.T) {
		quotes, _, _ := setupQuote(t)
		quote, err := quotes.Open(ctx, nil)
		require.NoError(t, err)

		_, err = quotes.Export(ctx, quote.ID, company)
		require.Error(t, err)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})
}
