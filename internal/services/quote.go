package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/sebagonz91/promo-storefront/internal/catalog"
	"github.com/sebagonz91/promo-storefront/internal/errors"
	"github.com/sebagonz91/promo-storefront/internal/metrics"
	"github.com/sebagonz91/promo-storefront/internal/models"
	"github.com/sebagonz91/promo-storefront/internal/notify"
	"github.com/sebagonz91/promo-storefront/internal/pricing"
	repository "github.com/sebagonz91/promo-storefront/internal/repositories"
	"github.com/sebagonz91/promo-storefront/internal/utils"
)

// QuoteService owns the quotation collections. Each quoting interaction gets
// its own ephemeral quotation, created on open and discarded on close, with
// no side effects on the cart.
type QuoteService struct {
	catalog  catalog.Reader
	store    repository.CartStore
	notifier notify.Notifier

	mu     sync.RWMutex
	quotes map[uuid.UUID]*models.Quotation
}

func NewQuoteService(cat catalog.Reader, store repository.CartStore, notifier notify.Notifier) *QuoteService {
	return &QuoteService{
		catalog:  cat,
		store:    store,
		notifier: notifier,
		quotes:   make(map[uuid.UUID]*models.Quotation),
	}
}

// Open starts a fresh quotation. With a product it is seeded with a single
// line item of quantity one at base price; without one it starts empty.
func (s *QuoteService) Open(ctx context.Context, productID *int64) (*models.Quotation, error) {

	quote := models.NewQuotation()

	if productID != nil {
		product, ok := s.catalog.FindByID(*productID)
		if !ok {
			return nil, errors.NotFoundError("Product not found")
		}

		item := models.LineItem{
			Product:   *product,
			UnitPrice: product.BasePrice,
		}
		item.SetQuantity(1)

		quote.Items = append(quote.Items, item)
	}

	quote.RecomputeTotals()

	s.mu.Lock()
	s.quotes[quote.ID] = quote
	s.mu.Unlock()

	return quote, nil
}

func (s *QuoteService) Get(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	quote, ok := s.quotes[id]
	if !ok {
		return nil, errors.NotFoundError("Quotation not found")
	}

	return quote, nil
}

// AddCartItems merges the session's cart line items into the quotation: a
// set-union keyed by variant identity. A variant already quoted keeps its
// quotation quantity untouched. The merge is disabled while the cart is
// empty or the quotation is still clean from the previous merge; a disabled
// merge is a no-op, reported through the second return value.
func (s *QuoteService) AddCartItems(ctx context.Context, id uuid.UUID, cartSessionID string) (*models.Quotation, bool, error) {

	cart, err := s.store.Load(ctx, cartSessionID)
	if err != nil {
		return nil, false, errors.StorageError("Failed to load cart").WithError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	quote, ok := s.quotes[id]
	if !ok {
		return nil, false, errors.NotFoundError("Quotation not found")
	}

	if len(cart.Items) == 0 || quote.CartSynced {
		return quote, false, nil
	}

	for i := range cart.Items {
		if quote.Items.IndexOf(cart.Items[i].Key()) >= 0 {
			continue
		}

		quote.Items = append(quote.Items, cart.Items[i])
	}

	quote.CartSynced = true
	quote.RecomputeTotals()

	// A pre-existing quoted variant whose quantity already diverges from the
	// cart clears the flag straight away.
	quote.RecomputeCartSynced(cart.Items)

	return quote, true, nil
}

// UpdateItemQuantity clamps the requested quantity against fresh stock and
// updates the quoted line item in place, then re-derives the merge-clean flag
// against the cart's current quantities.
func (s *QuoteService) UpdateItemQuantity(ctx context.Context, id uuid.UUID, cartSessionID string, ref ItemRef, quantity int) (*models.Quotation, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	quote, ok := s.quotes[id]
	if !ok {
		return nil, errors.NotFoundError("Quotation not found")
	}

	i := quote.Items.IndexOf(ref.key())
	if i < 0 {
		return quote, nil
	}

	item := &quote.Items[i]

	stock := item.Product.Stock
	if current, ok := s.catalog.StockOf(item.Product.ID); ok {
		stock = current
	}

	if stock <= 0 {
		s.notifier.Notify(ctx, notify.MsgOutOfStock, notify.SeverityError)

		return quote, nil
	}

	if quantity > stock {
		s.notifier.Notify(ctx, notify.MsgInsufficientStock, notify.SeverityError)
	}

	item.SetQuantity(pricing.Clamp(quantity, stock))
	quote.RecomputeTotals()
	quote.RecomputeCartSynced(s.cartItems(ctx, cartSessionID))

	return quote, nil
}

// RemoveItem deletes a quoted line item; removing an absent one is a no-op.
func (s *QuoteService) RemoveItem(ctx context.Context, id uuid.UUID, cartSessionID string, ref ItemRef) (*models.Quotation, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	quote, ok := s.quotes[id]
	if !ok {
		return nil, errors.NotFoundError("Quotation not found")
	}

	if !quote.Items.Remove(ref.key()) {
		return quote, nil
	}

	quote.RecomputeTotals()
	quote.RecomputeCartSynced(s.cartItems(ctx, cartSessionID))

	return quote, nil
}

// Close discards the quotation and all its local state.
func (s *QuoteService) Close(ctx context.Context, id uuid.UUID) {

	s.mu.Lock()
	delete(s.quotes, id)
	s.mu.Unlock()
}

// Export renders the quotation into the flat record sequence handed to the
// document sink: one line per item plus a grand total, currency values
// rounded to whole pesos.
func (s *QuoteService) Export(ctx context.Context, id uuid.UUID, company models.CompanyInfo) (*models.QuoteDocument, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	quote, ok := s.quotes[id]
	if !ok {
		return nil, errors.NotFoundError("Quotation not found")
	}

	if len(quote.Items) == 0 {
		return nil, errors.BadRequestError("Quotation has no line items")
	}

	doc := &models.QuoteDocument{
		Company: company,
		Lines:   make([]models.QuoteLine, 0, len(quote.Items)),
	}

	for i := range quote.Items {
		item := &quote.Items[i]

		doc.Lines = append(doc.Lines, models.QuoteLine{
			Name:           item.Product.Name,
			Quantity:       item.Quantity,
			FormattedTotal: utils.FormatCLP(item.TotalPrice),
		})

		doc.Total += item.TotalPrice
	}

	doc.FormattedTotal = utils.FormatCLP(doc.Total)

	metrics.RecordQuotationExported()

	return doc, nil
}

// CanMergeCart reports whether the merge affordance should be enabled for the
// quotation given the cart's current contents.
func (s *QuoteService) CanMergeCart(ctx context.Context, id uuid.UUID, cartSessionID string) bool {

	s.mu.RLock()
	quote, ok := s.quotes[id]
	s.mu.RUnlock()

	if !ok || quote.CartSynced {
		return false
	}

	return len(s.cartItems(ctx, cartSessionID)) > 0
}

// cartItems loads the cart's line items for clean-flag derivation. A cart
// that cannot be read is treated as empty; the quotation mutation itself must
// not fail on cart storage trouble.
func (s *QuoteService) cartItems(ctx context.Context, cartSessionID string) models.LineItems {

	cart, err := s.store.Load(ctx, cartSessionID)
	if err != nil {
		slog.Warn("Skipping cart comparison for quotation",
			slog.String("session_id", cartSessionID),
			slog.String("error", fmt.Sprintf("%v", err)))

		return nil
	}

	return cart.Items
}
