package service

import (
	"context"

	"github.com/sebagonz91/promo-storefront/internal/catalog"
	"github.com/sebagonz91/promo-storefront/internal/errors"
	"github.com/sebagonz91/promo-storefront/internal/metrics"
	"github.com/sebagonz91/promo-storefront/internal/models"
	"github.com/sebagonz91/promo-storefront/internal/notify"
	"github.com/sebagonz91/promo-storefront/internal/pricing"
	repository "github.com/sebagonz91/promo-storefront/internal/repositories"
)

// ItemRef identifies one line item in a request: product plus the variant
// selection. Nil color/size mean "no selection", which is a distinct identity
// from any chosen value.
type ItemRef struct {
	ProductID int64
	Color     *string
	Size      *string
}

func (ref ItemRef) key() models.VariantKey {
	return models.VariantKey{
		ProductID: ref.ProductID,
		Color:     models.SelectionOf(ref.Color),
		Size:      models.SelectionOf(ref.Size),
	}
}

// CartService owns the session's cart collection: the one shared mutable
// resource of a browsing session. Every mutation re-reads stock from the
// catalog, re-derives totals and writes the cart back to its durable slot.
type CartService struct {
	catalog  catalog.Reader
	store    repository.CartStore
	notifier notify.Notifier
}

func NewCartService(cat catalog.Reader, store repository.CartStore, notifier notify.Notifier) *CartService {
	return &CartService{catalog: cat, store: store, notifier: notifier}
}

func (s *CartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	return cart, nil
}

// AddItem inserts a new line item or increases an existing one, clamping to
// the catalog's current stock. An increment against an item already at stock
// is rejected outright rather than capped, so the caller never sees a no-op
// mutation that looks like success.
func (s *CartService) AddItem(ctx context.Context, sessionID string, ref ItemRef, quantity int) (*models.Cart, error) {

	product, ok := s.catalog.FindByID(ref.ProductID)
	if !ok {
		return nil, errors.NotFoundError("Product not found")
	}

	if product.Stock == 0 {
		s.notifier.Notify(ctx, notify.MsgOutOfStock, notify.SeverityError)

		return nil, errors.OutOfStockError("Product is out of stock")
	}

	if !product.CanAddToCart() {
		s.notifier.Notify(ctx, notify.MsgNotOrderable, notify.SeverityError)

		return nil, errors.NotOrderableError("Product is not available")
	}

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	if i := cart.Items.IndexOf(ref.key()); i >= 0 {

		item := &cart.Items[i]

		stock := s.currentStock(item)

		if item.Quantity >= stock {
			s.notifier.Notify(ctx, notify.MsgAlreadyAtMax, notify.SeverityError)

			return nil, errors.InsufficientStockError("Cart already holds the available stock")
		}

		if quantity < 1 {
			quantity = 1
		}

		if item.Quantity+quantity > stock {
			s.notifier.Notify(ctx, notify.MsgInsufficientStock, notify.SeverityError)
		}

		item.SetQuantity(pricing.Clamp(item.Quantity+quantity, stock))
	} else {

		if quantity > product.Stock {
			s.notifier.Notify(ctx, notify.MsgInsufficientStock, notify.SeverityError)
		}

		item := models.LineItem{
			Product:       *product,
			SelectedColor: ref.Color,
			SelectedSize:  ref.Size,
			// Base price at add time; price breaks are display-only.
			UnitPrice: product.BasePrice,
		}
		item.SetQuantity(pricing.Clamp(quantity, product.Stock))

		cart.Items = append(cart.Items, item)
	}

	cart.RecomputeTotals()

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, errors.StorageError("Failed to save cart").WithError(err)
	}

	metrics.RecordCartMutation("add")

	return cart, nil
}

// UpdateQuantity re-reads stock, clamps the requested quantity and updates
// the line item in place. Updating an item that is no longer present is a
// no-op, not an error.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, ref ItemRef, quantity int) (*models.Cart, error) {

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	i := cart.Items.IndexOf(ref.key())
	if i < 0 {
		return cart, nil
	}

	item := &cart.Items[i]

	stock := s.currentStock(item)
	if stock <= 0 {
		s.notifier.Notify(ctx, notify.MsgOutOfStock, notify.SeverityError)

		return cart, nil
	}

	if quantity > stock {
		s.notifier.Notify(ctx, notify.MsgInsufficientStock, notify.SeverityError)
	}

	item.SetQuantity(pricing.Clamp(quantity, stock))
	cart.RecomputeTotals()

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, errors.StorageError("Failed to save cart").WithError(err)
	}

	metrics.RecordCartMutation("update")

	return cart, nil
}

// RemoveItem deletes the entry matching the reference; removing an absent
// entry is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, ref ItemRef) (*models.Cart, error) {

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.StorageError("Failed to load cart").WithError(err)
	}

	if !cart.Items.Remove(ref.key()) {
		return cart, nil
	}

	cart.RecomputeTotals()

	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, errors.StorageError("Failed to save cart").WithError(err)
	}

	metrics.RecordCartMutation("remove")

	return cart, nil
}

// Reset discards the session's cart, e.g. at session teardown.
func (s *CartService) Reset(ctx context.Context, sessionID string) error {

	if err := s.store.Clear(ctx, sessionID); err != nil {
		return errors.StorageError("Failed to reset cart").WithError(err)
	}

	metrics.RecordCartMutation("reset")

	return nil
}

// currentStock looks up fresh stock by product id, falling back to the line
// item's snapshot when the product has been delisted.
func (s *CartService) currentStock(item *models.LineItem) int {

	if stock, ok := s.catalog.StockOf(item.Product.ID); ok {
		return stock
	}

	return item.Product.Stock
}
