package handlers

import (
	"net/http"
	"strconv"

	"github.com/sebagonz91/promo-storefront/internal/catalog"
	appErrors "github.com/sebagonz91/promo-storefront/internal/errors"
	"github.com/sebagonz91/promo-storefront/internal/models"
	"github.com/sebagonz91/promo-storefront/internal/pricing"
	"github.com/sebagonz91/promo-storefront/internal/utils/response"
)

type CatalogHandler struct {
	catalog           *catalog.Catalog
	lowStockThreshold int
}

func NewCatalogHandler(cat *catalog.Catalog, lowStockThreshold int) *CatalogHandler {
	return &CatalogHandler{catalog: cat, lowStockThreshold: lowStockThreshold}
}

// ProductView decorates a catalog product with the derived fields the
// storefront renders next to it.
type ProductView struct {
	models.Product
	StockLevel string             `json:"stock_level"`
	BestBreak  *models.PriceBreak `json:"best_break,omitempty"`
}

func (h *CatalogHandler) view(p models.Product) ProductView {
	view := ProductView{
		Product:    p,
		StockLevel: p.StockLevel(h.lowStockThreshold),
	}

	if best, ok := pricing.BestBreak(&p); ok {
		view.BestBreak = &best
	}

	return view
}

// ListProducts handles GET /api/v1/products?category=&supplier=&q=&min_price=&max_price=&sort=
func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		query := r.URL.Query()

		filter := catalog.Filter{
			Category: query.Get("category"),
			Supplier: query.Get("supplier"),
			Query:    query.Get("q"),
			SortBy:   query.Get("sort"),
		}

		if raw := query.Get("min_price"); raw != "" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				response.Error(w, appErrors.BadRequestError("Invalid min_price"))
				return
			}
			filter.MinPrice = &value
		}

		if raw := query.Get("max_price"); raw != "" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				response.Error(w, appErrors.BadRequestError("Invalid max_price"))
				return
			}
			filter.MaxPrice = &value
		}

		products := h.catalog.List(filter)

		views := make([]ProductView, 0, len(products))
		for _, p := range products {
			views = append(views, h.view(p))
		}

		response.Success(w, http.StatusOK, map[string]any{
			"products": views,
			"total":    len(views),
		})

	}
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid product id"))
			return
		}

		product, ok := h.catalog.FindByID(id)
		if !ok {
			response.Error(w, appErrors.NotFoundError("Product not found"))
			return
		}

		response.Success(w, http.StatusOK, h.view(*product))

	}
}
