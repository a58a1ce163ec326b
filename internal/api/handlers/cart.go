package handlers

import (
	"net/http"

	"github.com/sebagonz91/promo-storefront/internal/api/middleware"
	"github.com/sebagonz91/promo-storefront/internal/models"
	service "github.com/sebagonz91/promo-storefront/internal/services"
	"github.com/sebagonz91/promo-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService *service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.Get(r.Context(), session)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to load cart", "error", err.Error())
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cartPayload(cart))

	}
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		ref := service.ItemRef{ProductID: req.ProductID, Color: req.Color, Size: req.Size}

		cart, err := h.cartService.AddItem(r.Context(), session, ref, req.Quantity)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Add to cart rejected",
				"product_id", req.ProductID,
				"error", err.Error(),
			)
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cartPayload(cart))

	}
}

// UpdateQuantity handles PUT /api/v1/cart/items
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req models.UpdateQuantityRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		ref := service.ItemRef{ProductID: req.ProductID, Color: req.Color, Size: req.Size}

		cart, err := h.cartService.UpdateQuantity(r.Context(), session, ref, req.Quantity)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cartPayload(cart))

	}
}

// RemoveItem handles DELETE /api/v1/cart/items
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req models.RemoveItemRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		ref := service.ItemRef{ProductID: req.ProductID, Color: req.Color, Size: req.Size}

		cart, err := h.cartService.RemoveItem(r.Context(), session, ref)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cartPayload(cart))

	}
}

// ResetCart handles DELETE /api/v1/cart
func (h *CartHandler) ResetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		if err := h.cartService.Reset(r.Context(), session); err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cartPayload(models.NewCart()))

	}
}

func cartPayload(cart *models.Cart) map[string]any {
	return map[string]any{
		"cart":       cart,
		"item_count": cart.ItemCount(),
	}
}
