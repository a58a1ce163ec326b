package handlers

import (
	"net/http"

	"github.com/sebagonz91/promo-storefront/internal/api/middleware"
	appErrors "github.com/sebagonz91/promo-storefront/internal/errors"
	"github.com/sebagonz91/promo-storefront/internal/models"
	service "github.com/sebagonz91/promo-storefront/internal/services"
	"github.com/sebagonz91/promo-storefront/internal/utils/response"
	"github.com/sebagonz91/promo-storefront/pkg/sendgrid"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type QuoteHandler struct {
	quoteService *service.QuoteService
	mailer       sendgrid.QuoteMailer
	validator    *validator.Validate
}

func NewQuoteHandler(quoteService *service.QuoteService, mailer sendgrid.QuoteMailer) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		mailer:       mailer,
		validator:    validator.New(),
	}
}

func quoteIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.Error(w, appErrors.BadRequestError("Invalid quotation id"))
		return uuid.Nil, false
	}
	return id, true
}

// OpenQuote handles POST /api/v1/quotes. An optional product_id seeds the new
// quotation with a single-unit line for that product.
func (h *QuoteHandler) OpenQuote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.OpenQuoteRequest
		if r.ContentLength > 0 {
			if err := decodeJSONBody(w, r, &req); err != nil {
				return
			}
		}

		quote, err := h.quoteService.Open(r.Context(), req.ProductID)
		if err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Quotation opened", "quote_id", quote.ID.String())
		response.Success(w, http.StatusCreated, quote)

	}
}

// GetQuote handles GET /api/v1/quotes/{id}
func (h *QuoteHandler) GetQuote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := quoteIDFromPath(w, r)
		if !ok {
			return
		}

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		quote, err := h.quoteService.Get(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{
			"quotation":      quote,
			"can_merge_cart": h.quoteService.CanMergeCart(r.Context(), id, session),
		})

	}
}

// MergeCartItems handles POST /api/v1/quotes/{id}/cart-items
func (h *QuoteHandler) MergeCartItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := quoteIDFromPath(w, r)
		if !ok {
			return
		}

		session, ok := sessionID(w, r)
		if !ok {
			return
		}

		quote, merged, err := h.quoteService.AddCartItems(r.Context(), id, session)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{
			"quotation": quote,
			"merged":    merged,
		})

	}
}

// UpdateItemQuantity handles PUT /api/v1/quotes/{id}/items
func (h *QuoteHandler) UpdateItemQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := quoteIDFromPath(w, r)
		if !ok {
			return
		}

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

		quote, err := h.quoteService.UpdateItemQuantity(r.Context(), id, session, ref, req.Quantity)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, quote)

	}
}

// RemoveItem handles DELETE /api/v1/quotes/{id}/items
func (h *QuoteHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := quoteIDFromPath(w, r)
		if !ok {
			return
		}

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

		quote, err := h.quoteService.RemoveItem(r.Context(), id, session, ref)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, quote)

	}
}

// ExportQuote handles POST /api/v1/quotes/{id}/export. It renders the
// quotation document and, when requested, emails it to the company contact.
func (h *QuoteHandler) ExportQuote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := quoteIDFromPath(w, r)
		if !ok {
			return
		}

		var req models.ExportQuoteRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			return
		}

		if !validateStruct(w, h.validator, req) {
			return
		}

		doc, err := h.quoteService.Export(r.Context(), id, req.Company)
		if err != nil {
			response.Error(w, err)
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		if req.SendEmail {
			if err := h.mailer.Deliver(r.Context(), doc); err != nil {
				logger.Error("Failed to email quotation", "quote_id", id.String(), "error", err.Error())
				response.Error(w, appErrors.ThirdPartyError("Failed to deliver quotation email"))
				return
			}
			logger.Info("Quotation emailed", "quote_id", id.String(), "recipient", req.Company.Email)
		}

		response.Success(w, http.StatusOK, doc)

	}
}

// CloseQuote handles DELETE /api/v1/quotes/{id}
func (h *QuoteHandler) CloseQuote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := quoteIDFromPath(w, r)
		if !ok {
			return
		}

		h.quoteService.Close(r.Context(), id)

		response.Success(w, http.StatusOK, map[string]any{"closed": true})

	}
}
