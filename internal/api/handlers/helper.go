package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	appErrors "github.com/sebagonz91/promo-storefront/internal/errors"
	"github.com/sebagonz91/promo-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dest)

	if errors.Is(err, io.EOF) {
		slog.Warn("Empty request body", slog.String("endpoint", r.URL.Path))
		response.Error(w, appErrors.BadRequestError("Request body cannot be empty"))
		return err
	}

	if err != nil {
		slog.Error("Failed to decode request body",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)
		response.Error(w, appErrors.BadRequestError("Invalid JSON payload"))
		return err
	}

	return nil
}

func validateStruct(w http.ResponseWriter, validate *validator.Validate, data any) bool {
	if err := validate.Struct(data); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			slog.Warn("Input validation failed",
				slog.String("error", validationErrs.Error()),
			)
			response.ValidationError(w, validationErrs)
		} else {
			slog.Error("Unexpected validation error", slog.String("error", err.Error()))
			response.Error(w, appErrors.InternalError("Unexpected validation error"))
		}
		return false
	}
	return true
}

// sessionID resolves the browsing session key carried on every cart request.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-Session-ID")
	if id == "" {
		response.Error(w, appErrors.BadRequestError("Session ID is required"))
		return "", false
	}
	return id, true
}
