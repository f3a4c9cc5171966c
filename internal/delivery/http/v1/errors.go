package v1

import (
	"errors"
	"net/http"

	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/logger"
	"whiskd-backend/pkg/utils"
)

// writeUsecaseError maps domain errors to HTTP statuses. Unknown errors are logged and hidden.
func writeUsecaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrCatalogNotLoaded):
		utils.WriteError(w, http.StatusConflict, "Storefront not loaded, refresh the page")
	case errors.Is(err, domain.ErrProductNotFound):
		utils.WriteError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrNoPendingOrder):
		utils.WriteError(w, http.StatusNotFound, "No pending order")
	case errors.Is(err, domain.ErrMissingContact),
		errors.Is(err, domain.ErrUnknownDeliveryMethod),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrPaymentProofRequired),
		errors.Is(err, domain.ErrInvalidPaymentProof):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRelayNotConfigured):
		utils.WriteError(w, http.StatusInternalServerError, "Configuration Error")
	default:
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		utils.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := domain.SessionIDFromContext(r.Context())
	if !ok {
		logger.WithContext(r.Context()).Error().Msg("Session middleware not installed")
		utils.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
	}
	return id, ok
}
