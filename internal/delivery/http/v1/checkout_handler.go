package v1

import (
	"errors"
	"net/http"

	"whiskd-backend/internal/domain"
	"whiskd-backend/internal/usecase"
	"whiskd-backend/pkg/utils"
)

type CheckoutHandler struct {
	checkoutUC    *usecase.CheckoutUsecase
	maxUploadSize int64
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase, maxUploadSizeMB int64) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUC:    uc,
		maxUploadSize: maxUploadSizeMB << 20, // Convert MB to bytes
	}
}

// GET /api/v1/checkout
// Without a pending order the browser is sent back to the storefront.
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.checkoutUC.GetPendingOrder(r.Context(), sid)
	if errors.Is(err, domain.ErrNoPendingOrder) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	utils.WriteJSON(w, http.StatusOK, view)
}

// POST /api/v1/checkout/confirm
func (h *CheckoutHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	proof, err := readPaymentProof(w, r, h.maxUploadSize)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}

	if err := h.checkoutUC.ConfirmOrder(r.Context(), sid, proof); err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"message": "Order received",
	})
}

// POST /api/submit-order
// Relays the browser's multipart body to the webhook and waits for the outcome.
func (h *CheckoutHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	err := h.checkoutUC.ForwardOrder(r.Context(), r.Header.Get("Content-Type"), body)
	if errors.Is(err, domain.ErrRelayNotConfigured) {
		utils.WriteError(w, http.StatusInternalServerError, "Configuration Error")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to submit order. Please try again.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order received",
	})
}
