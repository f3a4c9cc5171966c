package v1

import (
	"errors"
	"io"
	"net/http"

	"whiskd-backend/internal/domain"
	"whiskd-backend/internal/usecase"
	"whiskd-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type StorefrontHandler struct {
	storefrontUC *usecase.StorefrontUsecase
}

func NewStorefrontHandler(uc *usecase.StorefrontUsecase) *StorefrontHandler {
	return &StorefrontHandler{storefrontUC: uc}
}

type cartEventResponse struct {
	Accepted bool                    `json:"accepted"`
	Cart     *usecase.StorefrontView `json:"cart"`
}

// GET /api/v1/storefront
func (h *StorefrontHandler) GetStorefront(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.storefrontUC.LoadStorefront(r.Context(), sid)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	utils.WriteJSON(w, http.StatusOK, view)
}

// GET /api/v1/cart
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.storefrontUC.View(r.Context(), sid)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// PUT /api/v1/cart/size
func (h *StorefrontHandler) SelectSize(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	accepted, view, err := h.storefrontUC.SelectSize(r.Context(), sid, req.ProductID, req.Size)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cartEventResponse{Accepted: accepted, Cart: view})
}

// PUT /api/v1/cart/quantity
func (h *StorefrontHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// The quantity stepper never goes below zero
	if req.Quantity < 0 {
		req.Quantity = 0
	}

	accepted, view, err := h.storefrontUC.SetQuantity(r.Context(), sid, req.ProductID, req.Quantity)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cartEventResponse{Accepted: accepted, Cart: view})
}

// PUT /api/v1/cart/customer
func (h *StorefrontHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.storefrontUC.UpdateCustomer(r.Context(), sid, req)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, customer)
}

// POST /api/v1/cart/place-order
// The body may carry the customer form; otherwise the last saved form is used.
func (h *StorefrontHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req struct {
		Customer *domain.Customer `json:"customer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Customer != nil {
		if _, err := h.storefrontUC.UpdateCustomer(r.Context(), sid, *req.Customer); err != nil {
			writeUsecaseError(w, r, err)
			return
		}
	}

	order, err := h.storefrontUC.PlaceOrder(r.Context(), sid)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, order)
}
