package v1

import (
	"net/http"
	"time"

	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/cache"
	"whiskd-backend/pkg/utils"
)

type ConfigHandler struct {
	cache   cache.CacheService
	payment domain.PaymentInfo
}

func NewConfigHandler(cache cache.CacheService, payment domain.PaymentInfo) *ConfigHandler {
	return &ConfigHandler{cache: cache, payment: payment}
}

// GET /api/v1/config/enums
func (h *ConfigHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	// Cache Key
	cacheKey := "system:config:enums"

	// Check Cache
	if val, found := h.cache.Get(cacheKey); found {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		utils.WriteJSON(w, http.StatusOK, val)
		return
	}

	response := map[string]interface{}{
		"deliveryMethods":   domain.DeliveryOptions,
		"extraCategories":   domain.ExtraCategories,
		"lowStockThreshold": domain.LowStockThreshold,
		"payment":           h.payment,
	}

	h.cache.Set(cacheKey, response, 1*time.Hour)

	w.Header().Set("Cache-Control", "public, max-age=3600")
	utils.WriteJSON(w, http.StatusOK, response)
}
