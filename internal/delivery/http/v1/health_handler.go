package v1

import (
	"net/http"

	"whiskd-backend/pkg/utils"
)

// Health reports liveness. The catalog source is not contacted; a broken content store
// only yields an empty menu.
func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
