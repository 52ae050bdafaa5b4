package zones

import (
	"encoding/json"
	"net/http"
)

type listResponse struct {
	Success bool   `json:"success"`
	Data    []Zone `json:"data"`
}

// ListHandler serves the zone set. Zones are immutable after seeding, so the
// handler reads from the in-memory registry rather than the store.
func ListHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(listResponse{Success: true, Data: reg.Zones()}); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}
