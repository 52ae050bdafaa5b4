package herd

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/GestionGanadera/GG-Backend/internal/geo"
)

// PositionWriter is the mutation surface handlers need from the repository.
type PositionWriter interface {
	UpdatePosition(ctx context.Context, id string, lat, lng float64, zoneID *string) error
}

// StateWriter mirrors position updates into the live store.
type StateWriter interface {
	UpdatePosition(ctx context.Context, id string, p geo.Point, zoneID string) error
}

// ZoneInfo is what handlers need from the zone registry.
type ZoneInfo interface {
	Resolve(p geo.Point) (string, bool)
	ZoneName(id string) string
}

// ZoneQuerier fetches animals by their current zone assignment.
type ZoneQuerier interface {
	FindByZoneIDs(ctx context.Context, zoneIDs []string) ([]Animal, error)
}

type Handlers struct {
	search *Service
	writer PositionWriter
	state  StateWriter
	zones  ZoneInfo
	byZone ZoneQuerier
}

func NewHandlers(search *Service, writer PositionWriter, state StateWriter, zones ZoneInfo, byZone ZoneQuerier) *Handlers {
	return &Handlers{search: search, writer: writer, state: state, zones: zones, byZone: byZone}
}

type animalOut struct {
	Animal
	Position geo.Point `json:"position"`
	ZoneName string    `json:"zoneName,omitempty"`
}

type listResponse struct {
	Success bool        `json:"success"`
	Data    []animalOut `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ListHandler serves GET /cattle with optional search, zoneId, connected and
// (lat, lng, radius) filters. Filters combine with AND.
func (h *Handlers) ListHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := Query{
		Search: params.Get("search"),
		ZoneID: params.Get("zoneId"),
	}

	switch params.Get("connected") {
	case "true":
		t := true
		q.Connected = &t
	case "false":
		f := false
		q.Connected = &f
	case "":
	default:
		writeError(w, "connected must be true or false", http.StatusBadRequest)
		return
	}

	latStr, lngStr, radStr := params.Get("lat"), params.Get("lng"), params.Get("radius")
	if latStr != "" || lngStr != "" || radStr != "" {
		center, err := geo.ParseLatLng(latStr, lngStr)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		radius, err := geo.ParseRadiusKm(radStr)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		q.Center = &center
		q.RadiusKm = radius
	}

	animals, err := h.search.Search(r.Context(), q)
	if err != nil {
		log.Printf("cattle search failed: %v", err)
		writeError(w, "Error al obtener ganado", http.StatusInternalServerError)
		return
	}

	h.writeAnimals(w, animals)
}

// ByZonesHandler serves GET /cattle/by-zones: animals currently assigned to
// any of the given comma separated zone ids. Unknown ids match nothing.
func (h *Handlers) ByZonesHandler(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		writeError(w, "ids is required", http.StatusBadRequest)
		return
	}

	animals, err := h.byZone.FindByZoneIDs(r.Context(), ids)
	if err != nil {
		log.Printf("cattle by zones failed: %v", err)
		writeError(w, "Error al obtener ganado", http.StatusInternalServerError)
		return
	}

	h.writeAnimals(w, animals)
}

func (h *Handlers) writeAnimals(w http.ResponseWriter, animals []Animal) {
	out := make([]animalOut, 0, len(animals))
	for _, a := range animals {
		o := animalOut{Animal: a, Position: a.Position()}
		if a.ZoneID != nil {
			o.ZoneName = h.zones.ZoneName(*a.ZoneID)
		}
		out = append(out, o)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(listResponse{Success: true, Data: out}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// UpdatePositionHandler serves POST /cattle/position: move one animal to a
// given coordinate, reassigning its zone to keep the record consistent.
func (h *Handlers) UpdatePositionHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID  string  `json:"id"`
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if input.ID == "" {
		writeError(w, "id is required", http.StatusBadRequest)
		return
	}
	if !validCoord(input.Lat, 90) || !validCoord(input.Lng, 180) {
		writeError(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	p := geo.Point{Lat: input.Lat, Lng: input.Lng}
	var zoneID *string
	zoneLabel := ""
	if id, ok := h.zones.Resolve(p); ok {
		zoneID = &id
		zoneLabel = id
	}

	if err := h.writer.UpdatePosition(r.Context(), input.ID, input.Lat, input.Lng, zoneID); err != nil {
		log.Printf("position update failed for %s: %v", input.ID, err)
		writeError(w, "Failed to update position", http.StatusInternalServerError)
		return
	}

	// Live-state mirror is best-effort; the authoritative record is updated.
	if h.state != nil {
		if err := h.state.UpdatePosition(r.Context(), input.ID, p, zoneLabel); err != nil {
			log.Printf("live state update failed for %s: %v", input.ID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func writeError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Success: false, Error: msg})
}

func validCoord(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}
