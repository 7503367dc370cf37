package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/turtacn/H2Siting/internal/application/analysis"
	"github.com/turtacn/H2Siting/internal/domain/feasibility"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
)

// MapHandler exposes the feasibility engine to the map front end.
type MapHandler struct {
	svc    analysis.Service
	logger logging.Logger
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(svc analysis.Service, logger logging.Logger) *MapHandler {
	return &MapHandler{svc: svc, logger: logger}
}

// Health handles GET /map/health.
func (h *MapHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Map blueprint is working"})
}

type analyzeRequest struct {
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
}

// number parses a JSON number, returning nil for null, absent or
// non-numeric values.
func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// Analyze handles POST /map/analyze.
func (h *MapHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, analysis.ErrCoordinatesRequired)
		return
	}
	res, err := h.svc.Analyze(r.Context(), &analysis.AnalyzeInput{
		Latitude:  number(req.Latitude),
		Longitude: number(req.Longitude),
		Transport: analysis.TransportHTTP,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HubsResponse lists catalog hubs.
type HubsResponse struct {
	Hubs  []feasibility.Hub `json:"hubs"`
	Count int               `json:"count"`
}

// Hubs handles GET /map/hubs, optionally filtered by ?state=.
func (h *MapHandler) Hubs(w http.ResponseWriter, r *http.Request) {
	hubs := h.svc.Hubs(r.Context(), r.URL.Query().Get("state"))
	if hubs == nil {
		hubs = []feasibility.Hub{}
	}
	writeJSON(w, http.StatusOK, HubsResponse{Hubs: hubs, Count: len(hubs)})
}

// Nearest handles GET /map/nearest?lat=&lon=.
func (h *MapHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeAppError(w, analysis.ErrCoordinatesRequired)
		return
	}
	nearest, err := h.svc.Nearest(r.Context(), lat, lon)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nearest)
}

//Personal.AI order the ending
