package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/scoring"
)

// handleGetLocation implements GET /locations/:id, one of the
// supporting catalog-lookup endpoints.
func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "BAD_REQUEST", "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/locations/")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "missing location id")
		return
	}

	found, err := s.store.BulkByIDs(r.Context(), []string{id})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	loc, ok := found[id]
	if !ok {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "location not found")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, loc)
}

// handleListLocations implements GET /locations, a filtered,
// paginated view over the same ordering as the store adapter's
// ListByFilter.
func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "BAD_REQUEST", "method not allowed")
		return
	}

	q := r.URL.Query()
	filter := models.LocationFilter{
		Region:   q.Get("region"),
		City:     q.Get("city"),
		Category: models.Category(q.Get("category")),
		OpenNow:  q.Get("openNow") == "true",
		Limit:    parseIntDefault(q.Get("limit"), 20),
		Offset:   parseIntDefault(q.Get("offset"), 0),
	}

	locations, err := s.store.ListByFilter(r.Context(), filter)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"locations": locations})
}

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// availabilityRequest is the body of POST /itinerary/availability: a
// batch open-now/reservation check keyed by activity (location) id.
type availabilityRequest struct {
	LocationIDs []string `json:"locationIds"`
	At          string   `json:"at,omitempty"`
}

type availabilityStatus struct {
	LocationID string `json:"locationId"`
	Open       bool   `json:"open"`
	Known      bool   `json:"known"`
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "BAD_REQUEST", "method not allowed")
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if len(req.LocationIDs) == 0 {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "locationIds is required")
		return
	}

	at := time.Now()
	if req.At != "" {
		if parsed, err := time.Parse(time.RFC3339, req.At); err == nil {
			at = parsed
		}
	}

	locations, err := s.store.BulkByIDs(r.Context(), req.LocationIDs)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	statuses := make([]availabilityStatus, 0, len(req.LocationIDs))
	for _, id := range req.LocationIDs {
		loc, ok := locations[id]
		if !ok {
			statuses = append(statuses, availabilityStatus{LocationID: id, Known: false})
			continue
		}
		statuses = append(statuses, availabilityStatus{LocationID: id, Open: loc.IsOpenAt(at), Known: true})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"availability": statuses})
}

// replacementsRequest is the body of POST /itinerary/replacements:
// find substitutes for one place in one day.
type replacementsRequest struct {
	City       string           `json:"city"`
	LocationID string           `json:"locationId"`
	Interests  []models.Category `json:"interests,omitempty"`
	Pace       models.Pace      `json:"pace,omitempty"`
	ExcludeIDs []string         `json:"excludeIds,omitempty"`
	Limit      int              `json:"limit,omitempty"`
}

func (s *Server) handleReplacements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "BAD_REQUEST", "method not allowed")
		return
	}

	var req replacementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.City == "" {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "city is required")
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}

	exclude := map[string]bool{}
	for _, id := range req.ExcludeIDs {
		exclude[id] = true
	}
	if req.LocationID != "" {
		exclude[req.LocationID] = true
	}

	candidates, err := s.store.ListByFilter(r.Context(), models.LocationFilter{
		City:       req.City,
		ExcludeIDs: exclude,
		Limit:      60,
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	ctx := scoring.Context{Interests: req.Interests, Pace: req.Pace, City: req.City}
	ranked := make([]scoredLocation, 0, len(candidates))
	for _, c := range candidates {
		val, _ := scoring.Score(c, ctx)
		ranked = append(ranked, scoredLocation{loc: c, score: val})
	}
	sortScoredDesc(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]*models.Location, len(ranked))
	for i, rk := range ranked {
		out[i] = rk.loc
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"replacements": out})
}

// scoredLocation pairs a candidate with its scoring.Score result for
// the replacement-ranking sort below.
type scoredLocation struct {
	loc   *models.Location
	score float64
}

func sortScoredDesc(items []scoredLocation) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].score > items[j-1].score; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}
