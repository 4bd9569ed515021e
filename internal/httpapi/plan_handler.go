package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/tabiplan/backend/internal/models"
	"github.com/tabiplan/backend/internal/plancache"
	"github.com/tabiplan/backend/internal/planner"
)

var tripIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,255}$`)

// planResponse is the wire shape of a successful POST /itinerary/plan
// response.
type planResponse struct {
	Trip                models.Trip             `json:"trip"`
	Itinerary           models.Itinerary        `json:"itinerary"`
	DayIntros           []models.DayIntro       `json:"dayIntros"`
	Validation          models.ValidationResult `json:"validation"`
	ItineraryValidation models.ValidationResult `json:"itineraryValidation"`
}

// handlePlan implements POST /itinerary/plan: the sole generation
// endpoint. Rate limiting, body-size, and
// content-type enforcement happen in middleware; this handler owns
// schema validation, cache resolution, and deadline enforcement.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "BAD_REQUEST", "method not allowed")
		return
	}

	var req models.PlanRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds 1 MiB")
			return
		}
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	if req.TripID != "" && !tripIDPattern.MatchString(req.TripID) {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "tripId must match [A-Za-z0-9._-]{1,255}")
		return
	}
	if req.BuilderData.Duration < 1 {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "duration must be at least 1")
		return
	}
	if len(req.BuilderData.Cities) == 0 && len(req.BuilderData.Regions) == 0 {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "at least one city or region is required")
		return
	}

	if req.BuilderData.TripID == "" {
		req.BuilderData.TripID = req.TripID
	}
	savedIDs := req.EffectiveSavedIDs()
	req.BuilderData.SavedIDs = savedIDs

	ctx, cancel := context.WithTimeout(r.Context(), planner.GenerationDeadline)
	defer cancel()

	generate := func(ctx context.Context, tripReq models.TripRequest) (*plancache.Entry, error) {
		start := time.Now()
		result, err := s.planner.Generate(ctx, tripReq, savedIDs)
		if s.metrics != nil {
			s.metrics.RecordGeneration(time.Since(start), planner.KindOf(err) == planner.KindTimeout)
		}
		if err != nil {
			return nil, err
		}
		return &plancache.Entry{Trip: result.Trip, Itinerary: result.Itinerary, DayIntros: result.DayIntros}, nil
	}

	entry, hit, err := s.resolver.Resolve(ctx, req.BuilderData, generate)
	if s.metrics != nil && !plancache.Bypasses(req.BuilderData) {
		s.metrics.RecordCache(hit, err != nil)
	}
	if err != nil {
		writePlannerError(w, r, err)
		return
	}

	itineraryValidation := entry.Trip.Validation
	if hit {
		itineraryValidation = s.revalidate(ctx, entry.Itinerary, entry.Trip.Validation)
	}

	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Cache-Control", "no-store")

	writeJSON(w, http.StatusOK, planResponse{
		Trip:                entry.Trip,
		Itinerary:           entry.Itinerary,
		DayIntros:           entry.DayIntros,
		Validation:          entry.Trip.Validation,
		ItineraryValidation: itineraryValidation,
	})
}

// revalidate re-fetches the locations an already-generated itinerary
// references and re-runs the validator on them before a cache hit is
// returned to the caller. stored is returned unchanged if the store
// lookup fails, so a transient hiccup never flips a good itinerary to
// invalid.
func (s *Server) revalidate(ctx context.Context, itinerary models.Itinerary, stored models.ValidationResult) models.ValidationResult {
	ids := make([]string, 0)
	seen := map[string]bool{}
	for _, day := range itinerary.Days {
		for _, act := range day.Activities {
			if act.Kind == models.ActivityPlace && !seen[act.LocationID] {
				seen[act.LocationID] = true
				ids = append(ids, act.LocationID)
			}
		}
	}

	locations, err := s.store.BulkByIDs(ctx, ids)
	if err != nil {
		return stored
	}
	return planner.Validate(itinerary, locations)
}
