package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tabiplan/backend/internal/planner"
)

// errorBody is the JSON shape of every non-2xx response:
// {error, code, retryAfter}.
type errorBody struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	RetryAfter *int   `json:"retryAfter,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSONError(w, r, status, code, message, 0)
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string, retryAfter time.Duration) {
	body := errorBody{Error: message, Code: code}
	if retryAfter > 0 {
		seconds := int(retryAfter.Seconds())
		body.RetryAfter = &seconds
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusForKind maps a planner error Kind to its HTTP status.
func statusForKind(kind planner.Kind) (status int, code string) {
	switch kind {
	case planner.KindBadRequest:
		return http.StatusBadRequest, "BAD_REQUEST"
	case planner.KindUnauthorized:
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case planner.KindRateLimited:
		return http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"
	case planner.KindTimeout:
		return http.StatusGatewayTimeout, "GATEWAY_TIMEOUT"
	case planner.KindStoreUnavailable, planner.KindOracleUnavailable:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func writePlannerError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusForKind(planner.KindOf(err))
	// Never leak the underlying cause (stack fragments, driver errors)
	// to the client.
	message := http.StatusText(status)
	writeError(w, r, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
