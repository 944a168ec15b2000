package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/portfolio-insights/internal/logging"
	"github.com/portfolio-insights/internal/types"
)

// maxRequestBody caps JSON request bodies at 1 MB.
const maxRequestBody = 1 << 20

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logging.GetGlobalLogger().WithError(err).Error("Failed to encode JSON response")
		}
	}
}

// respondError writes an error response as {"error": message}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service-layer error to an HTTP response.
// Known ServiceError codes translate to client statuses; anything else
// is an internal error surfaced with its message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *types.ServiceError
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch svcErr.Code {
		case "INVALID_INPUT":
			status = http.StatusBadRequest
		case "UNAUTHENTICATED":
			status = http.StatusUnauthorized
		case "NOT_FOUND":
			status = http.StatusNotFound
		case "CONVERSION_UNAVAILABLE":
			status = http.StatusBadGateway
		}
		if status >= 500 {
			logging.FromContext(r.Context()).WithError(err).Error("Request failed")
		}
		respondError(w, status, svcErr.Message)
		return
	}

	logging.FromContext(r.Context()).WithError(err).Error("Request failed")
	respondError(w, http.StatusInternalServerError, err.Error())
}

// parseJSONBody decodes a JSON request body into dest.
func parseJSONBody(r *http.Request, dest interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return err
	}
	defer r.Body.Close()

	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, dest)
}

// userID extracts the authenticated user from request headers. An empty
// string means the request is unauthenticated; view and preference
// handlers fail closed on it rather than rejecting outright.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}
