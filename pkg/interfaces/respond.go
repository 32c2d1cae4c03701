package interfaces

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// statusForError maps domain errors to an HTTP status and a client-safe message.
func statusForError(err error) (int, string) {
	var validation domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, "event not found"
	case errors.Is(err, domain.ErrVenueNotFound):
		return http.StatusNotFound, "venue not found"
	case errors.Is(err, domain.ErrArtistNotFound):
		return http.StatusNotFound, "artist not found"
	case errors.Is(err, domain.ErrFavoriteNotFound):
		return http.StatusNotFound, "event not found in favorites"
	case errors.Is(err, domain.ErrRateLimitExceeded):
		return http.StatusTooManyRequests, "rate limit exceeded"
	case errors.Is(err, domain.ErrExternalAPIFailure):
		return http.StatusBadGateway, "external service unavailable"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "favorites storage unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondWithDomainError logs server-side failures and writes the mapped status.
func respondWithDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code, message := statusForError(err)
	if code >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	}
	respondWithError(w, code, message)
}
