package interfaces

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

const (
	defaultSearchRadius = 10
	maxSearchRadius     = 19999
)

// EventArtistResolver finds the headline artist profile for an event.
type EventArtistResolver interface {
	ProfileForEvent(ctx context.Context, detail *domain.EventDetail) (*domain.ArtistProfile, error)
}

type EventHandler struct {
	service domain.EventService
	artists EventArtistResolver
	logger  *slog.Logger
}

// NewEventHandler accepts a nil artists resolver; the event artist route then
// responds 404.
func NewEventHandler(service domain.EventService, artists EventArtistResolver, logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		service: service,
		artists: artists,
		logger:  logger,
	}
}

func (h *EventHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/suggest", h.Suggest).Methods("GET")
	router.HandleFunc("/api/searchEvents", h.SearchEvents).Methods("GET")
	router.HandleFunc("/api/eventDetails/{id}", h.GetEventDetail).Methods("GET")
	router.HandleFunc("/api/eventDetails/{id}/artist", h.GetEventArtist).Methods("GET")
	router.HandleFunc("/api/venueDetails/{name}", h.GetVenue).Methods("GET")
}

func (h *EventHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		respondWithError(w, http.StatusBadRequest, "Keyword is required")
		return
	}

	suggestions, err := h.service.Suggest(ctx, keyword)
	if err != nil {
		respondWithDomainError(w, r, h.logger, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	respondWithJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

func (h *EventHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	query := r.URL.Query()

	keyword := strings.TrimSpace(query.Get("keyword"))
	if keyword == "" {
		respondWithError(w, http.StatusBadRequest, "Keyword is required")
		return
	}

	latStr, lngStr := query.Get("lat"), query.Get("lng")
	if latStr == "" || lngStr == "" {
		respondWithError(w, http.StatusBadRequest, "Location coordinates are required")
		return
	}
	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		respondWithError(w, http.StatusBadRequest, "Location coordinates are invalid")
		return
	}

	radius := defaultSearchRadius
	if radiusStr := query.Get("radius"); radiusStr != "" {
		parsedRadius, err := strconv.Atoi(radiusStr)
		if err != nil || parsedRadius <= 0 {
			respondWithError(w, http.StatusBadRequest, "radius must be a positive integer")
			return
		}
		if parsedRadius > maxSearchRadius {
			parsedRadius = maxSearchRadius
		}
		radius = parsedRadius
	}

	response, err := h.service.SearchEvents(ctx, domain.SearchParams{
		Keyword:   keyword,
		Radius:    radius,
		Latitude:  lat,
		Longitude: lng,
		SegmentID: query.Get("segmentId"),
	})
	if err != nil {
		respondWithDomainError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

func (h *EventHandler) GetEventDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	detail, err := h.service.GetEventDetail(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithDomainError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

func (h *EventHandler) GetEventArtist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if h.artists == nil {
		respondWithError(w, http.StatusNotFound, "artist not found")
		return
	}

	detail, err := h.service.GetEventDetail(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithDomainError(w, r, h.logger, err)
		return
	}

	profile, err := h.artists.ProfileForEvent(ctx, detail)
	if err != nil {
		respondWithDomainError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

func (h *EventHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	venue, err := h.service.GetVenue(ctx, mux.Vars(r)["name"])
	if err != nil {
		respondWithDomainError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, venue)
}
