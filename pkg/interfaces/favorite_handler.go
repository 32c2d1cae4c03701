package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

type FavoriteHandler struct {
	service domain.FavoriteService
	logger  *slog.Logger
}

func NewFavoriteHandler(service domain.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FavoriteHandler{
		service: service,
		logger:  logger,
	}
}

func (h *FavoriteHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/favorites", h.ListFavorites).Methods("GET")
	router.HandleFunc("/api/favorites", h.AddFavorite).Methods("POST")
	router.HandleFunc("/api/favorites/check/{eventId}", h.CheckFavorite).Methods("GET")
	router.HandleFunc("/api/favorites/{eventId}", h.RemoveFavorite).Methods("DELETE")
}

func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	favorites, err := h.service.ListFavorites(ctx)
	if err != nil {
		code, message := statusForError(err)
		h.logger.Error("failed to list favorites", "status", code, "error", err)
		// The UI renders an empty list whenever favorites are unavailable.
		respondWithJSON(w, code, map[string]interface{}{
			"error":     message,
			"favorites": []domain.Favorite{},
		})
		return
	}

	respondWithJSON(w, http.StatusOK, domain.FavoriteListResponse{Favorites: favorites})
}

func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input domain.FavoriteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.AddFavorite(ctx, input)
	if err != nil {
		var validation domain.ValidationError
		if errors.As(err, &validation) {
			respondWithError(w, http.StatusBadRequest, "Event ID is required")
			return
		}
		respondWithDomainError(w, r, h.logger, err)
		return
	}

	if result.AlreadyExists {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Event already in favorites",
			"data":    result.Favorite,
		})
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Event added to favorites",
		"data":    result.Favorite,
	})
}

func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	eventID := mux.Vars(r)["eventId"]

	result, err := h.service.RemoveFavorite(ctx, eventID)
	if err != nil {
		respondWithDomainError(w, r, h.logger, err)
		return
	}

	if !result.Deleted {
		respondWithError(w, http.StatusNotFound, "Event not found in favorites")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Event removed from favorites"})
}

func (h *FavoriteHandler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	eventID := mux.Vars(r)["eventId"]

	exists, err := h.service.IsFavorite(ctx, eventID)
	if err != nil {
		respondWithDomainError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"isFavorite": exists})
}
