package interfaces

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

type ArtistHandler struct {
	service domain.ArtistService
	logger  *slog.Logger
}

func NewArtistHandler(service domain.ArtistService, logger *slog.Logger) *ArtistHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArtistHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ArtistHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/spotify/search/artist/{name}", h.SearchArtist).Methods("GET")
}

func (h *ArtistHandler) SearchArtist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Artist name is required")
		return
	}

	profile, err := h.service.GetArtistProfile(ctx, name)
	if err != nil {
		respondWithDomainError(w, r, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}
