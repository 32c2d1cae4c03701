package interfaces

import (
	"context"
	"fmt"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

func errProviderNotConfigured(name string) error {
	return fmt.Errorf("%s is not configured: %w", name, domain.ErrExternalAPIFailure)
}

// ArtistService resolves Spotify profiles for artist names and events.
type ArtistService struct {
	provider domain.ArtistService
}

func NewArtistService(provider domain.ArtistService) *ArtistService {
	return &ArtistService{provider: provider}
}

func (s *ArtistService) GetArtistProfile(ctx context.Context, name string) (*domain.ArtistProfile, error) {
	if s.provider == nil {
		return nil, errProviderNotConfigured("spotify")
	}
	return s.provider.GetArtistProfile(ctx, name)
}

// ProfileForEvent looks up the headline artist of a music event. Non-music
// events and events without artists report domain.ErrArtistNotFound without
// calling Spotify.
func (s *ArtistService) ProfileForEvent(ctx context.Context, detail *domain.EventDetail) (*domain.ArtistProfile, error) {
	if detail == nil || !detail.IsMusic() || len(detail.Artists) == 0 {
		return nil, domain.ErrArtistNotFound
	}
	return s.GetArtistProfile(ctx, detail.Artists[0])
}
