package domain

import (
	"context"
)

// FavoriteRepository is a favorites collection keyed by event ID. Implementations
// enforce uniqueness of EventID themselves and report a violation as
// ErrDuplicateFavorite.
type FavoriteRepository interface {
	FindByEventID(ctx context.Context, eventID string) (*Favorite, error)
	Insert(ctx context.Context, favorite *Favorite) error
	DeleteByEventID(ctx context.Context, eventID string) (bool, error)
	ListByCreatedAt(ctx context.Context) ([]Favorite, error)
}

type FavoriteService interface {
	ListFavorites(ctx context.Context) ([]Favorite, error)
	AddFavorite(ctx context.Context, input FavoriteInput) (*AddFavoriteResult, error)
	RemoveFavorite(ctx context.Context, eventID string) (*RemoveFavoriteResult, error)
	IsFavorite(ctx context.Context, eventID string) (bool, error)
}

type EventService interface {
	SearchEvents(ctx context.Context, params SearchParams) (*EventSearchResponse, error)
	GetEventDetail(ctx context.Context, id string) (*EventDetail, error)
	Suggest(ctx context.Context, keyword string) ([]string, error)
	GetVenue(ctx context.Context, name string) (*VenueInfo, error)
}

type ArtistService interface {
	GetArtistProfile(ctx context.Context, name string) (*ArtistProfile, error)
}
