package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrEventNotFound      = errors.New("event not found")
	ErrVenueNotFound      = errors.New("venue not found")
	ErrFavoriteNotFound   = errors.New("favorite not found")
	ErrDuplicateFavorite  = errors.New("favorite already exists")
	ErrArtistNotFound     = errors.New("artist not found")
	ErrExternalAPIFailure = errors.New("external API failure")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
