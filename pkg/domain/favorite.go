package domain

import (
	"strings"
	"time"
)

// Favorite is a persisted reference to a Ticketmaster event. EventID is unique
// across the collection.
type Favorite struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Venue     string    `json:"venue"`
	Category  string    `json:"category"`
	ImageURL  string    `json:"imageUrl"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

// FavoriteInput carries the caller-supplied fields of a Favorite.
type FavoriteInput struct {
	EventID  string `json:"eventId"`
	Name     string `json:"name"`
	Venue    string `json:"venue"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

func (in FavoriteInput) Validate() error {
	if strings.TrimSpace(in.EventID) == "" {
		return ValidationError{Field: "eventId", Message: "event ID is required"}
	}
	return nil
}

// Favorite builds the record that would be stored for this input.
func (in FavoriteInput) Favorite(id string, createdAt time.Time) Favorite {
	return Favorite{
		ID:        id,
		EventID:   strings.TrimSpace(in.EventID),
		Name:      in.Name,
		Venue:     in.Venue,
		Category:  in.Category,
		ImageURL:  in.ImageURL,
		Date:      in.Date,
		Time:      in.Time,
		CreatedAt: createdAt,
	}
}

type AddFavoriteResult struct {
	AlreadyExists bool     `json:"alreadyExists"`
	Favorite      Favorite `json:"data"`
}

type RemoveFavoriteResult struct {
	Deleted bool `json:"deleted"`
}

type FavoriteListResponse struct {
	Favorites []Favorite `json:"favorites"`
}
