package domain

import (
	"strings"
)

const (
	DefaultDate         = "TBA"
	DefaultVenue        = "TBA"
	DefaultCategory     = "Miscellaneous"
	DefaultTicketStatus = "onsale"
	PlaceholderImageURL = "/placeholder.png"

	// UndefinedClassification is the name Ticketmaster uses for an unset
	// classification level.
	UndefinedClassification = "Undefined"
)

// Event is the canonical shape of one search result.
type Event struct {
	ID       string `json:"eventId"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Venue    string `json:"venue"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
}

// FavoriteInput returns the fields needed to favorite this event.
func (e Event) FavoriteInput() FavoriteInput {
	return FavoriteInput{
		EventID:  e.ID,
		Name:     e.Name,
		Venue:    e.Venue,
		Category: e.Category,
		ImageURL: e.ImageURL,
		Date:     e.Date,
		Time:     e.Time,
	}
}

// EventDetail is the canonical shape of a single event lookup.
type EventDetail struct {
	Event
	Artists      []string   `json:"artists"`
	Genres       []string   `json:"genres"`
	TicketStatus string     `json:"ticketStatus"`
	BuyTicketURL string     `json:"buyTicketUrl,omitempty"`
	SeatMapURL   string     `json:"seatMapUrl,omitempty"`
	PriceRange   string     `json:"priceRange,omitempty"`
	VenueInfo    *VenueInfo `json:"venueInfo,omitempty"`
	Music        bool       `json:"isMusic"`
}

// IsMusic reports whether any genre mentions music. Artist enrichment is only
// attempted for music events.
func (d *EventDetail) IsMusic() bool {
	for _, g := range d.Genres {
		if strings.Contains(strings.ToLower(g), "music") {
			return true
		}
	}
	return false
}

// FavoriteInput uses the first genre as the category, matching what the
// details page stores.
func (d *EventDetail) FavoriteInput() FavoriteInput {
	in := d.Event.FavoriteInput()
	in.Category = "Event"
	if len(d.Genres) > 0 {
		in.Category = d.Genres[0]
	}
	if in.ImageURL == PlaceholderImageURL {
		in.ImageURL = ""
	}
	return in
}

type VenueInfo struct {
	Name          string       `json:"name"`
	Address       string       `json:"address"`
	CityState     string       `json:"cityState,omitempty"`
	PhoneNumber   string       `json:"phoneNumber,omitempty"`
	OpenHours     string       `json:"openHours,omitempty"`
	GeneralRule   string       `json:"generalRule,omitempty"`
	ChildRule     string       `json:"childRule,omitempty"`
	ParkingDetail string       `json:"parkingDetail,omitempty"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	ImageURL      string       `json:"imageUrl,omitempty"`
	URL           string       `json:"venueUrl,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// SearchParams are the query inputs of an event search.
type SearchParams struct {
	Keyword   string  `json:"keyword"`
	Radius    int     `json:"radius"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	SegmentID string  `json:"segmentId,omitempty"`
}

type EventSearchResponse struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}
