package events

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

var sortKeyLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseSearchResponse decodes a raw Discovery API search body.
func ParseSearchResponse(body []byte) (*SearchResponse, error) {
	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &resp, nil
}

// ParseEvent decodes a raw Discovery API event body.
func ParseEvent(body []byte) (*RawEvent, error) {
	var event RawEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return &event, nil
}

// NormalizeSearchResults converts a search response into canonical events
// sorted by start date and time. Entries without an ID are dropped; every
// other entry is kept with defaults filled in.
func NormalizeSearchResults(resp *SearchResponse) []domain.Event {
	events := make([]domain.Event, 0)
	if resp == nil || resp.Embedded == nil {
		return events
	}

	for i := range resp.Embedded.Events {
		raw := &resp.Embedded.Events[i]
		if strings.TrimSpace(raw.ID) == "" {
			continue
		}
		events = append(events, normalizeEvent(raw))
	}

	sortEvents(events)
	return events
}

// NormalizeDetail converts a single event payload. A nil payload or one without
// an ID yields domain.ErrEventNotFound.
func NormalizeDetail(raw *RawEvent) (*domain.EventDetail, error) {
	if raw == nil || strings.TrimSpace(raw.ID) == "" {
		return nil, domain.ErrEventNotFound
	}

	detail := &domain.EventDetail{
		Event:        normalizeEvent(raw),
		Artists:      make([]string, 0),
		Genres:       extractGenres(raw.Classifications),
		TicketStatus: domain.DefaultTicketStatus,
		BuyTicketURL: raw.URL,
	}

	if raw.Dates != nil && raw.Dates.Status != nil && raw.Dates.Status.Code != "" {
		detail.TicketStatus = raw.Dates.Status.Code
	}
	if raw.Seatmap != nil {
		detail.SeatMapURL = raw.Seatmap.StaticURL
	}
	if raw.Embedded != nil {
		for _, a := range raw.Embedded.Attractions {
			if name := strings.TrimSpace(a.Name); name != "" {
				detail.Artists = append(detail.Artists, name)
			}
		}
		if len(raw.Embedded.Venues) > 0 {
			detail.VenueInfo = NormalizeVenue(&raw.Embedded.Venues[0])
		}
	}
	if len(raw.PriceRanges) > 0 {
		detail.PriceRange = formatPriceRange(raw.PriceRanges[0])
	}

	detail.Music = detail.IsMusic()
	return detail, nil
}

// NormalizeVenue builds venue info from a raw venue block. Missing parts are
// left empty; coordinates are omitted unless both parse.
func NormalizeVenue(v *RawVenue) *domain.VenueInfo {
	if v == nil {
		return nil
	}

	info := &domain.VenueInfo{
		Name:          v.Name,
		ParkingDetail: plainText(v.ParkingDetail),
		URL:           v.URL,
	}

	var line1, city, stateCode string
	if v.Address != nil {
		line1 = v.Address.Line1
	}
	if v.City != nil {
		city = v.City.Name
	}
	if v.State != nil {
		stateCode = v.State.StateCode
	}
	info.Address = joinNonEmpty(", ", line1, city, stateCode)
	info.CityState = joinNonEmpty(", ", city, stateCode)

	if v.BoxOfficeInfo != nil {
		info.PhoneNumber = plainText(v.BoxOfficeInfo.PhoneNumberDetail)
		info.OpenHours = plainText(v.BoxOfficeInfo.OpenHoursDetail)
	}
	if v.GeneralInfo != nil {
		info.GeneralRule = plainText(v.GeneralInfo.GeneralRule)
		info.ChildRule = plainText(v.GeneralInfo.ChildRule)
	}
	if v.Location != nil {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(v.Location.Latitude), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(v.Location.Longitude), 64)
		if latErr == nil && lngErr == nil {
			info.Coordinates = &domain.Coordinates{Latitude: lat, Longitude: lng}
		}
	}
	if len(v.Images) > 0 {
		info.ImageURL = v.Images[0].URL
	}

	return info
}

func normalizeEvent(raw *RawEvent) domain.Event {
	event := domain.Event{
		ID:       strings.TrimSpace(raw.ID),
		Name:     raw.Name,
		Date:     domain.DefaultDate,
		Venue:    domain.DefaultVenue,
		Category: domain.DefaultCategory,
		ImageURL: domain.PlaceholderImageURL,
	}

	if raw.Dates != nil && raw.Dates.Start != nil {
		if raw.Dates.Start.LocalDate != "" {
			event.Date = raw.Dates.Start.LocalDate
		}
		event.Time = raw.Dates.Start.LocalTime
	}
	if raw.Embedded != nil && len(raw.Embedded.Venues) > 0 && raw.Embedded.Venues[0].Name != "" {
		event.Venue = raw.Embedded.Venues[0].Name
	}
	if len(raw.Classifications) > 0 {
		if seg := raw.Classifications[0].Segment; seg != nil && seg.Name != "" {
			event.Category = seg.Name
		}
	}
	if len(raw.Images) > 0 && raw.Images[0].URL != "" {
		event.ImageURL = raw.Images[0].URL
	}

	return event
}

// extractGenres reads the first classification in segment, genre, subGenre,
// type, subType order.
func extractGenres(classifications []ticketmasterClassification) []string {
	genres := make([]string, 0)
	if len(classifications) == 0 {
		return genres
	}

	c := classifications[0]
	seen := make(map[string]bool)
	for _, item := range []*ticketmasterClassificationItem{c.Segment, c.Genre, c.SubGenre, c.Type, c.SubType} {
		if item == nil {
			continue
		}
		name := strings.TrimSpace(item.Name)
		if name == "" || name == domain.UndefinedClassification || seen[name] {
			continue
		}
		seen[name] = true
		genres = append(genres, name)
	}

	return genres
}

// formatPriceRange renders "$min - $max". A single known bound is used for
// both sides.
func formatPriceRange(p ticketmasterPriceRange) string {
	lo, hi := p.Min, p.Max
	switch {
	case lo == nil && hi == nil:
		return ""
	case lo == nil:
		lo = hi
	case hi == nil:
		hi = lo
	}

	return fmt.Sprintf("$%s - $%s",
		decimal.NewFromFloat(*lo).String(),
		decimal.NewFromFloat(*hi).String())
}

type sortKey struct {
	raw    string
	at     time.Time
	parsed bool
}

func eventSortKey(e domain.Event) sortKey {
	t := e.Time
	if t == "" {
		t = "00:00"
	}
	key := sortKey{raw: e.Date + " " + t}
	for _, layout := range sortKeyLayouts {
		if at, err := time.Parse(layout, key.raw); err == nil {
			key.at = at
			key.parsed = true
			break
		}
	}
	return key
}

// sortEvents orders chronologically. Keys that do not parse (such as a "TBA"
// date) go after every parsable key and compare as plain strings.
func sortEvents(events []domain.Event) {
	keys := make(map[string]sortKey, len(events))
	keyFor := func(e domain.Event) sortKey {
		id := e.Date + "\x00" + e.Time
		k, ok := keys[id]
		if !ok {
			k = eventSortKey(e)
			keys[id] = k
		}
		return k
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := keyFor(events[i]), keyFor(events[j])
		switch {
		case a.parsed && b.parsed:
			return a.at.Before(b.at)
		case a.parsed != b.parsed:
			return a.parsed
		default:
			return a.raw < b.raw
		}
	})
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
