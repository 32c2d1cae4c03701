package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/atruong7-bot/event-search/pkg/domain"
	"github.com/atruong7-bot/event-search/pkg/monitoring"
)

const (
	defaultTicketmasterBaseURL = "https://app.ticketmaster.com/discovery/v2"
	searchPageSize             = 20
	defaultSearchRadius        = 10
	geoPointPrecision          = 9
)

// Ticketmaster segment IDs for the search form categories.
var segmentIDs = map[string]string{
	"Music":          "KZFzniwnSyZfZ7v7nJ",
	"Sports":         "KZFzniwnSyZfZ7v7nE",
	"Arts & Theatre": "KZFzniwnSyZfZ7v7na",
	"Film":           "KZFzniwnSyZfZ7v7nn",
	"Miscellaneous":  "KZFzniwnSyZfZ7v7n1",
}

// SegmentIDForCategory maps a category label to its segment ID. "All" and
// unknown labels map to the empty string, which disables the filter.
func SegmentIDForCategory(category string) string {
	return segmentIDs[category]
}

type TicketmasterClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *eventRateLimiter
	metrics     *monitoring.Metrics
}

type TicketmasterConfig struct {
	APIKey  string // Ticketmaster Discovery API key
	BaseURL string
	Metrics *monitoring.Metrics
}

func NewTicketmasterClient(config TicketmasterConfig) (*TicketmasterClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("ticketmaster API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultTicketmasterBaseURL
	}

	return &TicketmasterClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      config.APIKey,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		rateLimiter: newEventRateLimiter(5000), // 5000 requests per day
		metrics:     config.Metrics,
	}, nil
}

// Raw Discovery API payloads. Every nested block is optional; absent strings
// decode to "" and absent blocks to nil. Decoding is field by field (see
// lenient.go) so a wrongly typed field falls back to its zero value.

type SearchResponse struct {
	Embedded *searchEmbedded   `json:"_embedded,omitempty"`
	Page     *ticketmasterPage `json:"page,omitempty"`
}

type searchEmbedded struct {
	Events []RawEvent `json:"events"`
}

type RawEvent struct {
	ID              string                       `json:"id"`
	Name            string                       `json:"name"`
	URL             string                       `json:"url"`
	Images          []ticketmasterImage          `json:"images"`
	Dates           *ticketmasterDates           `json:"dates,omitempty"`
	Classifications []ticketmasterClassification `json:"classifications"`
	PriceRanges     []ticketmasterPriceRange     `json:"priceRanges,omitempty"`
	Seatmap         *ticketmasterSeatmap         `json:"seatmap,omitempty"`
	Embedded        *eventEmbedded               `json:"_embedded,omitempty"`
}

type eventEmbedded struct {
	Venues      []RawVenue               `json:"venues"`
	Attractions []ticketmasterAttraction `json:"attractions"`
}

type ticketmasterImage struct {
	Ratio  string `json:"ratio"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ticketmasterDates struct {
	Start    *ticketmasterEventDate `json:"start,omitempty"`
	Timezone string                 `json:"timezone"`
	Status   *ticketmasterStatus    `json:"status,omitempty"`
}

type ticketmasterEventDate struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
	DateTime  string `json:"dateTime"`
}

type ticketmasterStatus struct {
	Code string `json:"code"`
}

type ticketmasterClassification struct {
	Primary  bool                            `json:"primary"`
	Segment  *ticketmasterClassificationItem `json:"segment,omitempty"`
	Genre    *ticketmasterClassificationItem `json:"genre,omitempty"`
	SubGenre *ticketmasterClassificationItem `json:"subGenre,omitempty"`
	Type     *ticketmasterClassificationItem `json:"type,omitempty"`
	SubType  *ticketmasterClassificationItem `json:"subType,omitempty"`
}

type ticketmasterClassificationItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ticketmasterPriceRange struct {
	Type     string   `json:"type"`
	Currency string   `json:"currency"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

type ticketmasterSeatmap struct {
	StaticURL string `json:"staticUrl"`
}

type RawVenue struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	URL           string                   `json:"url"`
	Images        []ticketmasterImage      `json:"images"`
	City          *ticketmasterNamed       `json:"city,omitempty"`
	State         *ticketmasterState       `json:"state,omitempty"`
	Address       *ticketmasterAddress     `json:"address,omitempty"`
	Location      *ticketmasterLocation    `json:"location,omitempty"`
	BoxOfficeInfo *ticketmasterBoxOffice   `json:"boxOfficeInfo,omitempty"`
	ParkingDetail string                   `json:"parkingDetail,omitempty"`
	GeneralInfo   *ticketmasterGeneralInfo `json:"generalInfo,omitempty"`
}

type ticketmasterNamed struct {
	Name string `json:"name"`
}

type ticketmasterState struct {
	Name      string `json:"name"`
	StateCode string `json:"stateCode"`
}

type ticketmasterAddress struct {
	Line1 string `json:"line1"`
}

// Coordinates arrive as decimal strings.
type ticketmasterLocation struct {
	Longitude string `json:"longitude"`
	Latitude  string `json:"latitude"`
}

type ticketmasterBoxOffice struct {
	PhoneNumberDetail string `json:"phoneNumberDetail"`
	OpenHoursDetail   string `json:"openHoursDetail"`
}

type ticketmasterGeneralInfo struct {
	GeneralRule string `json:"generalRule"`
	ChildRule   string `json:"childRule"`
}

type ticketmasterAttraction struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ticketmasterPage struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type ticketmasterSuggestResponse struct {
	Embedded *eventEmbedded `json:"_embedded,omitempty"`
}

type ticketmasterVenuesResponse struct {
	Embedded *eventEmbedded `json:"_embedded,omitempty"`
}

// SearchEvents runs a keyword search around a point and returns the raw
// response. Pass it to NormalizeSearchResults for canonical events.
func (c *TicketmasterClient) SearchEvents(ctx context.Context, params domain.SearchParams) (*SearchResponse, error) {
	keyword := strings.TrimSpace(params.Keyword)
	if keyword == "" {
		return nil, domain.ValidationError{Field: "keyword", Message: "keyword is required"}
	}
	if params.Latitude == 0 && params.Longitude == 0 {
		return nil, domain.ValidationError{Field: "location", Message: "location coordinates are required"}
	}

	radius := params.Radius
	if radius <= 0 {
		radius = defaultSearchRadius
	}

	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("radius", strconv.Itoa(radius))
	q.Set("unit", "miles")
	q.Set("geoPoint", geohash.EncodeWithPrecision(params.Latitude, params.Longitude, geoPointPrecision))
	q.Set("size", strconv.Itoa(searchPageSize))
	if params.SegmentID != "" && params.SegmentID != "All" {
		q.Set("segmentId", params.SegmentID)
	}

	var resp SearchResponse
	if err := c.get(ctx, "search", "/events.json", q, &resp); err != nil {
		return nil, notFoundAs(err, errEndpointMissing("search"))
	}

	return &resp, nil
}

// GetEvent fetches a single event by its Ticketmaster ID.
func (c *TicketmasterClient) GetEvent(ctx context.Context, id string) (*RawEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ValidationError{Field: "id", Message: "event ID is required"}
	}

	var event RawEvent
	if err := c.get(ctx, "event", "/events/"+url.PathEscape(id)+".json", url.Values{}, &event); err != nil {
		return nil, notFoundAs(err, domain.ErrEventNotFound)
	}

	return &event, nil
}

// Suggest returns attraction names for keyword autocomplete.
func (c *TicketmasterClient) Suggest(ctx context.Context, keyword string) ([]string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.ValidationError{Field: "keyword", Message: "keyword is required"}
	}

	q := url.Values{}
	q.Set("keyword", keyword)

	var resp ticketmasterSuggestResponse
	if err := c.get(ctx, "suggest", "/suggest.json", q, &resp); err != nil {
		return nil, notFoundAs(err, errEndpointMissing("suggest"))
	}

	suggestions := make([]string, 0)
	if resp.Embedded == nil {
		return suggestions, nil
	}
	for _, a := range resp.Embedded.Attractions {
		if a.Name != "" {
			suggestions = append(suggestions, a.Name)
		}
	}

	return suggestions, nil
}

// SearchVenue looks a venue up by name and returns the best match.
func (c *TicketmasterClient) SearchVenue(ctx context.Context, name string) (*RawVenue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ValidationError{Field: "name", Message: "venue name is required"}
	}

	q := url.Values{}
	q.Set("keyword", name)
	q.Set("size", "1")

	var resp ticketmasterVenuesResponse
	if err := c.get(ctx, "venue", "/venues.json", q, &resp); err != nil {
		return nil, notFoundAs(err, domain.ErrVenueNotFound)
	}

	if resp.Embedded == nil || len(resp.Embedded.Venues) == 0 {
		return nil, domain.ErrVenueNotFound
	}

	return &resp.Embedded.Venues[0], nil
}

// errNotFound marks a 404 from get. Each operation maps it to its own
// domain error.
var errNotFound = errors.New("ticketmaster: not found")

func notFoundAs(err, target error) error {
	if errors.Is(err, errNotFound) {
		return target
	}
	return err
}

// A 404 on a collection endpoint means the upstream route is gone, not that
// nothing matched.
func errEndpointMissing(op string) error {
	return fmt.Errorf("ticketmaster %s endpoint not found: %w", op, domain.ErrExternalAPIFailure)
}

func (c *TicketmasterClient) get(ctx context.Context, op, path string, q url.Values, out interface{}) (err error) {
	if err := c.rateLimiter.Allow(); err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		c.metrics.ObserveProvider("ticketmaster_"+op, start, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	q.Set("apikey", c.apiKey)
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ticketmaster %s request failed: %w: %w", op, domain.ErrExternalAPIFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimitExceeded
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("ticketmaster %s failed: status %d: %w", op, resp.StatusCode, domain.ErrExternalAPIFailure)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w: %w", op, domain.ErrExternalAPIFailure, err)
	}

	return nil
}
