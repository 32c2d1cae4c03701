package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/atruong7-bot/event-search/pkg/domain"
)

func newTestTicketmaster(t *testing.T, handler http.HandlerFunc) *TicketmasterClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewTicketmasterClient(TicketmasterConfig{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewTicketmasterClient(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		if _, err := NewTicketmasterClient(TicketmasterConfig{}); err == nil {
			t.Error("expected error for missing API key")
		}
	})

	t.Run("default base URL", func(t *testing.T) {
		client, err := NewTicketmasterClient(TicketmasterConfig{APIKey: "k"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client.baseURL != defaultTicketmasterBaseURL {
			t.Errorf("expected default base URL, got %s", client.baseURL)
		}
	})
}

func TestTicketmasterClient_SearchEvents(t *testing.T) {
	client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		q := r.URL.Query()
		checks := map[string]string{
			"apikey":    "test-key",
			"keyword":   "jazz",
			"radius":    "10",
			"unit":      "miles",
			"size":      "20",
			"segmentId": SegmentIDForCategory("Music"),
			"geoPoint":  geohash.EncodeWithPrecision(34.0522, -118.2437, 9),
		}
		for k, want := range checks {
			if got := q.Get(k); got != want {
				t.Errorf("expected %s=%s, got %s", k, want, got)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"_embedded":{"events":[{"id":"1","name":"Jazz Night"}]},"page":{"totalElements":1}}`))
	})

	resp, err := client.SearchEvents(context.Background(), domain.SearchParams{
		Keyword:   " jazz ",
		Latitude:  34.0522,
		Longitude: -118.2437,
		SegmentID: SegmentIDForCategory("Music"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	events := NormalizeSearchResults(resp)
	if len(events) != 1 || events[0].Name != "Jazz Night" {
		t.Errorf("unexpected events %+v", events)
	}
}

func TestTicketmasterClient_SearchEventsAllCategory(t *testing.T) {
	client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("segmentId") {
			t.Error("expected no segmentId for All")
		}
		if got := r.URL.Query().Get("radius"); got != "25" {
			t.Errorf("expected radius 25, got %s", got)
		}
		w.Write([]byte(`{}`))
	})

	_, err := client.SearchEvents(context.Background(), domain.SearchParams{
		Keyword: "x", Radius: 25, Latitude: 1, Longitude: 1, SegmentID: "All",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestTicketmasterClient_SearchEventsValidation(t *testing.T) {
	client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	tests := []struct {
		name   string
		params domain.SearchParams
	}{
		{"empty keyword", domain.SearchParams{Keyword: "  ", Latitude: 1, Longitude: 1}},
		{"missing location", domain.SearchParams{Keyword: "rock"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SearchEvents(context.Background(), tt.params)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestTicketmasterClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"not found", http.StatusNotFound, domain.ErrEventNotFound},
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimitExceeded},
		{"server error", http.StatusBadGateway, domain.ErrExternalAPIFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.GetEvent(context.Background(), "abc")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTicketmasterClient_GetEvent(t *testing.T) {
	client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events/G5v0Z9.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"G5v0Z9","name":"Show","classifications":[{"segment":{"name":"Music"}}]}`))
	})

	raw, err := client.GetEvent(context.Background(), "G5v0Z9")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if raw.ID != "G5v0Z9" {
		t.Errorf("expected id G5v0Z9, got %s", raw.ID)
	}

	if _, err := client.GetEvent(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty id, got %v", err)
	}
}

func TestTicketmasterClient_Suggest(t *testing.T) {
	client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/suggest.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"_embedded":{"attractions":[{"name":"Adele"},{"name":""},{"name":"Adam Lambert"}]}}`))
	})

	got, err := client.Suggest(context.Background(), "ad")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got[0] != "Adele" || got[1] != "Adam Lambert" {
		t.Errorf("unexpected suggestions %v", got)
	}
}

func TestTicketmasterClient_SearchVenue(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"_embedded":{"venues":[{"name":"The Forum","city":{"name":"Inglewood"}}]}}`))
		})

		venue, err := client.SearchVenue(context.Background(), "The Forum")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if venue.Name != "The Forum" {
			t.Errorf("expected The Forum, got %s", venue.Name)
		}
	})

	t.Run("no match", func(t *testing.T) {
		client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"page":{"totalElements":0}}`))
		})

		if _, err := client.SearchVenue(context.Background(), "Nowhere"); !errors.Is(err, domain.ErrVenueNotFound) {
			t.Errorf("expected ErrVenueNotFound, got %v", err)
		}
	})
}

func TestTicketmasterClient_NotFoundPerOperation(t *testing.T) {
	client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ctx := context.Background()

	_, err := client.SearchVenue(ctx, "The Forum")
	if !errors.Is(err, domain.ErrVenueNotFound) {
		t.Errorf("venue: expected ErrVenueNotFound, got %v", err)
	}
	if errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("venue: did not expect ErrEventNotFound, got %v", err)
	}

	if _, err := client.GetEvent(ctx, "abc"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("event: expected ErrEventNotFound, got %v", err)
	}

	_, err = client.SearchEvents(ctx, domain.SearchParams{Keyword: "x", Latitude: 1, Longitude: 1})
	if !errors.Is(err, domain.ErrExternalAPIFailure) {
		t.Errorf("search: expected ErrExternalAPIFailure, got %v", err)
	}

	if _, err := client.Suggest(ctx, "ad"); !errors.Is(err, domain.ErrExternalAPIFailure) {
		t.Errorf("suggest: expected ErrExternalAPIFailure, got %v", err)
	}
}

func TestTicketmasterClient_SearchEventsWronglyTypedFields(t *testing.T) {
	client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_embedded":{"events":[
			{"id":"1","name":"Good Show","_embedded":{"venues":[{"name":"Hall","location":{"latitude":"34.1","longitude":"-118.3"}}]}},
			{"id":2,"name":"Odd Show","images":"none","priceRanges":[{"min":"10","max":25}],
			 "_embedded":{"venues":[{"name":"Arena","location":{"latitude":34.2,"longitude":-118.4}}]}}
		]},"page":{"totalElements":"2"}}`))
	})

	resp, err := client.SearchEvents(context.Background(), domain.SearchParams{Keyword: "show", Latitude: 34, Longitude: -118})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	events := NormalizeSearchResults(resp)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].ID != "2" || events[1].Name != "Odd Show" {
		t.Errorf("unexpected second event %+v", events[1])
	}
	if resp.Page == nil || resp.Page.TotalElements != 2 {
		t.Errorf("expected totalElements 2, got %+v", resp.Page)
	}
}

func TestTicketmasterClient_MalformedBody(t *testing.T) {
	client := newTestTicketmaster(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_embedded":`))
	})

	if _, err := client.GetEvent(context.Background(), "abc"); !errors.Is(err, domain.ErrExternalAPIFailure) {
		t.Errorf("expected ErrExternalAPIFailure, got %v", err)
	}
}

func TestSegmentIDForCategory(t *testing.T) {
	tests := map[string]string{
		"Music":          "KZFzniwnSyZfZ7v7nJ",
		"Sports":         "KZFzniwnSyZfZ7v7nE",
		"Arts & Theatre": "KZFzniwnSyZfZ7v7na",
		"Film":           "KZFzniwnSyZfZ7v7nn",
		"Miscellaneous":  "KZFzniwnSyZfZ7v7n1",
		"All":            "",
		"Opera":          "",
	}
	for category, want := range tests {
		if got := SegmentIDForCategory(category); got != want {
			t.Errorf("%s: expected %q, got %q", category, want, got)
		}
	}
}

func TestEventRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newEventRateLimiter(2)
	limiter.now = func() time.Time { return now }

	if err := limiter.Allow(); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if err := limiter.Allow(); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if err := limiter.Allow(); !errors.Is(err, domain.ErrRateLimitExceeded) {
		t.Errorf("expected ErrRateLimitExceeded, got %v", err)
	}

	now = now.Add(24*time.Hour + time.Second)
	if err := limiter.Allow(); err != nil {
		t.Errorf("expected window to reset, got %v", err)
	}
}
