package interfaces

import (
	"context"

	"github.com/atruong7-bot/event-search/pkg/domain"
	"github.com/atruong7-bot/event-search/pkg/integrations/sources/events"
)

// EventProvider is the raw Discovery API surface EventService needs.
// *events.TicketmasterClient satisfies it.
type EventProvider interface {
	SearchEvents(ctx context.Context, params domain.SearchParams) (*events.SearchResponse, error)
	GetEvent(ctx context.Context, id string) (*events.RawEvent, error)
	Suggest(ctx context.Context, keyword string) ([]string, error)
	SearchVenue(ctx context.Context, name string) (*events.RawVenue, error)
}

// EventService fetches provider payloads and returns them normalized.
type EventService struct {
	provider EventProvider
}

// NewEventService accepts a nil provider; calls then fail with
// domain.ErrExternalAPIFailure.
func NewEventService(provider EventProvider) *EventService {
	return &EventService{provider: provider}
}

func (s *EventService) SearchEvents(ctx context.Context, params domain.SearchParams) (*domain.EventSearchResponse, error) {
	if s.provider == nil {
		return nil, errProviderNotConfigured("ticketmaster")
	}

	raw, err := s.provider.SearchEvents(ctx, params)
	if err != nil {
		return nil, err
	}

	normalized := events.NormalizeSearchResults(raw)
	return &domain.EventSearchResponse{
		Events: normalized,
		Total:  len(normalized),
	}, nil
}

func (s *EventService) GetEventDetail(ctx context.Context, id string) (*domain.EventDetail, error) {
	if s.provider == nil {
		return nil, errProviderNotConfigured("ticketmaster")
	}

	raw, err := s.provider.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	return events.NormalizeDetail(raw)
}

func (s *EventService) Suggest(ctx context.Context, keyword string) ([]string, error) {
	if s.provider == nil {
		return nil, errProviderNotConfigured("ticketmaster")
	}
	return s.provider.Suggest(ctx, keyword)
}

func (s *EventService) GetVenue(ctx context.Context, name string) (*domain.VenueInfo, error) {
	if s.provider == nil {
		return nil, errProviderNotConfigured("ticketmaster")
	}

	raw, err := s.provider.SearchVenue(ctx, name)
	if err != nil {
		return nil, err
	}

	return events.NormalizeVenue(raw), nil
}
