package cmd

import (
	"github.com/atruong7-bot/event-search/pkg/domain"
	"github.com/atruong7-bot/event-search/pkg/integrations"
	"github.com/atruong7-bot/event-search/pkg/integrations/sources/events"
	"github.com/atruong7-bot/event-search/pkg/interfaces"
	"github.com/atruong7-bot/event-search/pkg/monitoring"
)

// eventService returns a service backed by Ticketmaster, or one that reports
// the provider as unconfigured.
func (a *app) eventService(metrics *monitoring.Metrics) *interfaces.EventService {
	if !a.cfg.HasTicketmaster() {
		a.logger.Warn("ticketmaster API key not set; event routes will fail")
		return interfaces.NewEventService(nil)
	}

	client, err := events.NewTicketmasterClient(events.TicketmasterConfig{
		APIKey:  a.cfg.APIs.Ticketmaster.APIKey,
		BaseURL: a.cfg.APIs.Ticketmaster.BaseURL,
		Metrics: metrics,
	})
	if err != nil {
		a.logger.Warn("failed to create ticketmaster client", "error", err)
		return interfaces.NewEventService(nil)
	}
	return interfaces.NewEventService(client)
}

func (a *app) artistService(metrics *monitoring.Metrics) *interfaces.ArtistService {
	var provider domain.ArtistService
	if a.cfg.HasSpotify() {
		client, err := integrations.NewSpotifyClient(integrations.SpotifyConfig{
			ClientID:     a.cfg.APIs.Spotify.ClientID,
			ClientSecret: a.cfg.APIs.Spotify.ClientSecret,
			BaseURL:      a.cfg.APIs.Spotify.BaseURL,
			TokenURL:     a.cfg.APIs.Spotify.TokenURL,
			Metrics:      metrics,
		})
		if err != nil {
			a.logger.Warn("failed to create spotify client", "error", err)
		} else {
			provider = client
		}
	} else {
		a.logger.Warn("spotify credentials not set; artist routes will fail")
	}
	return interfaces.NewArtistService(provider)
}
