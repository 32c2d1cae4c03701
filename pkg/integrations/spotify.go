package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/errgroup"

	"github.com/atruong7-bot/event-search/pkg/domain"
	"github.com/atruong7-bot/event-search/pkg/monitoring"
)

const (
	defaultSpotifyBaseURL  = "https://api.spotify.com/v1"
	defaultSpotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyAlbumLimit      = 50
)

// SpotifyClient authenticates with the client credentials flow; the oauth2
// transport caches and refreshes the token.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *monitoring.Metrics
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Metrics      *monitoring.Metrics
}

func NewSpotifyClient(config SpotifyConfig) (*SpotifyClient, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultSpotifyBaseURL
	}
	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = defaultSpotifyTokenURL
	}

	creds := clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	base := &http.Client{Timeout: 10 * time.Second}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := creds.Client(ctx)
	httpClient.Timeout = 10 * time.Second

	return &SpotifyClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		metrics:    config.Metrics,
	}, nil
}

type spotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type spotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  struct {
		Total int `json:"total"`
	} `json:"followers"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Images []spotifyImage `json:"images"`
}

type spotifySearchResponse struct {
	Artists struct {
		Items []spotifyArtist `json:"items"`
		Total int             `json:"total"`
	} `json:"artists"`
}

type spotifyAlbum struct {
	Name         string         `json:"name"`
	AlbumType    string         `json:"album_type"`
	ReleaseDate  string         `json:"release_date"`
	TotalTracks  int            `json:"total_tracks"`
	Images       []spotifyImage `json:"images"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifyAlbumsResponse struct {
	Items []spotifyAlbum `json:"items"`
	Total int            `json:"total"`
}

// searchArtist returns the top artist match for name.
func (c *SpotifyClient) searchArtist(ctx context.Context, name string) (*spotifyArtist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ValidationError{Field: "name", Message: "artist name is required"}
	}

	q := url.Values{}
	q.Set("q", name)
	q.Set("type", "artist")
	q.Set("limit", "1")

	var searchResp spotifySearchResponse
	if err := c.get(ctx, "search", "/search?"+q.Encode(), &searchResp); err != nil {
		return nil, err
	}

	if len(searchResp.Artists.Items) == 0 {
		return nil, domain.ErrArtistNotFound
	}

	return &searchResp.Artists.Items[0], nil
}

func (c *SpotifyClient) getArtist(ctx context.Context, spotifyID string) (*spotifyArtist, error) {
	var artist spotifyArtist
	if err := c.get(ctx, "artist", "/artists/"+url.PathEscape(spotifyID), &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

func (c *SpotifyClient) getAlbums(ctx context.Context, spotifyID string) ([]spotifyAlbum, error) {
	path := fmt.Sprintf("/artists/%s/albums?limit=%d", url.PathEscape(spotifyID), spotifyAlbumLimit)

	var albums spotifyAlbumsResponse
	if err := c.get(ctx, "albums", path, &albums); err != nil {
		return nil, err
	}
	return albums.Items, nil
}

// GetArtistProfile searches for name, then loads the full artist and their
// albums in parallel.
func (c *SpotifyClient) GetArtistProfile(ctx context.Context, name string) (*domain.ArtistProfile, error) {
	match, err := c.searchArtist(ctx, name)
	if err != nil {
		return nil, err
	}

	var artist *spotifyArtist
	var albums []spotifyAlbum

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := c.getArtist(gctx, match.ID)
		artist = a
		return err
	})
	g.Go(func() error {
		a, err := c.getAlbums(gctx, match.ID)
		albums = a
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return toArtistProfile(artist, albums), nil
}

func toArtistProfile(a *spotifyArtist, albums []spotifyAlbum) *domain.ArtistProfile {
	profile := &domain.ArtistProfile{
		ID:         a.ID,
		Name:       a.Name,
		Followers:  a.Followers.Total,
		Popularity: a.Popularity,
		SpotifyURL: a.ExternalURLs.Spotify,
		Genres:     a.Genres,
		Albums:     make([]domain.Album, 0, len(albums)),
	}
	if profile.Genres == nil {
		profile.Genres = []string{}
	}
	if len(a.Images) > 0 {
		profile.ImageURL = a.Images[0].URL
	}

	for _, al := range albums {
		album := domain.Album{
			Name:        al.Name,
			ReleaseDate: al.ReleaseDate,
			TotalTracks: al.TotalTracks,
			SpotifyURL:  al.ExternalURLs.Spotify,
			AlbumType:   al.AlbumType,
		}
		if len(al.Images) > 0 {
			album.ImageURL = al.Images[0].URL
		}
		profile.Albums = append(profile.Albums, album)
	}

	return profile
}

func (c *SpotifyClient) get(ctx context.Context, op, path string, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveProvider("spotify_"+op, start, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify %s request failed: %w: %w", op, domain.ErrExternalAPIFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrArtistNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimitExceeded
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("spotify %s failed: status %d: %w", op, resp.StatusCode, domain.ErrExternalAPIFailure)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w: %w", op, domain.ErrExternalAPIFailure, err)
	}

	return nil
}
