package domain

// ArtistProfile is the Spotify view of an event's headline artist.
type ArtistProfile struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Followers  int      `json:"followers"`
	Popularity int      `json:"popularity"`
	SpotifyURL string   `json:"spotifyUrl"`
	ImageURL   string   `json:"imageUrl"`
	Genres     []string `json:"genres"`
	Albums     []Album  `json:"albums"`
}

type Album struct {
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	ReleaseDate string `json:"releaseDate"`
	TotalTracks int    `json:"totalTracks"`
	SpotifyURL  string `json:"spotifyUrl"`
	AlbumType   string `json:"albumType"`
}
