package model

// Track represents a track fetched from the streaming vendor.
// Tracks are immutable once fetched; the artist field may carry several
// artist names joined by the vendor with ", ".
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
	SpotifyURL string `json:"spotify_url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// Artist represents an artist profile from the vendor.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ImageURL   string   `json:"image_url,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
	Followers  int      `json:"followers,omitempty"`
	SpotifyURL string   `json:"spotify_url,omitempty"`
	TopTracks  []Track  `json:"top_tracks,omitempty"`
}

// Playlist represents a playlist owned or followed by the user.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	ImageURL    string `json:"image_url,omitempty"`
}
