package spotify

import (
	"strings"

	"rhythmbox/model"
)

// Wire shapes for the Spotify Web API, see
// https://developer.spotify.com/documentation/web-api/reference/

type imageObject struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type artistObject struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Genres       []string     `json:"genres"`
	Popularity   int          `json:"popularity"`
	Images       []imageObject `json:"images"`
	ExternalURLs externalURLs `json:"external_urls"`
	Followers    struct {
		Total int `json:"total"`
	} `json:"followers"`
}

type albumObject struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Images []imageObject `json:"images"`
}

type trackObject struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Artists      []artistObject `json:"artists"`
	Album        albumObject    `json:"album"`
	PreviewURL   string         `json:"preview_url"`
	ExternalURLs externalURLs   `json:"external_urls"`
}

type savedTrackObject struct {
	AddedAt string      `json:"added_at"`
	Track   trackObject `json:"track"`
}

type pagingObject struct {
	Items  []savedTrackObject `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
	Next   *string            `json:"next"`
}

type playlistObject struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Images      []imageObject `json:"images"`
	Tracks      struct {
		Total int `json:"total"`
		Items []struct {
			Track trackObject `json:"track"`
		} `json:"items"`
	} `json:"tracks"`
}

// toTrack converts a vendor track object into the domain model. Artist
// names are joined with ", ", matching the display string the filters
// later split apart.
func toTrack(t trackObject) model.Track {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}

	imageURL := ""
	if len(t.Album.Images) > 0 {
		imageURL = t.Album.Images[0].URL
	}

	return model.Track{
		ID:         t.ID,
		Name:       t.Name,
		Artist:     strings.Join(names, ", "),
		Album:      t.Album.Name,
		ImageURL:   imageURL,
		SpotifyURL: t.ExternalURLs.Spotify,
		PreviewURL: t.PreviewURL,
	}
}

func toArtist(a artistObject) model.Artist {
	imageURL := ""
	if len(a.Images) > 0 {
		imageURL = a.Images[0].URL
	}

	return model.Artist{
		ID:         a.ID,
		Name:       a.Name,
		ImageURL:   imageURL,
		Genres:     a.Genres,
		Popularity: a.Popularity,
		Followers:  a.Followers.Total,
		SpotifyURL: a.ExternalURLs.Spotify,
	}
}

func toPlaylist(p playlistObject) model.Playlist {
	imageURL := ""
	if len(p.Images) > 0 {
		imageURL = p.Images[0].URL
	}

	return model.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		TrackCount:  p.Tracks.Total,
		ImageURL:    imageURL,
	}
}
