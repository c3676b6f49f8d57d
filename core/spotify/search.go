package spotify

import (
	"context"
	"fmt"
	"net/url"

	"rhythmbox/model"
)

// SearchTracks searches the public catalog for tracks.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]model.Track, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > maxTracksPerRequest {
		limit = maxTracksPerRequest
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var result struct {
		Tracks struct {
			Items []trackObject `json:"items"`
		} `json:"tracks"`
	}
	if err := c.do(ctx, nil, "GET", endpoint, nil, &result); err != nil {
		return nil, err
	}

	tracks := make([]model.Track, 0, len(result.Tracks.Items))
	for _, item := range result.Tracks.Items {
		tracks = append(tracks, toTrack(item))
	}
	return tracks, nil
}

// SearchArtists searches the public catalog for artists.
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) ([]model.Artist, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > maxTracksPerRequest {
		limit = maxTracksPerRequest
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=artist&limit=%d", url.QueryEscape(query), limit)

	var result struct {
		Artists struct {
			Items []artistObject `json:"items"`
		} `json:"artists"`
	}
	if err := c.do(ctx, nil, "GET", endpoint, nil, &result); err != nil {
		return nil, err
	}

	artists := make([]model.Artist, 0, len(result.Artists.Items))
	for _, item := range result.Artists.Items {
		artists = append(artists, toArtist(item))
	}
	return artists, nil
}

// ArtistDetails fetches the full profile of one artist.
func (c *Client) ArtistDetails(ctx context.Context, artistID string) (*model.Artist, error) {
	var result artistObject
	if err := c.do(ctx, nil, "GET", "/artists/"+url.PathEscape(artistID), nil, &result); err != nil {
		return nil, err
	}

	artist := toArtist(result)
	return &artist, nil
}

// ArtistTopTracks fetches an artist's most played tracks for a market.
func (c *Client) ArtistTopTracks(ctx context.Context, artistID, market string) ([]model.Track, error) {
	if market == "" {
		market = "BR"
	}

	endpoint := fmt.Sprintf("/artists/%s/top-tracks?market=%s", url.PathEscape(artistID), url.QueryEscape(market))

	var result struct {
		Tracks []trackObject `json:"tracks"`
	}
	if err := c.do(ctx, nil, "GET", endpoint, nil, &result); err != nil {
		return nil, err
	}

	tracks := make([]model.Track, 0, len(result.Tracks))
	for _, item := range result.Tracks {
		tracks = append(tracks, toTrack(item))
	}
	return tracks, nil
}

// RelatedArtists fetches artists similar to the given one, capped at limit.
func (c *Client) RelatedArtists(ctx context.Context, artistID string, limit int) ([]model.Artist, error) {
	var result struct {
		Artists []artistObject `json:"artists"`
	}
	if err := c.do(ctx, nil, "GET", "/artists/"+url.PathEscape(artistID)+"/related-artists", nil, &result); err != nil {
		return nil, err
	}

	if limit > 0 && len(result.Artists) > limit {
		result.Artists = result.Artists[:limit]
	}

	artists := make([]model.Artist, 0, len(result.Artists))
	for _, item := range result.Artists {
		artists = append(artists, toArtist(item))
	}
	return artists, nil
}
