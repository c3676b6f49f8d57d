package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"rhythmbox/model"

	"golang.org/x/oauth2"
)

// User is the authenticated user's vendor profile.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// CurrentUser fetches the profile of the token's owner.
func (c *Client) CurrentUser(ctx context.Context, tok *oauth2.Token) (*User, error) {
	var user User
	if err := c.do(ctx, tok, "GET", "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists lists the playlists owned or followed by the user.
func (c *Client) UserPlaylists(ctx context.Context, tok *oauth2.Token) ([]model.Playlist, error) {
	var result struct {
		Items []playlistObject `json:"items"`
	}
	if err := c.do(ctx, tok, "GET", "/me/playlists?limit=50", nil, &result); err != nil {
		return nil, err
	}

	playlists := make([]model.Playlist, 0, len(result.Items))
	for _, item := range result.Items {
		playlists = append(playlists, toPlaylist(item))
	}
	return playlists, nil
}

// PlaylistDetail is a playlist together with its tracks.
type PlaylistDetail struct {
	model.Playlist
	Tracks []model.Track `json:"tracks"`
}

// Playlist fetches one playlist with its tracks.
func (c *Client) Playlist(ctx context.Context, tok *oauth2.Token, playlistID string) (*PlaylistDetail, error) {
	var result playlistObject
	if err := c.do(ctx, tok, "GET", "/playlists/"+url.PathEscape(playlistID), nil, &result); err != nil {
		return nil, err
	}

	detail := &PlaylistDetail{Playlist: toPlaylist(result)}
	for _, item := range result.Tracks.Items {
		if item.Track.ID == "" {
			continue
		}
		detail.Tracks = append(detail.Tracks, toTrack(item.Track))
	}
	return detail, nil
}

// CreatePlaylist creates a playlist for the user and returns it.
func (c *Client) CreatePlaylist(ctx context.Context, tok *oauth2.Token, userID, name, description string) (*model.Playlist, error) {
	body, err := json.Marshal(map[string]interface{}{
		"name":        name,
		"description": description,
		"public":      false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playlist request: %w", err)
	}

	var result playlistObject
	endpoint := "/users/" + url.PathEscape(userID) + "/playlists"
	if err := c.do(ctx, tok, "POST", endpoint, bytes.NewReader(body), &result); err != nil {
		return nil, err
	}

	playlist := toPlaylist(result)
	return &playlist, nil
}

// RenamePlaylist changes a playlist's name.
func (c *Client) RenamePlaylist(ctx context.Context, tok *oauth2.Token, playlistID, name string) error {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return fmt.Errorf("failed to marshal rename request: %w", err)
	}

	return c.do(ctx, tok, "PUT", "/playlists/"+url.PathEscape(playlistID), bytes.NewReader(body), nil)
}

// UnfollowPlaylist removes the playlist from the user's library. The
// vendor has no hard delete; unfollowing is how owners delete playlists.
func (c *Client) UnfollowPlaylist(ctx context.Context, tok *oauth2.Token, playlistID string) error {
	return c.do(ctx, tok, "DELETE", "/playlists/"+url.PathEscape(playlistID)+"/followers", nil, nil)
}

// AddTracksToPlaylist appends tracks (by URI) to a playlist.
func (c *Client) AddTracksToPlaylist(ctx context.Context, tok *oauth2.Token, playlistID string, trackURIs []string) error {
	if len(trackURIs) == 0 {
		return fmt.Errorf("no track URIs provided")
	}

	body, err := json.Marshal(map[string]interface{}{"uris": trackURIs})
	if err != nil {
		return fmt.Errorf("failed to marshal add-tracks request: %w", err)
	}

	endpoint := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	return c.do(ctx, tok, "POST", endpoint, bytes.NewReader(body), nil)
}

// RemovePlaylistTrack removes every occurrence of a track from a playlist.
func (c *Client) RemovePlaylistTrack(ctx context.Context, tok *oauth2.Token, playlistID, trackURI string) error {
	body, err := json.Marshal(map[string]interface{}{
		"tracks": []map[string]string{{"uri": trackURI}},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal remove-track request: %w", err)
	}

	endpoint := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	return c.do(ctx, tok, "DELETE", endpoint, bytes.NewReader(body), nil)
}
