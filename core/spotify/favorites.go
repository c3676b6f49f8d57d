package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"rhythmbox/logger"
	"rhythmbox/model"

	"golang.org/x/oauth2"
)

// Vendor limits for the saved-tracks endpoints.
const (
	maxTracksPerRequest = 50
	maxIDsPerCheck      = 50

	// Hard stop for the fetch-all loop so a miscounting vendor response
	// can never spin forever.
	maxSavedTrackPages = 1000
)

// SavedTracksPage is one page of the user's saved tracks plus the
// server-reported total across all pages.
type SavedTracksPage struct {
	Tracks []model.Track
	Total  int
}

// SavedTracks fetches one page of the user's saved tracks. limit is
// clamped to the vendor maximum of 50.
func (c *Client) SavedTracks(ctx context.Context, tok *oauth2.Token, limit, offset int) (*SavedTracksPage, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxTracksPerRequest {
		limit = maxTracksPerRequest
	}
	if offset < 0 {
		offset = 0
	}

	endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", limit, offset)

	var page pagingObject
	if err := c.do(ctx, tok, "GET", endpoint, nil, &page); err != nil {
		return nil, err
	}

	tracks := make([]model.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track.ID == "" {
			// The vendor occasionally returns placeholder items for
			// removed tracks; skip them.
			continue
		}
		tracks = append(tracks, toTrack(item.Track))
	}

	return &SavedTracksPage{Tracks: tracks, Total: page.Total}, nil
}

// AllSavedTracks fetches the user's entire saved-tracks library by paging
// through the vendor API. Slow for large libraries.
func (c *Client) AllSavedTracks(ctx context.Context, tok *oauth2.Token) ([]model.Track, error) {
	var all []model.Track
	offset := 0

	for page := 1; ; page++ {
		result, err := c.SavedTracks(ctx, tok, maxTracksPerRequest, offset)
		if err != nil {
			return nil, err
		}

		all = append(all, result.Tracks...)

		if len(result.Tracks) < maxTracksPerRequest {
			break
		}
		if page >= maxSavedTrackPages {
			logger.Error("saved-tracks page limit exceeded, truncating",
				logger.Int("pages", page), logger.Int("tracks", len(all)))
			break
		}
		offset += maxTracksPerRequest
	}

	logger.Info("loaded full saved-tracks library", logger.Int("tracks", len(all)))
	return all, nil
}

// TotalSavedTracks fetches only the library size using a one-item probe.
func (c *Client) TotalSavedTracks(ctx context.Context, tok *oauth2.Token) (int, error) {
	var page pagingObject
	if err := c.do(ctx, tok, "GET", "/me/tracks?limit=1", nil, &page); err != nil {
		return 0, err
	}
	return page.Total, nil
}

// SaveTrack adds a track to the user's saved tracks.
func (c *Client) SaveTrack(ctx context.Context, tok *oauth2.Token, trackID string) error {
	trackID = strings.TrimSpace(trackID)
	if trackID == "" {
		return fmt.Errorf("track ID must not be empty")
	}

	endpoint := "/me/tracks?ids=" + url.QueryEscape(trackID)
	if err := c.do(ctx, tok, "PUT", endpoint, nil, nil); err != nil {
		return err
	}

	logger.Info("track saved to favorites", logger.String("trackId", trackID))
	return nil
}

// RemoveSavedTrack removes a track from the user's saved tracks.
func (c *Client) RemoveSavedTrack(ctx context.Context, tok *oauth2.Token, trackID string) error {
	trackID = strings.TrimSpace(trackID)
	if trackID == "" {
		return fmt.Errorf("track ID must not be empty")
	}

	endpoint := "/me/tracks?ids=" + url.QueryEscape(trackID)
	if err := c.do(ctx, tok, "DELETE", endpoint, nil, nil); err != nil {
		return err
	}

	logger.Info("track removed from favorites", logger.String("trackId", trackID))
	return nil
}

// ContainsSavedTracks reports, for each ID, whether it is in the user's
// saved tracks. IDs are checked in vendor-sized chunks of 50.
func (c *Client) ContainsSavedTracks(ctx context.Context, tok *oauth2.Token, trackIDs []string) ([]bool, error) {
	ids := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	results := make([]bool, 0, len(ids))
	for start := 0; start < len(ids); start += maxIDsPerCheck {
		end := start + maxIDsPerCheck
		if end > len(ids) {
			end = len(ids)
		}

		endpoint := "/me/tracks/contains?ids=" + url.QueryEscape(strings.Join(ids[start:end], ","))

		var chunk []bool
		if err := c.do(ctx, tok, "GET", endpoint, nil, &chunk); err != nil {
			return nil, err
		}
		results = append(results, chunk...)
	}

	return results, nil
}
