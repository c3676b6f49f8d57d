package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"rhythmbox/config"
)

func testToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: "test-access-token",
		Expiry:      time.Now().Add(time.Hour),
	}
}

func testClient(apiURL string) *Client {
	return NewClient(&config.Config{
		SpotifyClientID:     "client-id",
		SpotifyClientSecret: "client-secret",
		SpotifyRedirectURL:  "http://localhost/callback",
		SpotifyAPIURL:       apiURL,
		SpotifyAccountsURL:  "http://localhost/accounts",
	})
}

func trackJSON(id, name, artist string) map[string]interface{} {
	return map[string]interface{}{
		"id":   id,
		"name": name,
		"artists": []map[string]interface{}{
			{"id": "artist-" + id, "name": artist},
		},
		"album": map[string]interface{}{
			"id":   "album-" + id,
			"name": "Album " + name,
			"images": []map[string]interface{}{
				{"url": "https://img.example/" + id + ".jpg", "height": 640, "width": 640},
			},
		},
		"external_urls": map[string]string{"spotify": "https://open.spotify.com/track/" + id},
	}
}

func TestSavedTracks(t *testing.T) {
	var gotAuth, gotLimit, gotOffset string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/tracks" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotLimit = r.URL.Query().Get("limit")
		gotOffset = r.URL.Query().Get("offset")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"total": 45,
			"items": []map[string]interface{}{
				{"added_at": "2026-01-01T00:00:00Z", "track": trackJSON("a1", "Song One", "Anitta")},
				{"added_at": "2026-01-02T00:00:00Z", "track": trackJSON("a2", "Song Two", "Gilberto Gil")},
			},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	page, err := client.SavedTracks(context.Background(), testToken(), 20, 40)
	if err != nil {
		t.Fatalf("SavedTracks: %v", err)
	}

	if gotAuth != "Bearer test-access-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotLimit != "20" || gotOffset != "40" {
		t.Errorf("limit=%s offset=%s", gotLimit, gotOffset)
	}
	if page.Total != 45 {
		t.Errorf("Total = %d, want 45", page.Total)
	}
	if len(page.Tracks) != 2 {
		t.Fatalf("len(tracks) = %d, want 2", len(page.Tracks))
	}

	first := page.Tracks[0]
	if first.ID != "a1" || first.Name != "Song One" || first.Artist != "Anitta" {
		t.Errorf("track = %+v", first)
	}
	if first.ImageURL != "https://img.example/a1.jpg" {
		t.Errorf("ImageURL = %q", first.ImageURL)
	}
}

func TestSavedTracksClampsLimit(t *testing.T) {
	var gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		json.NewEncoder(w).Encode(map[string]interface{}{"total": 0, "items": []interface{}{}})
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.SavedTracks(context.Background(), testToken(), 500, 0); err != nil {
		t.Fatalf("SavedTracks: %v", err)
	}
	if gotLimit != "50" {
		t.Errorf("limit = %s, want vendor maximum 50", gotLimit)
	}
}

func TestSavedTracksSkipsPlaceholders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total": 2,
			"items": []map[string]interface{}{
				{"added_at": "2026-01-01T00:00:00Z", "track": map[string]interface{}{"id": "", "name": ""}},
				{"added_at": "2026-01-02T00:00:00Z", "track": trackJSON("a2", "Song", "Artist")},
			},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	page, err := client.SavedTracks(context.Background(), testToken(), 20, 0)
	if err != nil {
		t.Fatalf("SavedTracks: %v", err)
	}
	if len(page.Tracks) != 1 || page.Tracks[0].ID != "a2" {
		t.Errorf("tracks = %+v", page.Tracks)
	}
}

func TestAllSavedTracks(t *testing.T) {
	const total = 120
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		items := make([]map[string]interface{}, 0, limit)
		for i := offset; i < offset+limit && i < total; i++ {
			id := fmt.Sprintf("t%03d", i)
			items = append(items, map[string]interface{}{
				"added_at": "2026-01-01T00:00:00Z",
				"track":    trackJSON(id, "Song "+id, "Artist"),
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"total": total, "items": items})
	}))
	defer server.Close()

	client := testClient(server.URL)
	tracks, err := client.AllSavedTracks(context.Background(), testToken())
	if err != nil {
		t.Fatalf("AllSavedTracks: %v", err)
	}
	if len(tracks) != total {
		t.Fatalf("len(tracks) = %d, want %d", len(tracks), total)
	}
	if tracks[0].ID != "t000" || tracks[total-1].ID != "t119" {
		t.Errorf("boundary tracks: %s .. %s", tracks[0].ID, tracks[total-1].ID)
	}
}

func TestTotalSavedTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("limit = %s, want probe of 1", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total": 321,
			"items": []map[string]interface{}{
				{"added_at": "2026-01-01T00:00:00Z", "track": trackJSON("x", "S", "A")},
			},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	total, err := client.TotalSavedTracks(context.Background(), testToken())
	if err != nil {
		t.Fatalf("TotalSavedTracks: %v", err)
	}
	if total != 321 {
		t.Errorf("total = %d, want 321", total)
	}
}

func TestSaveAndRemoveTrack(t *testing.T) {
	var gotMethod, gotIDs string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotIDs = r.URL.Query().Get("ids")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(server.URL)
	ctx := context.Background()

	if err := client.SaveTrack(ctx, testToken(), "6rqhFgbbKwnb9MLmUQDhG6"); err != nil {
		t.Fatalf("SaveTrack: %v", err)
	}
	if gotMethod != http.MethodPut || gotIDs != "6rqhFgbbKwnb9MLmUQDhG6" {
		t.Errorf("save request: %s ids=%s", gotMethod, gotIDs)
	}

	if err := client.RemoveSavedTrack(ctx, testToken(), "6rqhFgbbKwnb9MLmUQDhG6"); err != nil {
		t.Fatalf("RemoveSavedTrack: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("remove method = %s", gotMethod)
	}

	if err := client.SaveTrack(ctx, testToken(), "  "); err == nil {
		t.Error("expected error for empty track ID")
	}
}

func TestContainsSavedTracksChunks(t *testing.T) {
	var requests [][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := r.URL.Query().Get("ids")
		var chunk []string
		if ids != "" {
			chunk = strings.Split(ids, ",")
		}
		requests = append(requests, chunk)

		result := make([]bool, len(chunk))
		for i := range result {
			result[i] = i%2 == 0
		}
		json.NewEncoder(w).Encode(result)
	}))
	defer server.Close()

	ids := make([]string, 120)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%03d", i)
	}

	client := testClient(server.URL)
	saved, err := client.ContainsSavedTracks(context.Background(), testToken(), ids)
	if err != nil {
		t.Fatalf("ContainsSavedTracks: %v", err)
	}

	if len(requests) != 3 {
		t.Errorf("requests = %d, want 3 chunks of at most 50", len(requests))
	}
	if len(saved) != 120 {
		t.Errorf("len(saved) = %d, want 120", len(saved))
	}
	if !saved[0] || saved[1] {
		t.Errorf("saved[0]=%v saved[1]=%v", saved[0], saved[1])
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"status": 429, "message": "API rate limit exceeded"},
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.SavedTracks(context.Background(), testToken(), 20, 0)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Message != "API rate limit exceeded" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}
