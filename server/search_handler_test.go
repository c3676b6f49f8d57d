package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rhythmbox/cache"
	"rhythmbox/config"
	"rhythmbox/core/session"
	"rhythmbox/core/spotify"
)

// catalogVendor fakes the vendor API plus its token endpoint, since
// catalog search runs on an app token rather than a user session.
func catalogVendor(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "app-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("type") {
		case "artist":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"artists": map[string]interface{}{
					"items": []map[string]interface{}{
						{"id": "2rqhFgbbKwnb9MLmUQDhG6", "name": "Gilberto Gil"},
						{"id": "3rqhFgbbKwnb9MLmUQDhG6", "name": "Gil Scott-Heron"},
					},
				},
			})
		default:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"tracks": map[string]interface{}{
					"items": []map[string]interface{}{
						vendorTrack("6rqhFgbbKwnb9MLmUQDhG6", "Aquele Abraço", "Gilberto Gil"),
					},
				},
			})
		}
	})

	mux.HandleFunc("/artists/2rqhFgbbKwnb9MLmUQDhG6/top-tracks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tracks": []map[string]interface{}{
				vendorTrack("6rqhFgbbKwnb9MLmUQDhG6", "Aquele Abraço", "Gilberto Gil"),
				vendorTrack("1rqhFgbbKwnb9MLmUQDhG6", "Guest Spot", "Somebody Else"),
			},
		})
	})

	mux.HandleFunc("/artists/2rqhFgbbKwnb9MLmUQDhG6/related-artists", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"artists": []map[string]interface{}{
				{"id": "4rqhFgbbKwnb9MLmUQDhG6", "name": "Caetano Veloso"},
			},
		})
	})

	return httptest.NewServer(mux)
}

func catalogAPIHandler(vendorURL string) *APIHandler {
	cfg := &config.Config{
		SpotifyClientID:     "client-id",
		SpotifyClientSecret: "client-secret",
		SpotifyRedirectURL:  "http://localhost/callback",
		SpotifyAPIURL:       vendorURL,
		SpotifyAccountsURL:  vendorURL,
	}
	return NewAPIHandler(
		spotify.NewClient(cfg),
		nil,
		session.NewCookieCodec("test-secret", 0, false),
		cache.NewManager(nil),
		cfg,
	)
}

func TestSearchHandlerTrackMode(t *testing.T) {
	vendor := catalogVendor(t)
	defer vendor.Close()
	h := catalogAPIHandler(vendor.URL)

	rec := httptest.NewRecorder()
	h.SearchHandler(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=abraco", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp SearchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Tracks) != 1 || resp.Tracks[0].Name != "Aquele Abraço" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSearchHandlerArtistMode(t *testing.T) {
	vendor := catalogVendor(t)
	defer vendor.Close()
	h := catalogAPIHandler(vendor.URL)

	rec := httptest.NewRecorder()
	h.SearchHandler(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=gilberto&mode=artist", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp SearchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Artist == nil || resp.Artist.Name != "Gilberto Gil" {
		t.Fatalf("main artist = %+v", resp.Artist)
	}
	if len(resp.Artists) != 2 {
		t.Errorf("hit list = %d, want 2", len(resp.Artists))
	}

	// The guest-spot track by another artist must be filtered out.
	if len(resp.Tracks) != 1 || resp.Tracks[0].ID != "6rqhFgbbKwnb9MLmUQDhG6" {
		t.Errorf("tracks = %+v", resp.Tracks)
	}
	if len(resp.Related) != 1 || resp.Related[0].Name != "Caetano Veloso" {
		t.Errorf("related = %+v", resp.Related)
	}
}

func TestSearchHandlerValidation(t *testing.T) {
	h := catalogAPIHandler("http://vendor.invalid")

	t.Run("missing query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.SearchHandler(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.SearchHandler(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=x&mode=album", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
