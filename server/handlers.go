package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"rhythmbox/cache"
	"rhythmbox/config"
	"rhythmbox/core/session"
	"rhythmbox/core/spotify"
	"rhythmbox/logger"
	"rhythmbox/model"
)

// APIHandler carries the shared dependencies for every HTTP handler.
type APIHandler struct {
	spotify  *spotify.Client
	sessions *session.Store
	cookies  *session.CookieCodec
	cache    *cache.Manager
	cfg      *config.Config
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(
	client *spotify.Client,
	sessions *session.Store,
	cookies *session.CookieCodec,
	cacheManager *cache.Manager,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		spotify:  client,
		sessions: sessions,
		cookies:  cookies,
		cache:    cacheManager,
		cfg:      cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.APIResponse{Success: false, Error: msg})
}

// apiStatus maps a vendor error to the status we answer with. Vendor
// 4xx pass through so the browser can react; everything else is a 502.
func apiStatus(err error) int {
	var apiErr *spotify.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
	}
	return http.StatusBadGateway
}

// vendorMessage surfaces the vendor's own failure message when there is
// one, falling back to the generic text for transport errors.
func vendorMessage(err error, fallback string) string {
	var apiErr *spotify.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// spotifyLibrary adapts the vendor client to the favorites library
// interface, binding the session token.
type spotifyLibrary struct {
	client *spotify.Client
	tok    *oauth2.Token
}

func (l *spotifyLibrary) Page(ctx context.Context, limit, offset int) ([]model.Track, int, error) {
	page, err := l.client.SavedTracks(ctx, l.tok, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return page.Tracks, page.Total, nil
}

func (l *spotifyLibrary) All(ctx context.Context) ([]model.Track, error) {
	return l.client.AllSavedTracks(ctx, l.tok)
}

func (l *spotifyLibrary) Total(ctx context.Context) (int, error) {
	return l.client.TotalSavedTracks(ctx, l.tok)
}

func (l *spotifyLibrary) Save(ctx context.Context, trackID string) error {
	return l.client.SaveTrack(ctx, l.tok, trackID)
}

func (l *spotifyLibrary) Remove(ctx context.Context, trackID string) error {
	return l.client.RemoveSavedTrack(ctx, l.tok, trackID)
}

// HealthHandler probes vendor connectivity and reports cache stats.
// Answers 503 when the vendor probe fails so load balancers can react.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":             "healthy",
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"environment":        h.cfg.Env,
		"spotify_connection": "ok",
		"cache":              h.cache.GetStats(r.Context()),
	}

	code := http.StatusOK
	if err := h.spotify.TestConnection(r.Context()); err != nil {
		logger.Warn("health probe failed", logger.ErrorField(err))
		status["status"] = "degraded"
		status["spotify_connection"] = "error"
		status["message"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// CacheStatsHandler returns Redis cache statistics.
func (h *APIHandler) CacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.GetStats(r.Context()))
}

// CacheClearHandler drops every cached application entry.
func (h *APIHandler) CacheClearHandler(w http.ResponseWriter, r *http.Request) {
	n := h.cache.Clear(r.Context())
	logger.Info("cache cleared", logger.Int("keys", n))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cleared": n,
	})
}
