package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"rhythmbox/cache"
	"rhythmbox/core/favorites"
	"rhythmbox/logger"
	"rhythmbox/model"
	"rhythmbox/validate"
)

// libraryFor binds the request's session token to a favorites service.
func (h *APIHandler) libraryFor(r *http.Request) (*favorites.Service, string, error) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		return nil, "", err
	}
	lib := &spotifyLibrary{client: h.spotify, tok: sess.Token}
	return favorites.NewService(lib), sess.UserID, nil
}

func parseListParams(r *http.Request) (page, limit int, sortKey string) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	limit = favorites.MinPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	sortKey = r.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = favorites.SortDefault
	}
	return page, limit, sortKey
}

// GetFavoritesHandler returns one page of the user's favorites.
func (h *APIHandler) GetFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	svc, userID, err := h.libraryFor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	page, limit, sortKey := parseListParams(r)
	if !favorites.ValidSort(sortKey) {
		writeError(w, http.StatusBadRequest, "Invalid sort key")
		return
	}
	limit = favorites.ClampPageSize(limit)

	cacheKey := h.cache.Key("favorites", userID,
		strconv.Itoa(page), strconv.Itoa(limit), sortKey)
	var cached model.FavoritesPage
	if h.cache.Get(r.Context(), cacheKey, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := svc.List(r.Context(), page, limit, sortKey)
	if err != nil {
		logger.Error("favorites fetch failed", logger.ErrorField(err))
		writeJSON(w, apiStatus(err), model.FavoritesPage{Success: false, Error: err.Error()})
		return
	}

	resp := model.FavoritesPage{
		Success:    true,
		Tracks:     result.Tracks,
		Page:       result.Page,
		Limit:      limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}
	h.cache.Set(r.Context(), cacheKey, resp, cache.TTLFavorites)
	writeJSON(w, http.StatusOK, resp)
}

// FavoritesStateHandler returns the initial view snapshot: paging
// defaults, the library total and the persisted artist filter. Browsers
// bootstrap their view state from this before the first page load.
func (h *APIHandler) FavoritesStateHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	total, err := h.spotify.TotalSavedTracks(r.Context(), sess.Token)
	if err != nil {
		logger.Error("favorites total probe failed", logger.ErrorField(err))
		writeError(w, apiStatus(err), "Could not load favorites state")
		return
	}

	artist, err := h.sessions.PrefsFor(sess.UserID).SelectedArtist(r.Context())
	if err != nil {
		logger.Warn("preference lookup failed", logger.ErrorField(err))
		artist = ""
	}
	if artist == "" {
		artist = favorites.AllArtists
	}

	limit := favorites.MinPageSize
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"page":           1,
		"limit":          limit,
		"total":          total,
		"totalPages":     favorites.TotalPagesFor(total, limit),
		"sort":           favorites.SortDefault,
		"selectedArtist": artist,
	})
}

// FavoritesHTMLHandler returns one page of favorites pre-rendered as
// HTML cards, already filtered by artist and search term.
func (h *APIHandler) FavoritesHTMLHandler(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.libraryFor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	page, limit, sortKey := parseListParams(r)
	result, err := svc.List(r.Context(), page, limit, sortKey)
	if err != nil {
		logger.Error("favorites fetch failed", logger.ErrorField(err))
		writeError(w, apiStatus(err), "Could not load favorites")
		return
	}

	artist := favorites.Fold(r.URL.Query().Get("artist"))
	if artist == "" {
		artist = favorites.AllArtists
	}
	term := favorites.Fold(r.URL.Query().Get("q"))

	visible := result.Tracks[:0:0]
	for _, t := range result.Tracks {
		if favorites.Visible(t, term, artist) {
			visible = append(visible, t)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := favorites.RenderTracks(w, visible); err != nil {
		logger.Error("favorites render failed", logger.ErrorField(err))
	}
}

// AddFavoriteHandler saves a track; saving a track that is already a
// favorite succeeds with a message instead of failing.
func (h *APIHandler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.libraryFor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	trackID := mux.Vars(r)["id"]
	if err := validate.TrackID(trackID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	sess, _ := SessionFromContext(r.Context())
	existing, err := h.spotify.ContainsSavedTracks(r.Context(), sess.Token, []string{trackID})
	if err == nil && len(existing) == 1 && existing[0] {
		writeJSON(w, http.StatusOK, model.APIResponse{
			Success: true,
			Message: "Track is already in your favorites",
		})
		return
	}

	if err := svc.Add(r.Context(), trackID); err != nil {
		logger.Error("favorite add failed", logger.ErrorField(err))
		writeJSON(w, apiStatus(err), model.APIResponse{
			Success: false,
			Message: vendorMessage(err, "Could not add favorite"),
		})
		return
	}

	h.cache.InvalidateFavorites(r.Context())
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Message: "Track added to favorites"})
}

// RemoveFavoriteHandler deletes a track from the favorites.
func (h *APIHandler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	svc, _, err := h.libraryFor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	trackID := mux.Vars(r)["id"]
	if err := validate.TrackID(trackID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	if err := svc.Remove(r.Context(), trackID); err != nil {
		logger.Error("favorite remove failed", logger.ErrorField(err))
		writeJSON(w, apiStatus(err), model.APIResponse{
			Success: false,
			Message: vendorMessage(err, "Could not remove favorite"),
		})
		return
	}

	h.cache.InvalidateFavorites(r.Context())
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Message: "Track removed from favorites"})
}

// FavoriteArtistsHandler returns the normalized artist list extracted
// from the whole library.
func (h *APIHandler) FavoriteArtistsHandler(w http.ResponseWriter, r *http.Request) {
	svc, userID, err := h.libraryFor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	cacheKey := h.cache.Key("favorites", userID, "artists")
	var cached model.ArtistsResponse
	if h.cache.Get(r.Context(), cacheKey, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	artists, err := svc.Artists(r.Context())
	if err != nil {
		logger.Error("artist extraction failed", logger.ErrorField(err))
		writeError(w, apiStatus(err), "Could not load artists")
		return
	}

	resp := model.ArtistsResponse{Success: true, Artists: artists}
	h.cache.Set(r.Context(), cacheKey, resp, cache.TTLFavorites)
	writeJSON(w, http.StatusOK, resp)
}

// ContainsFavoritesHandler checks which of the given IDs are saved.
func (h *APIHandler) ContainsFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	raw := strings.Split(r.URL.Query().Get("ids"), ",")
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if err := validate.TrackID(id); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid track ID: "+id)
			return
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "No track IDs given")
		return
	}

	saved, err := h.spotify.ContainsSavedTracks(r.Context(), sess.Token, ids)
	if err != nil {
		logger.Error("favorites check failed", logger.ErrorField(err))
		writeError(w, apiStatus(err), "Could not check favorites")
		return
	}

	result := make(map[string]bool, len(ids))
	for i, id := range ids {
		result[id] = saved[i]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"saved":   result,
	})
}

// GetArtistPreferenceHandler returns the persisted artist filter.
func (h *APIHandler) GetArtistPreferenceHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	artist, err := h.sessions.PrefsFor(sess.UserID).SelectedArtist(r.Context())
	if err != nil {
		logger.Error("preference lookup failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Could not load preference")
		return
	}
	if artist == "" {
		artist = favorites.AllArtists
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"artist":  artist,
	})
}

// SetArtistPreferenceHandler persists the artist filter.
func (h *APIHandler) SetArtistPreferenceHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	artist := favorites.Fold(r.URL.Query().Get("artist"))
	prefs := h.sessions.PrefsFor(sess.UserID)
	if artist == "" || artist == favorites.AllArtists {
		err = prefs.SetSelectedArtist(r.Context(), "")
	} else {
		err = prefs.SetSelectedArtist(r.Context(), artist)
	}
	if err != nil {
		logger.Error("preference store failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Could not save preference")
		return
	}
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true})
}
