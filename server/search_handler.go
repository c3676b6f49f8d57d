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

const defaultSearchLimit = 20

// SearchResponse is the envelope for catalog search results. Track mode
// fills Tracks; artist mode fills Artist (the main hit), Tracks (the main
// hit's top tracks), Artists (all hits) and Related.
type SearchResponse struct {
	Success bool           `json:"success"`
	Tracks  []model.Track  `json:"tracks,omitempty"`
	Artist  *model.Artist  `json:"artist,omitempty"`
	Artists []model.Artist `json:"artists,omitempty"`
	Related []model.Artist `json:"related,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// SearchHandler searches the vendor catalog for tracks or artists.
func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query, err := validate.Query(r.URL.Query().Get("q"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, SearchResponse{
			Success: false,
			Error:   "Please provide a search query",
		})
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "track"
	}
	if mode != "track" && mode != "artist" {
		writeJSON(w, http.StatusBadRequest, SearchResponse{
			Success: false,
			Error:   "Search mode must be track or artist",
		})
		return
	}

	limit := defaultSearchLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 50 {
		limit = v
	}

	cacheKey := h.cache.Key("search", mode, query, strconv.Itoa(limit))
	var cached SearchResponse
	if h.cache.Get(r.Context(), cacheKey, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	var resp SearchResponse
	switch mode {
	case "artist":
		resp, err = h.searchArtistMode(r, query, limit)
		if err != nil {
			logger.Error("artist search failed", logger.ErrorField(err))
			writeJSON(w, apiStatus(err), SearchResponse{Success: false, Error: "Search failed"})
			return
		}
	default:
		tracks, err := h.spotify.SearchTracks(r.Context(), query, limit)
		if err != nil {
			logger.Error("track search failed", logger.ErrorField(err))
			writeJSON(w, apiStatus(err), SearchResponse{Success: false, Error: "Search failed"})
			return
		}
		resp = SearchResponse{Success: true, Tracks: tracks}
	}

	h.cache.Set(r.Context(), cacheKey, resp, cache.TTLSearch)
	writeJSON(w, http.StatusOK, resp)
}

// searchArtistMode resolves the main artist for a query and bundles their
// top tracks and related artists with the raw hit list. Top tracks are
// kept only when the main artist actually appears on them, so featured
// guest spots by other artists do not leak in.
func (h *APIHandler) searchArtistMode(r *http.Request, query string, limit int) (SearchResponse, error) {
	artists, err := h.spotify.SearchArtists(r.Context(), query, limit)
	if err != nil {
		return SearchResponse{}, err
	}
	if len(artists) == 0 {
		return SearchResponse{Success: true}, nil
	}

	main := artists[0]
	resp := SearchResponse{Success: true, Artist: &main, Artists: artists}

	tracks, err := h.spotify.ArtistTopTracks(r.Context(), main.ID, r.URL.Query().Get("market"))
	if err != nil {
		logger.Warn("top tracks fetch failed", logger.ErrorField(err))
	} else {
		mainName := favorites.Fold(main.Name)
		for _, t := range tracks {
			if strings.Contains(favorites.Fold(t.Artist), mainName) {
				resp.Tracks = append(resp.Tracks, t)
			}
		}
	}

	related, err := h.spotify.RelatedArtists(r.Context(), main.ID, 10)
	if err != nil {
		logger.Warn("related artists fetch failed", logger.ErrorField(err))
	} else {
		resp.Related = related
	}

	return resp, nil
}

// ArtistResponse bundles an artist's details with their top tracks and
// related artists.
type ArtistResponse struct {
	Success bool           `json:"success"`
	Artist  *model.Artist  `json:"artist,omitempty"`
	Tracks  []model.Track  `json:"tracks,omitempty"`
	Related []model.Artist `json:"related,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ArtistHandler returns one artist's details, top tracks and related
// artists in a single response.
func (h *APIHandler) ArtistHandler(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["id"]
	if err := validate.TrackID(artistID); err != nil {
		writeJSON(w, http.StatusBadRequest, ArtistResponse{Success: false, Error: "Invalid artist ID"})
		return
	}

	market := r.URL.Query().Get("market")

	cacheKey := h.cache.Key("artist", artistID, market)
	var cached ArtistResponse
	if h.cache.Get(r.Context(), cacheKey, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	artist, err := h.spotify.ArtistDetails(r.Context(), artistID)
	if err != nil {
		logger.Error("artist fetch failed", logger.ErrorField(err))
		writeJSON(w, apiStatus(err), ArtistResponse{Success: false, Error: "Artist not found"})
		return
	}

	tracks, err := h.spotify.ArtistTopTracks(r.Context(), artistID, market)
	if err != nil {
		logger.Warn("top tracks fetch failed", logger.ErrorField(err))
		tracks = nil
	}

	related, err := h.spotify.RelatedArtists(r.Context(), artistID, 10)
	if err != nil {
		logger.Warn("related artists fetch failed", logger.ErrorField(err))
		related = nil
	}

	resp := ArtistResponse{
		Success: true,
		Artist:  artist,
		Tracks:  tracks,
		Related: related,
	}
	h.cache.Set(r.Context(), cacheKey, resp, cache.TTLArtistDetails)
	writeJSON(w, http.StatusOK, resp)
}
