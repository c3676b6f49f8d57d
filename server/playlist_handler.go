package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"rhythmbox/cache"
	"rhythmbox/core/spotify"
	"rhythmbox/logger"
	"rhythmbox/model"
	"rhythmbox/validate"
)

// PlaylistsResponse lists the user's playlists.
type PlaylistsResponse struct {
	Success   bool             `json:"success"`
	Playlists []model.Playlist `json:"playlists,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// PlaylistDetailResponse wraps one playlist with its tracks.
type PlaylistDetailResponse struct {
	Success  bool                    `json:"success"`
	Playlist *spotify.PlaylistDetail `json:"playlist,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// DeletePlaylistResponse confirms which playlist was removed.
type DeletePlaylistResponse struct {
	Success    bool   `json:"success"`
	PlaylistID string `json:"playlistId,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (h *APIHandler) invalidatePlaylists(r *http.Request) {
	h.cache.DeletePattern(r.Context(), "rhythmbox:playlist:*")
}

// GetPlaylistsHandler returns the user's playlists.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	cacheKey := h.cache.Key("playlist", sess.UserID, "list")
	var cached PlaylistsResponse
	if h.cache.Get(r.Context(), cacheKey, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	playlists, err := h.spotify.UserPlaylists(r.Context(), sess.Token)
	if err != nil {
		logger.Error("playlist list failed", logger.ErrorField(err))
		writeJSON(w, apiStatus(err), PlaylistsResponse{Success: false, Error: "Could not load playlists"})
		return
	}

	resp := PlaylistsResponse{Success: true, Playlists: playlists}
	h.cache.Set(r.Context(), cacheKey, resp, cache.TTLPlaylist)
	writeJSON(w, http.StatusOK, resp)
}

// GetPlaylistHandler returns one playlist with its tracks.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	playlistID := mux.Vars(r)["id"]
	if err := validate.TrackID(playlistID); err != nil {
		writeJSON(w, http.StatusBadRequest, PlaylistDetailResponse{Success: false, Error: "Invalid playlist ID"})
		return
	}

	cacheKey := h.cache.Key("playlist", sess.UserID, playlistID)
	var cached PlaylistDetailResponse
	if h.cache.Get(r.Context(), cacheKey, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	detail, err := h.spotify.Playlist(r.Context(), sess.Token, playlistID)
	if err != nil {
		logger.Error("playlist fetch failed", logger.ErrorField(err))
		writeJSON(w, apiStatus(err), PlaylistDetailResponse{Success: false, Error: "Playlist not found"})
		return
	}

	resp := PlaylistDetailResponse{Success: true, Playlist: detail}
	h.cache.Set(r.Context(), cacheKey, resp, cache.TTLPlaylist)
	writeJSON(w, http.StatusOK, resp)
}

type createPlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePlaylistHandler creates a private playlist for the user.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name, err := validate.PlaylistName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	playlist, err := h.spotify.CreatePlaylist(r.Context(), sess.Token, sess.UserID, name, req.Description)
	if err != nil {
		logger.Error("playlist create failed", logger.ErrorField(err))
		writeError(w, apiStatus(err), "Could not create playlist")
		return
	}

	h.invalidatePlaylists(r)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"playlist": playlist,
	})
}

type renamePlaylistRequest struct {
	Name string `json:"name"`
}

// RenamePlaylistHandler renames a playlist.
func (h *APIHandler) RenamePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	playlistID := mux.Vars(r)["id"]
	if err := validate.TrackID(playlistID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	var req renamePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name, err := validate.PlaylistName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	if err := h.spotify.RenamePlaylist(r.Context(), sess.Token, playlistID, name); err != nil {
		logger.Error("playlist rename failed", logger.ErrorField(err))
		writeError(w, apiStatus(err), "Could not rename playlist")
		return
	}

	h.invalidatePlaylists(r)
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Message: "Playlist renamed"})
}

// DeletePlaylistHandler unfollows a playlist, which is how the vendor
// models deletion. The response names the removed playlist so the
// caller updates its own state from the confirmation, not optimistically.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	playlistID := mux.Vars(r)["id"]
	if err := validate.TrackID(playlistID); err != nil {
		writeJSON(w, http.StatusBadRequest, DeletePlaylistResponse{Success: false, Error: "Invalid playlist ID"})
		return
	}

	if err := h.spotify.UnfollowPlaylist(r.Context(), sess.Token, playlistID); err != nil {
		logger.Error("playlist delete failed", logger.ErrorField(err))
		writeJSON(w, apiStatus(err), DeletePlaylistResponse{Success: false, Error: "Could not delete playlist"})
		return
	}

	h.invalidatePlaylists(r)
	writeJSON(w, http.StatusOK, DeletePlaylistResponse{Success: true, PlaylistID: playlistID})
}

type addTracksRequest struct {
	TrackIDs []string `json:"trackIds"`
}

// AddPlaylistTracksHandler appends tracks to a playlist.
func (h *APIHandler) AddPlaylistTracksHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	playlistID := mux.Vars(r)["id"]
	if err := validate.TrackID(playlistID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}

	var req addTracksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.TrackIDs) == 0 {
		writeError(w, http.StatusBadRequest, "No track IDs given")
		return
	}

	uris := make([]string, 0, len(req.TrackIDs))
	for _, id := range req.TrackIDs {
		if err := validate.TrackID(id); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid track ID: "+id)
			return
		}
		uris = append(uris, "spotify:track:"+id)
	}

	if err := h.spotify.AddTracksToPlaylist(r.Context(), sess.Token, playlistID, uris); err != nil {
		logger.Error("playlist add tracks failed", logger.ErrorField(err))
		writeError(w, apiStatus(err), "Could not add tracks")
		return
	}

	h.invalidatePlaylists(r)
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Message: "Tracks added to playlist"})
}

// RemovePlaylistTrackHandler removes one track from a playlist.
func (h *APIHandler) RemovePlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	vars := mux.Vars(r)
	playlistID := vars["id"]
	trackID := vars["track_id"]
	if err := validate.TrackID(playlistID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid playlist ID")
		return
	}
	if err := validate.TrackID(trackID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	if err := h.spotify.RemovePlaylistTrack(r.Context(), sess.Token, playlistID, "spotify:track:"+trackID); err != nil {
		logger.Error("playlist remove track failed", logger.ErrorField(err))
		writeError(w, apiStatus(err), "Could not remove track")
		return
	}

	h.invalidatePlaylists(r)
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Message: "Track removed from playlist"})
}
