package server

import (
	"errors"
	"net/http"

	"rhythmbox/core/session"
	"rhythmbox/logger"
	"rhythmbox/model"
)

// LoginHandler starts the vendor OAuth flow.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.NewState(r.Context())
	if err != nil {
		logger.Error("oauth state creation failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Login unavailable")
		return
	}
	http.Redirect(w, r, h.spotify.AuthURL(state), http.StatusFound)
}

// CallbackHandler finishes the OAuth flow: state check, code exchange,
// session creation, cookie.
func (h *APIHandler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		logger.Warn("oauth denied", logger.String("reason", errMsg))
		http.Redirect(w, r, "/?login=denied", http.StatusFound)
		return
	}

	if err := h.sessions.ConsumeState(r.Context(), r.URL.Query().Get("state")); err != nil {
		if errors.Is(err, session.ErrInvalidState) {
			writeError(w, http.StatusBadRequest, "Invalid login state")
			return
		}
		logger.Error("oauth state check failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	tok, err := h.spotify.Exchange(r.Context(), code)
	if err != nil {
		logger.Error("oauth exchange failed", logger.ErrorField(err))
		writeError(w, http.StatusBadGateway, "Login failed")
		return
	}

	user, err := h.spotify.CurrentUser(r.Context(), tok)
	if err != nil {
		logger.Error("profile fetch failed", logger.ErrorField(err))
		writeError(w, http.StatusBadGateway, "Login failed")
		return
	}

	sess, err := h.sessions.Create(r.Context(), user.ID, user.DisplayName, tok)
	if err != nil {
		logger.Error("session creation failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := h.cookies.Write(w, sess.ID); err != nil {
		logger.Error("session cookie write failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// LogoutHandler drops the session and clears the cookie.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if sid, err := h.cookies.Read(r); err == nil {
		if err := h.sessions.Delete(r.Context(), sid); err != nil {
			logger.Warn("session delete failed", logger.ErrorField(err))
		}
	}
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, model.APIResponse{Success: true, Message: "Logged out"})
}

// MeHandler returns the logged-in user's profile summary.
func (h *APIHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := SessionFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"userId":      sess.UserID,
		"displayName": sess.DisplayName,
	})
}
