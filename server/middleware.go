package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"rhythmbox/core/session"
	"rhythmbox/logger"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext returns the session placed by AuthMiddleware.
func SessionFromContext(ctx context.Context) (*session.Session, error) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok || sess == nil {
		return nil, errors.New("no session in context")
	}
	return sess, nil
}

// AuthMiddleware resolves the session cookie, refreshes an expired
// vendor token in place, and passes the session down via context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, err := h.cookies.Read(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		sess, err := h.sessions.Get(r.Context(), sid)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.Error("session lookup failed", logger.ErrorField(err))
			}
			h.cookies.Clear(w)
			writeError(w, http.StatusUnauthorized, "Session expired")
			return
		}

		if sess.Token != nil && !sess.Token.Valid() {
			fresh, err := h.spotify.Refresh(r.Context(), sess.Token)
			if err != nil {
				logger.Warn("token refresh failed",
					logger.String("sessionId", sess.ID),
					logger.ErrorField(err))
				h.cookies.Clear(w)
				writeError(w, http.StatusUnauthorized, "Session expired")
				return
			}
			sess.Token = fresh
			if err := h.sessions.UpdateToken(r.Context(), sess.ID, fresh); err != nil {
				logger.Error("session token update failed", logger.ErrorField(err))
			}
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next(w, r.WithContext(ctx))
	}
}

// ipLimiter hands out one token bucket per client IP. Idle entries are
// swept so the map does not grow without bound.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	rate     rate.Limit
	burst    int
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	l := &ipLimiter{
		limiters: make(map[string]*ipEntry),
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
	go l.sweep()
	return l
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (l *ipLimiter) sweep() {
	for range time.Tick(5 * time.Minute) {
		l.mu.Lock()
		for ip, entry := range l.limiters {
			if time.Since(entry.lastSeen) > 10*time.Minute {
				delete(l.limiters, ip)
			}
		}
		l.mu.Unlock()
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware rejects clients that exceed the configured
// per-IP request rate.
func RateLimitMiddleware(perMinute, burst int) func(http.Handler) http.Handler {
	limiter := newIPLimiter(perMinute, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.get(clientIP(r)).Allow() {
				writeError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs every request with its duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request handled",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Duration("duration", time.Since(start)))
	})
}
