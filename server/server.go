package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"rhythmbox/cache"
	"rhythmbox/config"
	"rhythmbox/core/session"
	"rhythmbox/core/spotify"
	"rhythmbox/logger"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to Redis
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer cache.CloseRedis()
	logger.Info("Successfully connected to Redis")

	cacheManager := cache.NewManager(cache.RedisClient)
	sessions := session.NewStore(cache.RedisClient, cfg.SessionLifetime)
	cookies := session.NewCookieCodec(cfg.SessionSecret, cfg.SessionLifetime, cfg.CookieSecure)
	spotifyClient := spotify.NewClient(cfg)

	apiHandler := NewAPIHandler(spotifyClient, sessions, cookies, cacheManager, cfg)

	router := mux.NewRouter()

	// CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})
	router.Use(RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst))
	router.Use(LoggingMiddleware)

	// Auth endpoints
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/callback", apiHandler.CallbackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/logout", apiHandler.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", apiHandler.AuthMiddleware(apiHandler.MeHandler)).Methods(http.MethodGet)

	// Favorites endpoints
	router.HandleFunc("/api/favorites", apiHandler.AuthMiddleware(apiHandler.GetFavoritesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites/state", apiHandler.AuthMiddleware(apiHandler.FavoritesStateHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites/html", apiHandler.AuthMiddleware(apiHandler.FavoritesHTMLHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites/artists", apiHandler.AuthMiddleware(apiHandler.FavoriteArtistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites/contains", apiHandler.AuthMiddleware(apiHandler.ContainsFavoritesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites/preferences/artist", apiHandler.AuthMiddleware(apiHandler.GetArtistPreferenceHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites/preferences/artist", apiHandler.AuthMiddleware(apiHandler.SetArtistPreferenceHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/favorites/add/{id}", apiHandler.AuthMiddleware(apiHandler.AddFavoriteHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/favorites/remove/{id}", apiHandler.AuthMiddleware(apiHandler.RemoveFavoriteHandler)).Methods(http.MethodPost)

	// Search and artist endpoints
	router.HandleFunc("/api/search", apiHandler.SearchHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}", apiHandler.ArtistHandler).Methods(http.MethodGet)

	// Playlist endpoints
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.GetPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.RenamePlaylistHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/tracks", apiHandler.AuthMiddleware(apiHandler.AddPlaylistTracksHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/tracks/{track_id}", apiHandler.AuthMiddleware(apiHandler.RemovePlaylistTrackHandler)).Methods(http.MethodDelete)

	// Health and cache maintenance
	router.HandleFunc("/api/health", apiHandler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/cache/stats", apiHandler.CacheStatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/cache/clear", apiHandler.CacheClearHandler).Methods(http.MethodPost)

	// Static assets (placeholder cover art lives here)
	staticFileServer := http.FileServer(http.Dir("static"))
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", staticFileServer))

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
