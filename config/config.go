package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	Env        string // "development" or "production"
	ListenAddr string

	// Spotify application credentials.
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURL  string
	SpotifyAPIURL       string // overridable so tests can point at a local server
	SpotifyAccountsURL  string

	// Session settings.
	SessionSecret   string
	SessionLifetime time.Duration
	CookieSecure    bool

	// Redis settings.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Logging.
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// Rate limiting (requests per minute per client IP).
	RateLimitPerMinute int
	RateLimitBurst     int

	CORSOrigins string
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	env := getEnv("RHYTHMBOX_ENV", "development")

	cfg := &Config{
		Env:        env,
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyRedirectURL:  getEnv("SPOTIFY_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
		SpotifyAPIURL:       getEnv("SPOTIFY_API_URL", "https://api.spotify.com/v1"),
		SpotifyAccountsURL:  getEnv("SPOTIFY_ACCOUNTS_URL", "https://accounts.spotify.com"),

		SessionSecret:   os.Getenv("SESSION_SECRET"), // better not to have a hardcoded default for secrets
		SessionLifetime: time.Duration(getEnvInt("SESSION_LIFETIME_SECONDS", 3600)) * time.Second,
		CookieSecure:    getEnvBool("COOKIE_SECURE", env == "production"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 10),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}

	// Production logs go to a rotated file unless explicitly overridden.
	if cfg.IsProduction() && cfg.LogPath == "" {
		cfg.LogPath = "logs/rhythmbox.log"
	}

	return cfg
}
