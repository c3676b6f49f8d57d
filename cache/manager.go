package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rhythmbox/logger"

	"github.com/redis/go-redis/v9"
)

// Recommended TTLs for vendor API results. Favorites change often, artist
// metadata barely moves.
const (
	TTLSearch         = 5 * time.Minute
	TTLArtistDetails  = 30 * time.Minute
	TTLTrackDetails   = 30 * time.Minute
	TTLPlaylist       = 10 * time.Minute
	TTLFavorites      = 2 * time.Minute
	TTLRelatedArtists = time.Hour
)

const keyNamespace = "rhythmbox"

// Manager is a Redis-backed cache for vendor API results. A nil client
// disables caching: every Get misses and every Set is a no-op, so callers
// never need to special-case an absent Redis.
type Manager struct {
	client *redis.Client
}

// NewManager creates a cache manager. client may be nil to disable caching.
func NewManager(client *redis.Client) *Manager {
	if client == nil {
		logger.Warn("Redis cache disabled, vendor API results will not be cached")
	}
	return &Manager{client: client}
}

// Enabled reports whether the cache is usable.
func (m *Manager) Enabled(ctx context.Context) bool {
	if m.client == nil {
		return false
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		logger.Error("Redis not available", logger.ErrorField(err))
		return false
	}
	return true
}

// Key builds a namespaced cache key from a prefix and arguments. Arguments
// are joined in order and hashed so keys stay short regardless of query
// length; order matters, since positional values like page and limit are
// only distinguishable by position.
func (m *Manager) Key(prefix string, args ...string) string {
	sum := md5.Sum([]byte(strings.Join(args, "|")))
	return fmt.Sprintf("%s:%s:%s", keyNamespace, prefix, hex.EncodeToString(sum[:])[:16])
}

// Get retrieves a cached value and unmarshals it into dest. It returns
// false on a miss or any error; cache errors never fail the caller.
func (m *Manager) Get(ctx context.Context, key string, dest interface{}) bool {
	if m.client == nil {
		return false
	}

	val, err := m.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Error("failed to read cache", logger.String("key", key), logger.ErrorField(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logger.Error("failed to unmarshal cached value", logger.String("key", key), logger.ErrorField(err))
		return false
	}

	logger.Debug("cache hit", logger.String("key", key))
	return true
}

// Set stores a value with a TTL. Errors are logged and swallowed.
func (m *Manager) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if m.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Error("failed to marshal value for cache", logger.String("key", key), logger.ErrorField(err))
		return
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Error("failed to write cache", logger.String("key", key), logger.ErrorField(err))
	}
}

// DeletePattern removes all keys matching the pattern and returns how many
// were removed. Patterns are Redis glob patterns, e.g. "rhythmbox:favorites:*".
func (m *Manager) DeletePattern(ctx context.Context, pattern string) int {
	if m.client == nil {
		return 0
	}

	keys, err := m.client.Keys(ctx, pattern).Result()
	if err != nil {
		logger.Error("failed to list cache keys", logger.String("pattern", pattern), logger.ErrorField(err))
		return 0
	}
	if len(keys) == 0 {
		return 0
	}

	deleted, err := m.client.Del(ctx, keys...).Result()
	if err != nil {
		logger.Error("failed to delete cache keys", logger.String("pattern", pattern), logger.ErrorField(err))
		return 0
	}

	logger.Info("cache invalidated", logger.String("pattern", pattern), logger.Int64("deleted", deleted))
	return int(deleted)
}

// InvalidateFavorites drops every cached favorites page. Called after a
// favorite is added or removed so stale totals are not served.
func (m *Manager) InvalidateFavorites(ctx context.Context) {
	m.DeletePattern(ctx, keyNamespace+":favorites:*")
}

// Clear removes every key in the application namespace.
func (m *Manager) Clear(ctx context.Context) int {
	return m.DeletePattern(ctx, keyNamespace+":*")
}

// Stats describes the cache state for the health and stats endpoints.
type Stats struct {
	Enabled          bool   `json:"enabled"`
	TotalKeys        int    `json:"total_keys,omitempty"`
	KeyspaceHits     int64  `json:"keyspace_hits,omitempty"`
	KeyspaceMisses   int64  `json:"keyspace_misses,omitempty"`
	HitRate          string `json:"hit_rate,omitempty"`
	ConnectedClients int64  `json:"connected_clients,omitempty"`
	Message          string `json:"message,omitempty"`
}

// GetStats collects cache statistics from the Redis INFO command.
func (m *Manager) GetStats(ctx context.Context) Stats {
	if !m.Enabled(ctx) {
		return Stats{Enabled: false, Message: "Redis not available"}
	}

	keys, err := m.client.Keys(ctx, keyNamespace+":*").Result()
	if err != nil {
		return Stats{Enabled: false, Message: err.Error()}
	}

	info, err := m.client.Info(ctx, "stats").Result()
	if err != nil {
		return Stats{Enabled: true, TotalKeys: len(keys), Message: err.Error()}
	}

	stats := Stats{Enabled: true, TotalKeys: len(keys)}
	stats.KeyspaceHits = parseInfoField(info, "keyspace_hits")
	stats.KeyspaceMisses = parseInfoField(info, "keyspace_misses")
	if total := stats.KeyspaceHits + stats.KeyspaceMisses; total > 0 {
		stats.HitRate = fmt.Sprintf("%.2f%%", float64(stats.KeyspaceHits)/float64(total)*100)
	}

	clients, err := m.client.Info(ctx, "clients").Result()
	if err == nil {
		stats.ConnectedClients = parseInfoField(clients, "connected_clients")
	}

	return stats
}

// parseInfoField extracts a numeric field from a Redis INFO block.
func parseInfoField(info, field string) int64 {
	for _, line := range strings.Split(info, "\r\n") {
		if after, ok := strings.CutPrefix(line, field+":"); ok {
			var v int64
			fmt.Sscanf(after, "%d", &v)
			return v
		}
	}
	return 0
}
