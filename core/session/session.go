package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"rhythmbox/logger"
)

const (
	keyPrefix     = "rhythmbox:session:"
	statePrefix   = "rhythmbox:oauth_state:"
	prefsPrefix   = "rhythmbox:prefs:"
	stateLifetime = 10 * time.Minute
	prefsLifetime = 30 * 24 * time.Hour
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrInvalidState = errors.New("invalid oauth state")
)

// Session binds a browser to a vendor token. Everything lives in Redis
// so sessions survive restarts and scale past a single process.
type Session struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	DisplayName string        `json:"displayName"`
	Token       *oauth2.Token `json:"token"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Store manages sessions and OAuth login state in Redis.
type Store struct {
	client   *redis.Client
	lifetime time.Duration
}

// NewStore creates a session store with the given session lifetime.
func NewStore(client *redis.Client, lifetime time.Duration) *Store {
	return &Store{client: client, lifetime: lifetime}
}

// Create stores a fresh session and returns it.
func (s *Store) Create(ctx context.Context, userID, displayName string, tok *oauth2.Token) (*Session, error) {
	sess := &Session{
		ID:          uuid.New().String(),
		UserID:      userID,
		DisplayName: displayName,
		Token:       tok,
		CreatedAt:   time.Now(),
	}
	if err := s.put(ctx, sess); err != nil {
		return nil, err
	}
	logger.Info("session created",
		logger.String("sessionId", sess.ID),
		logger.String("userId", userID))
	return sess, nil
}

// Get loads a session by ID.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session decode failed: %w", err)
	}
	return &sess, nil
}

// UpdateToken replaces the vendor token after a refresh.
func (s *Store) UpdateToken(ctx context.Context, id string, tok *oauth2.Token) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.Token = tok
	return s.put(ctx, sess)
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session delete failed: %w", err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode failed: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sess.ID, data, s.lifetime).Err(); err != nil {
		return fmt.Errorf("session store failed: %w", err)
	}
	return nil
}

// NewState issues a one-time OAuth state value.
func (s *Store) NewState(ctx context.Context) (string, error) {
	state := uuid.New().String()
	if err := s.client.Set(ctx, statePrefix+state, "1", stateLifetime).Err(); err != nil {
		return "", fmt.Errorf("oauth state store failed: %w", err)
	}
	return state, nil
}

// ConsumeState validates and burns an OAuth state value.
func (s *Store) ConsumeState(ctx context.Context, state string) error {
	if state == "" {
		return ErrInvalidState
	}
	n, err := s.client.Del(ctx, statePrefix+state).Result()
	if err != nil {
		return fmt.Errorf("oauth state lookup failed: %w", err)
	}
	if n == 0 {
		return ErrInvalidState
	}
	return nil
}

// Prefs exposes per-user view preferences backed by the same Redis.
type Prefs struct {
	client *redis.Client
	userID string
}

// PrefsFor returns the preference store scoped to one user.
func (s *Store) PrefsFor(userID string) *Prefs {
	return &Prefs{client: s.client, userID: userID}
}

// SelectedArtist returns the persisted artist filter, empty when unset.
func (p *Prefs) SelectedArtist(ctx context.Context) (string, error) {
	val, err := p.client.Get(ctx, prefsPrefix+p.userID+":artist").Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("preference lookup failed: %w", err)
	}
	return val, nil
}

// SetSelectedArtist persists the artist filter.
func (p *Prefs) SetSelectedArtist(ctx context.Context, name string) error {
	key := prefsPrefix + p.userID + ":artist"
	if name == "" {
		if err := p.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("preference clear failed: %w", err)
		}
		return nil
	}
	if err := p.client.Set(ctx, key, name, prefsLifetime).Err(); err != nil {
		return fmt.Errorf("preference store failed: %w", err)
	}
	return nil
}
