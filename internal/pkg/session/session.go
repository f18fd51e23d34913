package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	jwtpkg "github.com/ecoexplorer/core/internal/pkg/jwt"
	"github.com/ecoexplorer/core/internal/pkg/redis"
	"github.com/google/uuid"
)

const (
	// DefaultTTL matches a plain login; RememberTTL a "remember me" login.
	DefaultTTL  = 24 * time.Hour
	RememberTTL = 30 * 24 * time.Hour

	keyPrefix = "session:"
)

var ErrNotFound = errors.New("session not found")

// Session is the stored half of an issued admin token.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IP        string    `json:"ip"`
	UA        string    `json:"ua"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store keeps sessions in redis so logout revokes a token before it expires.
// A nil *Store issues stateless tokens.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	if client == nil {
		return nil
	}
	return &Store{client: client}
}

// Issue records a session and signs a JWT bound to it.
func (s *Store) Issue(ctx context.Context, email, ip, ua string, ttl time.Duration) (string, *Session, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Email:     email,
		IP:        strings.TrimSpace(ip),
		UA:        strings.TrimSpace(ua),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if s != nil {
		payload, err := json.Marshal(sess)
		if err != nil {
			return "", nil, err
		}
		if err := s.client.Set(ctx, keyPrefix+sess.ID, payload, ttl); err != nil {
			return "", nil, err
		}
	}

	token, err := jwtpkg.Sign(email, sess.ID, ttl)
	if err != nil {
		if s != nil {
			_ = s.client.Del(ctx, keyPrefix+sess.ID)
		}
		return "", nil, err
	}
	return token, sess, nil
}

// IsActive reports whether sessionID is still live. Stateless stores accept any id.
func (s *Store) IsActive(ctx context.Context, sessionID string) (bool, error) {
	if s == nil {
		return true, nil
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}
	return s.client.Exists(ctx, keyPrefix+sessionID)
}

func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	raw, err := s.client.Get(ctx, keyPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrNotFound
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Revoke(ctx context.Context, sessionID string) error {
	if s == nil || strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return s.client.Del(ctx, keyPrefix+sessionID)
}
