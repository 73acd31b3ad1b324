package auth

import (
	"context"
	"time"

	"scribefinder/internal/cache"
)

const revokedSessionKeyPrefix = "revoked:session:"

// SessionStore records sessions that were logged out before their expiry.
type SessionStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// TokenStore keeps revoked session ids in Redis until the token would have expired anyway.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements SessionStore
var _ SessionStore = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks the session as logged out for ttl. Unlike reads, it fails when
// redis cannot take the write.
func (s *TokenStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.SetStrict(ctx, revokedSessionKeyPrefix+sessionID, []byte("1"), ttl)
}

// IsRevoked checks whether the session was logged out.
func (s *TokenStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedSessionKeyPrefix+sessionID)
	if err != nil {
		return false, nil // Not revoked if error (fail safe)
	}
	return data != nil, nil
}
