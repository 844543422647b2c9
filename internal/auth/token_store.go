package auth

import (
	"context"
	"time"

	"natours/internal/cache"
)

const revokedTokenKeyPrefix = "revoked:session:"

// RevocationStore tracks session tokens invalidated before their expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

// TokenStore keeps revoked token ids in Redis until the token would have expired anyway.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements RevocationStore
var _ RevocationStore = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks a token id as logged out.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	s.cache.Mark(ctx, revokedTokenKeyPrefix+tokenID, ttl)
	return nil
}

// IsRevoked checks the revocation list. An unreachable Redis reads as not revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}
	return s.cache.Marked(ctx, revokedTokenKeyPrefix+tokenID)
}
