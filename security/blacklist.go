package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/HSouheill/storefront_backend/cache"
)

// Blacklist remembers revoked tokens until they would have expired anyway.
type Blacklist struct {
	store cache.Store
}

func NewBlacklist(store cache.Store) *Blacklist {
	return &Blacklist{store: store}
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

func (b *Blacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return b.store.Set(ctx, blacklistKey(token), []byte("1"), ttl)
}

// IsRevoked fails closed: a store error counts as revoked.
func (b *Blacklist) IsRevoked(ctx context.Context, token string) bool {
	_, err := b.store.Get(ctx, blacklistKey(token))
	if errors.Is(err, cache.ErrMiss) {
		return false
	}
	return true
}
