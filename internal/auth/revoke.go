package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokePrefix = "classtrack:revoked:"

// Revoker tracks logged-out session tokens in redis until they expire on
// their own. With no redis client the revocation list is a no-op and tokens
// stay valid until expiry — the same degraded mode the health probe reports.
type Revoker struct {
	client *redis.Client
}

// NewRevoker wraps a redis client; client may be nil.
func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

// Revoke blacklists a token id until its natural expiry.
func (r *Revoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if r == nil || r.client == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokePrefix+tokenID, "1", ttl).Err()
}

// Revoked reports whether a token id has been logged out. Redis errors are
// treated as not revoked.
func (r *Revoker) Revoked(ctx context.Context, tokenID string) bool {
	if r == nil || r.client == nil || tokenID == "" {
		return false
	}
	n, err := r.client.Exists(ctx, revokePrefix+tokenID).Result()
	return err == nil && n > 0
}
