package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sangvinij/user-management-micro-service/internal/logging"
)

const blacklistKeyPrefix = "token_blacklist:"

// RevocationStore tracks refresh tokens consumed by rotation or revoked
// explicitly.
type RevocationStore interface {
	MarkRevoked(ctx context.Context, token string)
	IsRevoked(ctx context.Context, token string) bool
}

// Blacklist is the Redis-backed RevocationStore. It fails open: when Redis
// is unreachable a lookup treats the token as not revoked and a write
// degrades to a logged no-op, so a cache outage never blocks token
// issuance. Entries carry the refresh-token TTL, so Redis sweeps them
// together with the token's own expiry.
type Blacklist struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger logging.Logger
}

// NewBlacklist builds a Blacklist writing entries with the given TTL,
// normally the refresh-token validity duration.
func NewBlacklist(client redis.UniversalClient, ttl time.Duration, logger logging.Logger) *Blacklist {
	return &Blacklist{
		client: client,
		ttl:    ttl,
		logger: logger.With("module", "token_blacklist"),
	}
}

// MarkRevoked adds the token to the revoked set. Best effort: a store
// failure is logged, never surfaced.
func (b *Blacklist) MarkRevoked(ctx context.Context, token string) {
	if err := b.client.Set(ctx, blacklistKeyPrefix+token, "1", b.ttl).Err(); err != nil {
		b.logger.Error(ctx, "blacklist write failed", "error", err.Error())
	}
}

// IsRevoked reports whether the token is in the revoked set. Once
// MarkRevoked has returned, IsRevoked sees the entry.
func (b *Blacklist) IsRevoked(ctx context.Context, token string) bool {
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		b.logger.Error(ctx, "blacklist read failed", "error", err.Error())
		return false
	}
	return n > 0
}
