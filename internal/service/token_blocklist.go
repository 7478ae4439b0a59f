package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blocklistPrefix = "token_blocklist:"

// TokenBlocklist records revoked token ids in Redis until they expire.
// A blocklist without a client accepts every token.
type TokenBlocklist struct {
	redis *redis.Client
}

func NewTokenBlocklist(client *redis.Client) *TokenBlocklist {
	return &TokenBlocklist{redis: client}
}

// Revoke blocks jti for ttl. A non-positive ttl is a no-op since the token
// has already expired.
func (b *TokenBlocklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if b == nil || b.redis == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return b.redis.Set(ctx, blocklistPrefix+jti, 1, ttl).Err()
}

func (b *TokenBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if b == nil || b.redis == nil || jti == "" {
		return false, nil
	}
	n, err := b.redis.Exists(ctx, blocklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
