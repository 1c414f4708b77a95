package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token revocation list. Logout writes the token id here for the remaining
// token lifetime; the auth middleware rejects listed tokens.

func blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

func BlacklistToken(ctx context.Context, client *redis.Client, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	return client.Set(ctx, blacklistKey(jti), true, ttl).Err()
}

func IsTokenBlacklisted(ctx context.Context, client *redis.Client, jti string) bool {
	if jti == "" {
		return false
	}
	n, err := client.Exists(ctx, blacklistKey(jti)).Result()
	return err == nil && n > 0
}
