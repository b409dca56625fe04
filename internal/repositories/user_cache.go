package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/smart-todo/internal/logger"
)

const userCacheKeyPrefix = "user:exists:"

// UserCacheRepository remembers recently resolved usernames in Redis.
// A cached username is trusted until its entry expires, so an identity removed from
// the store keeps authenticating for at most the configured expiration.
type UserCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewUserCacheRepository creates a cache whose entries live for expiration.
func NewUserCacheRepository(client *redis.Client, expiration time.Duration) *UserCacheRepository {
	return &UserCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// Exists reports whether username is cached as a known identity.
func (r *UserCacheRepository) Exists(ctx context.Context, username string) (bool, error) {
	key := userCacheKeyPrefix + username

	n, err := r.client.Exists(ctx, key).Result()

	logger.Log.Infow("user cache lookup",
		"key", key,
		"result", n,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remember caches username as a known identity.
func (r *UserCacheRepository) Remember(ctx context.Context, username string) error {
	key := userCacheKeyPrefix + username
	err := r.client.Set(ctx, key, "1", r.exp).Err()

	logger.Log.Infow("user cache store",
		"key", key,
		"ttl", r.exp,
		"error", err,
	)

	return err
}
