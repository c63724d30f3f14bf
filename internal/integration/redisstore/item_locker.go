package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/trip-planner/backend/internal/application/adapter"
)

const lockKeyPrefix = "lock:"

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ItemLockerConfig holds the lock lease and polling settings.
type ItemLockerConfig struct {
	// TTL bounds how long a crashed holder keeps the lock.
	TTL time.Duration
	// RetryInterval is the wait between acquisition attempts.
	RetryInterval time.Duration
}

// DefaultItemLockerConfig returns the default lock settings.
func DefaultItemLockerConfig() ItemLockerConfig {
	return ItemLockerConfig{
		TTL:           10 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}

// itemLocker serializes item mutations across API instances with SET NX PX.
type itemLocker struct {
	client *redis.Client
	config ItemLockerConfig
	logger *slog.Logger
}

// NewItemLocker creates a new Redis item locker.
func NewItemLocker(client *redis.Client, config ItemLockerConfig, logger *slog.Logger) adapter.ItemLocker {
	if config.TTL <= 0 {
		config.TTL = DefaultItemLockerConfig().TTL
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = DefaultItemLockerConfig().RetryInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &itemLocker{
		client: client,
		config: config,
		logger: logger,
	}
}

// Lock polls until the lock for key is acquired or ctx is done.
func (l *itemLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.config.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.config.TTL).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return l.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *itemLocker) unlockFunc(redisKey, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("failed to release item lock",
				"key", redisKey,
				"error", err,
			)
		}
	}
}
