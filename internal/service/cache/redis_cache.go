package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"FundMonitor/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisClient opens a client and pings it.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RedisStore keeps entries as JSON under "<prefix>:<kind>:<key>", letting
// redis expire them after the TTL. Several monitor processes can share it.
type RedisStore[T models.Snapshot] struct {
	cli    redis.UniversalClient
	prefix string
}

func NewRedisStore[T models.Snapshot](cli redis.UniversalClient, prefix string, kind models.AssetKind) *RedisStore[T] {
	return &RedisStore[T]{cli: cli, prefix: fmt.Sprintf("%s:%s:", prefix, kind)}
}

func (r *RedisStore[T]) Get(ctx context.Context, key string) (CacheEntry[T], bool, error) {
	var e CacheEntry[T]
	b, err := r.cli.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return e, false, nil
		}
		return e, false, err
	}
	if err := json.Unmarshal(b, &e); err != nil {
		return e, false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return e, true, nil
}

func (r *RedisStore[T]) Set(ctx context.Context, key string, e CacheEntry[T], ttl time.Duration) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	return r.cli.Set(ctx, r.prefix+key, b, ttl).Err()
}

// Reset unlinks every key under this store's prefix.
func (r *RedisStore[T]) Reset(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.cli.Scan(ctx, cursor, r.prefix+"*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.cli.Unlink(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
