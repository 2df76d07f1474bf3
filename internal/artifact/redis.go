package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ff:artifact:"

// RedisStore is a Redis-backed registry for deployments that want
// artifacts to survive a process restart or to be shared between
// replicas. Expiry rides on Redis native TTLs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions holds Redis connection configuration.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	TTL      time.Duration
}

// NewRedisStore creates a Redis-backed registry and verifies connectivity.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, ttl: opts.TTL}, nil
}

// Put registers content under a fresh id. HSetNX on the id field guards
// against overwriting on the (negligible) chance of a UUID collision.
// Every write pipelines an Expire alongside it, so no partial insert can
// leave a key behind without a TTL.
func (s *RedisStore) Put(ctx context.Context, content []byte, mediaType, filename string) (string, error) {
	for {
		id := uuid.NewString()
		key := redisKeyPrefix + id

		pipe := s.client.TxPipeline()
		claim := pipe.HSetNX(ctx, key, "id", id)
		pipe.Expire(ctx, key, s.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return "", fmt.Errorf("redis claim id: %w", err)
		}
		if !claim.Val() {
			continue
		}

		pipe = s.client.TxPipeline()
		pipe.HSet(ctx, key,
			"content", content,
			"media_type", mediaType,
			"filename", filename,
			"stored_at", time.Now().UTC().Format(time.RFC3339Nano),
		)
		pipe.Expire(ctx, key, s.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return "", fmt.Errorf("redis store artifact: %w", err)
		}

		return id, nil
	}
}

// Get resolves an id; missing or expired keys yield ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (*Artifact, error) {
	vals, err := s.client.HGetAll(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	// A hash holding only the claim field is a half-finished insert;
	// treat it like an absent key until its TTL reclaims it.
	if len(vals) == 0 || vals["media_type"] == "" {
		return nil, ErrNotFound
	}

	storedAt, _ := time.Parse(time.RFC3339Nano, vals["stored_at"])
	return &Artifact{
		ID:        id,
		Content:   []byte(vals["content"]),
		MediaType: vals["media_type"],
		Filename:  vals["filename"],
		StoredAt:  storedAt,
	}, nil
}

// Len reports the number of live artifacts by scanning the key prefix.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	var count int
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return count, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
