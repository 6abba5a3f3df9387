package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "fitclub:session:"

// RedisSessionStore keeps sessions in Redis as JSON with a sliding TTL, so
// several server processes can share them.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisSessionStore connects and pings the server.
// PRE: opts.Addr is reachable
// POST: Returns a ready store or the ping error
func NewRedisSessionStore(ctx context.Context, opts RedisOptions) (*RedisSessionStore, error) {
	const op = "middleware.NewRedisSessionStore"
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}, nil
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

// Create stores s under a new token. A token collision is reported as an error.
func (rs *RedisSessionStore) Create(ctx context.Context, s Session) (string, error) {
	const op = "middleware.RedisSessionStore.Create"
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	ok, err := rs.client.SetNX(ctx, redisKey(token), data, rs.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", fmt.Errorf("%s: token collision", op)
	}
	return token, nil
}

// Get loads the session stored under token.
// POST: Returns ErrNoSession when the key is missing or has expired
func (rs *RedisSessionStore) Get(ctx context.Context, token string) (Session, error) {
	const op = "middleware.RedisSessionStore.Get"
	val, err := rs.client.Get(ctx, redisKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Save overwrites an existing session and restarts its TTL.
// POST: Returns ErrNoSession if the key vanished in the meantime
func (rs *RedisSessionStore) Save(ctx context.Context, token string, s Session) error {
	const op = "middleware.RedisSessionStore.Save"
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ok, err := rs.client.SetXX(ctx, redisKey(token), data, rs.ttl).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return ErrNoSession
	}
	return nil
}

// Delete removes the session. Missing keys are not an error.
func (rs *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := rs.client.Del(ctx, redisKey(token)).Err(); err != nil {
		return fmt.Errorf("middleware.RedisSessionStore.Delete: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (rs *RedisSessionStore) Close() error {
	return rs.client.Close()
}
