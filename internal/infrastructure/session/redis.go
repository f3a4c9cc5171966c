package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"whiskd-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockPrefix     = "session-lock:"
	lockLease      = 10 * time.Second
	lockRetryDelay = 10 * time.Millisecond
)

// releaseLockScript deletes the lock only if it still carries our token.
// KEYS[1] = lock key
// ARGV[1] = token
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore shares sessions across API replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	local  *keyedLocker
}

// NewRedisStore creates a new store backed by Redis.
func NewRedisStore(addr string, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb, ttl: ttl, local: newKeyedLocker()}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Lock takes the in-process lock first, then a leased Redis lock shared by all replicas.
// The lease expires on its own if a replica dies while holding it.
func (s *RedisStore) Lock(ctx context.Context, id string) (func(), error) {
	unlockLocal, err := s.local.Lock(ctx, id)
	if err != nil {
		return nil, err
	}

	key := lockPrefix + id
	token := uuid.NewString()
	for {
		ok, err := s.client.SetNX(ctx, key, token, lockLease).Result()
		if err != nil {
			unlockLocal()
			return nil, fmt.Errorf("failed to lock session: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-time.After(lockRetryDelay):
		case <-ctx.Done():
			unlockLocal()
			return nil, ctx.Err()
		}
	}

	return func() {
		// The request context may already be done; release on a fresh one
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseLockScript.Run(releaseCtx, s.client, []string{key}, token).Err()
		unlockLocal()
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decode(data)
}

func (s *RedisStore) Save(ctx context.Context, id string, sess *domain.Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
