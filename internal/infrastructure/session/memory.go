package session

import (
	"context"
	"fmt"
	"time"

	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/cache"

	"github.com/goccy/go-json"
)

const keyPrefix = "session:"

// MemoryStore keeps sessions in the process cache. Sessions are stored encoded so
// callers never share mutable state with the store.
type MemoryStore struct {
	cache cache.CacheService
	ttl   time.Duration
	locks *keyedLocker
}

func NewMemoryStore(c cache.CacheService, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: c, ttl: ttl, locks: newKeyedLocker()}
}

func (s *MemoryStore) Lock(ctx context.Context, id string) (func(), error) {
	return s.locks.Lock(ctx, id)
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	v, ok := s.cache.Get(keyPrefix + id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected session value type %T", v)
	}
	return decode(data)
}

func (s *MemoryStore) Save(ctx context.Context, id string, sess *domain.Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	s.cache.Set(keyPrefix+id, data, s.ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(keyPrefix + id)
	return nil
}

func encode(sess *domain.Session) ([]byte, error) {
	sess.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*domain.Session, error) {
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}
