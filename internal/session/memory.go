package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/gometeo/cityweather/internal/model"
)

// MemoryStore keeps sessions in process. Suitable for a single instance and tests.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, 2*ttl)}
}

// Set stores the encoded state so later mutations of state do not leak in.
func (s *MemoryStore) Set(_ context.Context, id string, state *model.SessionState) error {
	b, err := encodeState(state)
	if err != nil {
		return err
	}
	s.cache.Set(id, b, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.SessionState, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, nil
	}
	return decodeState(v.([]byte))
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

var _ Store = (*MemoryStore)(nil)
