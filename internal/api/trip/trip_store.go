package trip

import (
	"github.com/patrickmn/go-cache"

	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

// Store maps session keys to conversation state. Implementations must be safe
// for concurrent use across distinct keys; per-session mutation is serialized
// by the session's own mutex.
type Store interface {
	Get(key string) (*types.TripSession, bool)
	Upsert(key string, session *types.TripSession)
}

var _ Store = (*CacheStore)(nil)

// CacheStore keeps sessions in a go-cache keyed map. Sessions never expire:
// the conversation state lives for the process lifetime, and the cache TTL is
// the knob to change if expiry is ever wanted.
type CacheStore struct {
	sessions *cache.Cache
}

func NewCacheStore() *CacheStore {
	return &CacheStore{
		sessions: cache.New(cache.NoExpiration, 0),
	}
}

func (s *CacheStore) Get(key string) (*types.TripSession, bool) {
	v, ok := s.sessions.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*types.TripSession), true
}

func (s *CacheStore) Upsert(key string, session *types.TripSession) {
	s.sessions.Set(key, session, cache.NoExpiration)
}
