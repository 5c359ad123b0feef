package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fyndchans/listingworker/logger"
	"fyndchans/listingworker/services/cache"
)

// DefaultKVTTL keeps a snapshot around past the day it is fresh for.
const DefaultKVTTL = 48 * time.Hour

// KVStore keeps the snapshot under one key of a CacheService such as memcache.
type KVStore struct {
	cache cache.CacheService
	key   string
	ttl   time.Duration
}

// NewKVStore returns a store writing to key with the given expiration.
func NewKVStore(svc cache.CacheService, key string, ttl time.Duration) *KVStore {
	if ttl <= 0 {
		ttl = DefaultKVTTL
	}
	return &KVStore{cache: svc, key: key, ttl: ttl}
}

// Load reads the snapshot. Any cache miss reads as ErrNotFound.
func (s *KVStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := s.cache.Get(s.key)
	if err != nil {
		return Snapshot{}, ErrNotFound
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("store: decode %q: %w", s.key, err)
	}
	return snapshot, nil
}

// Save overwrites the snapshot
func (s *KVStore) Save(ctx context.Context, snapshot Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := s.cache.Set(s.key, data, s.ttl); err != nil {
		return fmt.Errorf("store: set %q: %w", s.key, err)
	}

	logger.ForStore().Debug().
		Str("key", s.key).
		Dur("ttl", s.ttl).
		Msg("Snapshot written")
	return nil
}
