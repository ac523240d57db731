package session

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/cespare/xxhash/v2"
)

type (
	memStore struct {
		cache *bigcache.BigCache
	}

	xxHasher struct{}
)

const (
	// bigcache evicts the oldest entry once it outlives LifeWindow,
	// tokens must survive until the process exits
	noExpiry = time.Duration(math.MaxInt64)
)

func (xxHasher) Sum64(key string) uint64 {
	return xxhash.Sum64String(key)
}

// InMemoryTokenStore keeps tokens for as long as the process is running
func InMemoryTokenStore() (*memStore, error) {
	cfg := bigcache.DefaultConfig(noExpiry)
	cfg.CleanWindow = 0
	cfg.Hasher = xxHasher{}
	cache, err := bigcache.NewBigCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create token cache, cause %w", err)
	}
	return &memStore{
		cache: cache,
	}, nil
}

func (m *memStore) Save(ctx context.Context, token string, userID int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(userID))
	return m.cache.Set(token, buf[:])
}

func (m *memStore) Lookup(ctx context.Context, token string) (int64, error) {
	buf, err := m.cache.Get(token)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return 0, ErrNotFound
	} else if err != nil {
		return 0, err
	}
	if len(buf) != 8 {
		return 0, fmt.Errorf("corrupted token entry, expecting 8 bytes got %v", len(buf))
	}
	return int64(binary.BigEndian.Uint64(buf)), nil
}

func (m *memStore) Close() error {
	return m.cache.Close()
}
