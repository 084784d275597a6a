package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/moodflix/backend/internal/logger"
)

// Store is a best-effort JSON blob cache. Callers must treat a miss and an
// error identically; nothing here may block the recommendation path.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
}

// NewStore connects to redis and falls back to an in-process TTL map when the
// connection cannot be established.
func NewStore(addr string, log *logger.Logger) Store {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		log.Warn("redis unavailable, using memory cache", "addr", addr, "error", err)
		return NewMemoryStore()
	}

	log.Info("connected to redis for caching", "addr", addr)
	return &redisStore{rdb: rdb, log: log}
}

// Key builds a cache key from a prefix and sorted field:value pairs so that
// equivalent lookups share an entry regardless of argument order.
func Key(prefix string, fields map[string]string) string {
	parts := []string{prefix}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", k, fields[k]))
	}
	return strings.Join(parts, ":")
}

type redisStore struct {
	rdb *goredis.Client
	log *logger.Logger
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			s.log.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

func (s *redisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		s.log.Warn("cache set failed", "key", key, "error", err)
	}
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is the fallback when redis is down. Expired entries are dropped
// lazily on read and swept when the map grows past maxEntries.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		maxEntries: 1000,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.data, true
}

func (s *MemoryStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) >= s.maxEntries {
		s.sweepLocked()
	}
	s.entries[key] = memoryEntry{data: data, expiresAt: time.Now().Add(ttl)}
}

func (s *MemoryStore) sweepLocked() {
	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	// Still full of live entries: drop arbitrary ones rather than grow unbounded.
	for k := range s.entries {
		if len(s.entries) < s.maxEntries {
			break
		}
		delete(s.entries, k)
	}
}
