package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, ok := s.Get(ctx, "missing")
	assert.False(t, ok)

	s.Set(ctx, "k", []byte(`{"a":1}`), time.Minute)
	data, ok := s.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), data)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "k", []byte("v"), -time.Second)
	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "k", []byte("old"), time.Minute)
	s.Set(ctx, "k", []byte("new"), time.Minute)

	data, ok := s.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), data)
}

func TestMemoryStoreSweepDropsExpired(t *testing.T) {
	s := NewMemoryStore()
	s.maxEntries = 5
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s.Set(ctx, fmt.Sprintf("expired-%d", i), []byte("v"), -time.Second)
	}
	s.Set(ctx, "live", []byte("v"), time.Minute)

	_, ok := s.Get(ctx, "live")
	assert.True(t, ok)
	assert.LessOrEqual(t, len(s.entries), 5)
}

func TestMemoryStoreSweepBoundsLiveEntries(t *testing.T) {
	s := NewMemoryStore()
	s.maxEntries = 5
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		s.Set(ctx, fmt.Sprintf("k-%d", i), []byte("v"), time.Minute)
	}
	assert.LessOrEqual(t, len(s.entries), 5)
}

func TestKeyDeterministicOrder(t *testing.T) {
	a := Key("search", map[string]string{"query": "comedy", "page": "1"})
	b := Key("search", map[string]string{"page": "1", "query": "comedy"})

	assert.Equal(t, a, b)
	assert.Equal(t, "search:page:1:query:comedy", a)
}

func TestKeyNoFields(t *testing.T) {
	assert.Equal(t, "genres", Key("genres", nil))
}
