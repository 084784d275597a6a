package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/moodflix/backend/internal/logger"
)

// Limiter enforces sliding-window request limits per client. Redis keeps the
// windows when available; otherwise an in-process store does. Limit checks
// fail open: a broken store never blocks a request.
type Limiter struct {
	rdb     *goredis.Client
	enabled bool
	log     *logger.Logger

	mu     sync.Mutex
	memory map[string][]time.Time
}

func NewLimiter(addr string, enabled bool, log *logger.Logger) *Limiter {
	l := &Limiter{
		enabled: enabled,
		log:     log.With("component", "ratelimit"),
		memory:  make(map[string][]time.Time),
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		l.log.Warn("redis unavailable, using memory-based rate limiting", "error", err)
		return l
	}

	l.rdb = rdb
	return l
}

// Allow reports whether clientID may make another request within the window,
// along with the current count and the limit.
func (l *Limiter) Allow(ctx context.Context, clientID string, limit int, window time.Duration) (bool, int, int) {
	if !l.enabled || limit <= 0 {
		return true, 0, limit
	}

	if l.rdb != nil {
		return l.allowRedis(ctx, clientID, limit, window)
	}
	return l.allowMemory(clientID, limit, window)
}

func (l *Limiter) allowRedis(ctx context.Context, clientID string, limit int, window time.Duration) (bool, int, int) {
	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()
	key := fmt.Sprintf("rate_limit:%s:%ds", clientID, int(window.Seconds()))

	pipe := l.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now), Member: strconv.FormatInt(now, 10)})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		l.log.Error("redis rate limit check failed", "error", err)
		return true, 0, limit
	}

	current := int(countCmd.Val()) + 1
	return current <= limit, current, limit
}

func (l *Limiter) allowMemory(clientID string, limit int, window time.Duration) (bool, int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-window)

	kept := l.memory[clientID][:0]
	for _, t := range l.memory[clientID] {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	l.memory[clientID] = kept

	return len(kept) <= limit, len(kept), limit
}

// Usage is one month's accumulated LLM spend.
type Usage struct {
	TotalTokens int     `json:"total_tokens"`
	TotalCost   float64 `json:"total_cost"`
	Requests    int     `json:"requests"`
}

// UsageTracker accumulates monthly LLM token counts and estimated cost so the
// budget gate can refuse work once the month's spend passes the limit.
type UsageTracker struct {
	rdb *goredis.Client
	log *logger.Logger

	mu     sync.Mutex
	memory map[string]Usage
}

func NewUsageTracker(addr string, log *logger.Logger) *UsageTracker {
	t := &UsageTracker{
		log:    log.With("component", "usage"),
		memory: make(map[string]Usage),
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.log.Warn("redis unavailable, tracking usage in memory", "error", err)
		return t
	}

	t.rdb = rdb
	return t
}

func monthKey(now time.Time) string {
	return fmt.Sprintf("openai_usage:%d:%02d", now.Year(), int(now.Month()))
}

// Track records one request's token count and estimated cost.
func (t *UsageTracker) Track(ctx context.Context, tokens int, cost float64) {
	key := monthKey(time.Now())

	if t.rdb == nil {
		t.mu.Lock()
		u := t.memory[key]
		u.TotalTokens += tokens
		u.TotalCost += cost
		u.Requests++
		t.memory[key] = u
		t.mu.Unlock()
		return
	}

	pipe := t.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, "total_tokens", int64(tokens))
	pipe.HIncrByFloat(ctx, key, "total_cost", cost)
	pipe.HIncrBy(ctx, key, "requests", 1)
	pipe.Expire(ctx, key, 32*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		t.log.Error("failed to track usage", "error", err)
	}
}

// MonthlyUsage returns the current month's totals, zero-valued on any error.
func (t *UsageTracker) MonthlyUsage(ctx context.Context) Usage {
	key := monthKey(time.Now())

	if t.rdb == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.memory[key]
	}

	fields, err := t.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		t.log.Error("failed to read usage", "error", err)
		return Usage{}
	}

	var u Usage
	if v, err := strconv.Atoi(fields["total_tokens"]); err == nil {
		u.TotalTokens = v
	}
	if v, err := strconv.ParseFloat(fields["total_cost"], 64); err == nil {
		u.TotalCost = v
	}
	if v, err := strconv.Atoi(fields["requests"]); err == nil {
		u.Requests = v
	}
	return u
}

// WithinBudget reports whether the month's estimated spend is still under the
// limit, returning the current cost alongside.
func (t *UsageTracker) WithinBudget(ctx context.Context, limit float64) (bool, float64) {
	u := t.MonthlyUsage(ctx)
	return u.TotalCost < limit, u.TotalCost
}
