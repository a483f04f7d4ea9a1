package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestMemoryTrainRateLimiter(t *testing.T) {
	limiter := NewMemoryTrainRateLimiter(time.Minute, 2)

	if !limiter.Allow("user:1") {
		t.Fatal("first call denied")
	}
	if !limiter.Allow("User:1 ") {
		t.Fatal("second call denied")
	}
	if limiter.Allow("user:1") {
		t.Fatal("third call allowed over max")
	}
	// Otra clave tiene su propia cuota.
	if !limiter.Allow("user:2") {
		t.Fatal("different key denied")
	}
}

func TestMemoryTrainRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewMemoryTrainRateLimiter(10*time.Millisecond, 1)

	if !limiter.Allow("user:1") {
		t.Fatal("first call denied")
	}
	if limiter.Allow("user:1") {
		t.Fatal("second call allowed inside window")
	}
	time.Sleep(20 * time.Millisecond)
	if !limiter.Allow("user:1") {
		t.Fatal("call denied after window expiry")
	}
}

func TestMemoryTrainRateLimiterEmptyKey(t *testing.T) {
	limiter := NewMemoryTrainRateLimiter(time.Minute, 5)
	if limiter.Allow("   ") {
		t.Fatal("blank key allowed")
	}
}

type fakeEvaler struct {
	count int64
	err   error
}

func (f *fakeEvaler) Eval(ctx context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	f.count++
	cmd := redis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(f.count)
	}
	return cmd
}

func TestRedisTrainRateLimiter(t *testing.T) {
	evaler := &fakeEvaler{}
	limiter := &redisTrainRateLimiter{
		client: evaler,
		window: time.Minute,
		max:    2,
		prefix: "train:rl:",
	}

	if !limiter.Allow("user:1") || !limiter.Allow("user:1") {
		t.Fatal("calls under max denied")
	}
	if limiter.Allow("user:1") {
		t.Fatal("call over max allowed")
	}
	if limiter.Allow("") {
		t.Fatal("blank key allowed")
	}
}

func TestRedisTrainRateLimiterFailsOpen(t *testing.T) {
	limiter := &redisTrainRateLimiter{
		client: &fakeEvaler{err: context.DeadlineExceeded},
		window: time.Minute,
		max:    1,
		prefix: "train:rl:",
	}
	if !limiter.Allow("user:1") {
		t.Fatal("redis error should fail open")
	}
}
