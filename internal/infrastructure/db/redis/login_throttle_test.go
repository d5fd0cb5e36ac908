package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	if th.maxAttempts != defaultMaxAttempts {
		t.Fatalf("expected default max attempts %d, got %d", defaultMaxAttempts, th.maxAttempts)
	}
	if th.window != defaultWindow {
		t.Fatalf("expected default window %s, got %s", defaultWindow, th.window)
	}

	th = NewLoginThrottle(nil, 3, time.Minute)
	if th.maxAttempts != 3 || th.window != time.Minute {
		t.Fatalf("unexpected settings: %d %s", th.maxAttempts, th.window)
	}
}

func TestLoginThrottle_KeyNormalizesEmail(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	if got := th.key("  Ann@Example.COM "); got != "login_failures:ann@example.com" {
		t.Fatalf("unexpected key: %s", got)
	}
}

// fakeCounters is an in-process stand-in for the few Redis commands the
// throttle issues. Keys expire against a controllable clock.
type fakeCounters struct {
	redis.Cmdable
	now     time.Time
	values  map[string]int64
	expires map[string]time.Time
	getErr  error
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{
		now:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		values:  map[string]int64{},
		expires: map[string]time.Time{},
	}
}

func (f *fakeCounters) evict(key string) {
	if exp, ok := f.expires[key]; ok && !f.now.Before(exp) {
		delete(f.values, key)
		delete(f.expires, key)
	}
}

func (f *fakeCounters) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	f.evict(key)
	n, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(n, 10), nil)
}

func (f *fakeCounters) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			n++
		}
		delete(f.values, k)
		delete(f.expires, k)
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeCounters) TxPipeline() redis.Pipeliner {
	return &fakePipeline{f: f}
}

// fakePipeline queues INCR and EXPIRE NX and applies them on Exec.
type fakePipeline struct {
	redis.Pipeliner
	f   *fakeCounters
	ops []func()
}

func (p *fakePipeline) Incr(ctx context.Context, key string) *redis.IntCmd {
	p.ops = append(p.ops, func() {
		p.f.evict(key)
		p.f.values[key]++
	})
	return redis.NewIntCmd(ctx, "incr", key)
}

func (p *fakePipeline) ExpireNX(ctx context.Context, key string, d time.Duration) *redis.BoolCmd {
	p.ops = append(p.ops, func() {
		if _, ok := p.f.expires[key]; !ok {
			p.f.expires[key] = p.f.now.Add(d)
		}
	})
	return redis.NewBoolCmd(ctx, "expire", key, d, "nx")
}

func (p *fakePipeline) Exec(ctx context.Context) ([]redis.Cmder, error) {
	for _, op := range p.ops {
		op()
	}
	p.ops = nil
	return nil, nil
}

func TestLoginThrottle_LocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCounters()
	th := NewLoginThrottle(fake, 3, time.Minute)

	for i := 1; i <= 3; i++ {
		ok, err := th.Allowed(ctx, "ann@example.com")
		if err != nil || !ok {
			t.Fatalf("attempt %d: expected allowed, got %v %v", i, ok, err)
		}
		if err := th.RecordFailure(ctx, "Ann@Example.com"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	if ok, _ := th.Allowed(ctx, "ann@example.com"); ok {
		t.Fatalf("expected lockout after 3 failures")
	}
	if ok, _ := th.Allowed(ctx, "bob@example.com"); !ok {
		t.Fatalf("other emails must not be throttled")
	}
}

func TestLoginThrottle_WindowStartsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCounters()
	th := NewLoginThrottle(fake, 2, time.Minute)

	_ = th.RecordFailure(ctx, "ann@example.com")
	fake.now = fake.now.Add(50 * time.Second)
	_ = th.RecordFailure(ctx, "ann@example.com")

	if ok, _ := th.Allowed(ctx, "ann@example.com"); ok {
		t.Fatalf("expected lockout inside the window")
	}

	// The second failure must not have pushed the expiry out.
	fake.now = fake.now.Add(11 * time.Second)
	if ok, _ := th.Allowed(ctx, "ann@example.com"); !ok {
		t.Fatalf("expected the lockout to end one window after the first failure")
	}
}

func TestLoginThrottle_ResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCounters()
	th := NewLoginThrottle(fake, 1, time.Minute)

	_ = th.RecordFailure(ctx, "ann@example.com")
	if ok, _ := th.Allowed(ctx, "ann@example.com"); ok {
		t.Fatalf("expected lockout")
	}

	if err := th.Reset(ctx, "ann@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if ok, _ := th.Allowed(ctx, "ann@example.com"); !ok {
		t.Fatalf("expected access after reset")
	}
	if _, ok := fake.expires["login_failures:ann@example.com"]; ok {
		t.Fatalf("reset must drop the expiry as well")
	}
}

func TestLoginThrottle_AllowedWrapsErrors(t *testing.T) {
	fake := newFakeCounters()
	fake.getErr = errors.New("connection refused")
	th := NewLoginThrottle(fake, 1, time.Minute)

	ok, err := th.Allowed(context.Background(), "ann@example.com")
	if ok || !errors.Is(err, fake.getErr) {
		t.Fatalf("expected wrapped error, got %v %v", ok, err)
	}
}
