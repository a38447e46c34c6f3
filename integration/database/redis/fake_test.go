package redis_test

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeClient is an in-memory stand-in for the subset of Redis the stores use.
// Keys never expire; TTLs are recorded for inspection.
type fakeClient struct {
	mu      sync.Mutex
	kv      map[string]string
	ttl     map[string]time.Duration
	hashes  map[string]map[string]string
	failErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		kv:     make(map[string]string),
		ttl:    make(map[string]time.Duration),
		hashes: make(map[string]map[string]string),
	}
}

func (f *fakeClient) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.kv[key]
	return ok
}

func (f *fakeClient) expiration(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttl[key]
}

func toString(v any) string {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (f *fakeClient) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	v, ok := f.kv[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return redis.NewStatusResult("", f.failErr)
	}
	f.kv[key] = toString(value)
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := f.kv[key]; ok {
			delete(f.kv, key)
			delete(f.ttl, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeClient) Scan(_ context.Context, _ uint64, match string, _ int64) *redis.ScanCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for key := range f.kv {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return redis.NewScanCmdResult(keys, 0, nil)
}

func (f *fakeClient) HGet(_ context.Context, key, field string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	v, ok := f.hashes[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	var n int64
	for i := 0; i+1 < len(values); i += 2 {
		field := toString(values[i])
		if _, exists := h[field]; !exists {
			n++
		}
		h[field] = toString(values[i+1])
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeClient) HDel(_ context.Context, key string, fields ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, field := range fields {
		if _, ok := f.hashes[key][field]; ok {
			delete(f.hashes[key], field)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeClient) HKeys(_ context.Context, key string) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return redis.NewStringSliceResult(nil, f.failErr)
	}
	keys := make([]string, 0, len(f.hashes[key]))
	for field := range f.hashes[key] {
		keys = append(keys, field)
	}
	return redis.NewStringSliceResult(keys, nil)
}
