package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter returns a limiter on a controllable clock
func newTestLimiter(cfg *Config) (*Limiter, *time.Time) {
	l := NewLimiter(cfg)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/plan", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/plan", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 6.0, info.RetryAfter.Seconds(), 0.001, "one token every six seconds")
	assert.True(t, info.ResetTime.After(time.Date(2025, 1, 1, 12, 0, 59, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	limiter, now := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 60; i++ {
		limiter.Allow("c", "/plan", "POST")
	}
	allowed, _ := limiter.Allow("c", "/plan", "POST")
	require.False(t, allowed)

	*now = now.Add(time.Second)
	allowed, _ = limiter.Allow("c", "/plan", "POST")
	assert.True(t, allowed, "one token refills per second")
	allowed, _ = limiter.Allow("c", "/plan", "POST")
	assert.False(t, allowed)
}

func TestLimiter_WhitelistBlacklist(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 50; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/score", "POST")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}

	allowed, _ := limiter.Allow("10.0.0.2", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("c", "/tailor", "POST")
		require.True(t, allowed)
	}
	assert.Zero(t, limiter.Len())
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	// /tailor allows a burst of 2
	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("c", "/tailor", "POST")
		require.True(t, allowed)
		assert.Equal(t, 10, info.Limit)
	}
	allowed, info := limiter.Allow("c", "/tailor", "POST")
	assert.False(t, allowed)
	assert.InDelta(t, 360.0, info.RetryAfter.Seconds(), 0.001)

	// other endpoints and clients keep their own buckets
	allowed, info = limiter.Allow("c", "/plan", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)
	allowed, _ = limiter.Allow("other", "/tailor", "POST")
	assert.True(t, allowed)

	// health is unlimited
	for i := 0; i < 200; i++ {
		allowed, _ = limiter.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := limiter.Allow("c", "/plan", "POST"); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowed.Load())
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	limiter, now := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("client-%d", i), "/plan", "POST")
	}
	require.Equal(t, 3, limiter.Len())

	*now = now.Add(30 * time.Minute)
	limiter.Allow("client-0", "/plan", "POST")
	*now = now.Add(45 * time.Minute)
	limiter.cleanupBuckets()

	assert.Equal(t, 1, limiter.Len(), "only the recently used bucket survives")
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		method    string
		path      string
		wantPath  string
		wantLimit int
		wantNil   bool
	}{
		{name: "exact tailor", method: "POST", path: "/tailor", wantPath: "/tailor", wantLimit: 10},
		{name: "job status", method: "GET", path: "/jobs/abc", wantPath: "/jobs/", wantLimit: 600},
		{name: "job stream", method: "GET", path: "/jobs/abc/stream", wantPath: "/jobs/", wantLimit: 600},
		{name: "run by id", method: "GET", path: "/runs/42", wantPath: "/runs/", wantLimit: 120},
		{name: "run list falls to default", method: "GET", path: "/runs", wantNil: true},
		{name: "method must match", method: "GET", path: "/tailor", wantNil: true},
		{name: "health is unlimited", method: "GET", path: "/health", wantPath: "/health", wantLimit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestMatchEndpoint_LongestPrefixWins(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/jobs/", Method: "GET", Limit: 1},
		{Path: "/jobs/archive/", Method: "GET", Limit: 2},
	}
	assert.Equal(t, 2, MatchEndpoint("/jobs/archive/7", "GET", configs).Limit)
	assert.Equal(t, 1, MatchEndpoint("/jobs/7", "GET", configs).Limit)
}

func TestLimiter_PrefixRoutesShareBucket(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/runs/", Method: "GET", Limit: 2, Window: time.Minute},
		},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("c", "/runs/1", "GET")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/runs/2", "GET")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/runs/3", "GET")
	assert.False(t, allowed, "a fresh run ID does not get a fresh bucket")
	assert.Equal(t, 1, limiter.Len())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "250")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 250, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["10.0.0.2"])
	assert.Empty(t, cfg.Blacklist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}

func TestLoadConfig_EndpointOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_ENDPOINTS", "POST /tailor=5/30m, get /runs/=30/1m, nonsense, POST /plan=x/1m")

	cfg := LoadConfig()
	require.True(t, cfg.Enabled)

	tailor := MatchEndpoint("/tailor", "POST", cfg.EndpointConfigs)
	require.NotNil(t, tailor)
	assert.Equal(t, 5, tailor.Limit)
	assert.Equal(t, 30*time.Minute, tailor.Window)

	runs := MatchEndpoint("/runs/7", "GET", cfg.EndpointConfigs)
	require.NotNil(t, runs)
	assert.Equal(t, 30, runs.Limit)

	assert.Nil(t, MatchEndpoint("/plan", "POST", cfg.EndpointConfigs), "invalid overrides are skipped")
	assert.Len(t, cfg.EndpointConfigs, len(DefaultEndpointConfigs()))
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		entry   string
		want    EndpointConfig
		wantErr bool
	}{
		{entry: "POST /tailor=5/1h", want: EndpointConfig{Path: "/tailor", Method: "POST", Limit: 5, Window: time.Hour}},
		{entry: " GET /jobs/ = 100/1m", want: EndpointConfig{Path: "/jobs/", Method: "GET", Limit: 100, Window: time.Minute}},
		{entry: "POST /tailor", wantErr: true},
		{entry: "/tailor=5/1h", wantErr: true},
		{entry: "POST /tailor=5", wantErr: true},
		{entry: "POST /tailor=-1/1h", wantErr: true},
		{entry: "POST /tailor=5/0s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			got, err := parseEndpoint(tt.entry)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
