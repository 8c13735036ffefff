package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/pollen-calendar/internal/infra/config"
)

func TestIPRateLimiterSweepsIdleVisitorsPeriodically(t *testing.T) {
	start := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	now := start
	l := newIPRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 5})
	l.now = func() time.Time { return now }

	require.True(t, l.allow("10.0.0.1"))
	l.visitors["10.0.0.1"].lastSeen = start.Add(-10 * time.Minute)

	now = start.Add(30 * time.Second)
	require.True(t, l.allow("10.0.0.2"))
	require.Contains(t, l.visitors, "10.0.0.1")

	now = start.Add(time.Minute)
	require.True(t, l.allow("10.0.0.3"))
	require.NotContains(t, l.visitors, "10.0.0.1")
	require.Contains(t, l.visitors, "10.0.0.2")
	require.Contains(t, l.visitors, "10.0.0.3")
	require.Equal(t, now, l.lastSweep)
}

func TestIPRateLimiterEnforcesBurst(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	l := newIPRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2})
	l.now = func() time.Time { return now }

	require.True(t, l.allow("10.0.0.1"))
	require.True(t, l.allow("10.0.0.1"))
	require.False(t, l.allow("10.0.0.1"))
	require.True(t, l.allow("10.0.0.2"))

	now = now.Add(time.Second)
	require.True(t, l.allow("10.0.0.1"))
}
