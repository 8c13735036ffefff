package forecaststore

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
)

func sample() forecast.Forecast {
	return forecast.Forecast{
		"ragweed": {
			civil.Date{Year: 2025, Month: time.September, Day: 1}: 0,
			civil.Date{Year: 2025, Month: time.September, Day: 2}: 4,
		},
		"birch": {},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Hour, 0)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	raw := sample()
	require.NoError(t, store.Set(ctx, "k", raw, 0))
	raw["ragweed"][civil.Date{Year: 2025, Month: time.September, Day: 2}] = 1

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, sample(), got)
	require.Equal(t, 1, store.Len())
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore(time.Hour, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", sample(), 20*time.Millisecond))
	require.Eventually(t, func() bool {
		_, ok, _ := store.Get(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCodecKeepsCalendarKeys(t *testing.T) {
	payload, err := encode(sample())
	require.NoError(t, err)
	require.Contains(t, string(payload), `"2025-09-02":4`)

	raw, err := decode(payload)
	require.NoError(t, err)
	require.Equal(t, sample(), raw)

	empty, err := decode([]byte("null"))
	require.NoError(t, err)
	require.NotNil(t, empty)
}
