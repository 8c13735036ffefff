package forecaststore

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
)

// MemoryStore keeps raw forecasts in process memory with per-entry expiry.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore constructs a store whose entries default to ttl and are swept every cleanup.
func NewMemoryStore(ttl, cleanup time.Duration) *MemoryStore {
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &MemoryStore{cache: gocache.New(ttl, cleanup)}
}

// Get implements allergy.ForecastStore.
func (s *MemoryStore) Get(_ context.Context, key string) (forecast.Forecast, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.(forecast.Forecast)
	if !ok {
		s.cache.Delete(key)
		return nil, false, nil
	}
	return clone(raw), true, nil
}

// Set stores a copy of raw. A non-positive ttl uses the store default.
func (s *MemoryStore) Set(_ context.Context, key string, raw forecast.Forecast, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	s.cache.Set(key, clone(raw), ttl)
	return nil
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}

func clone(raw forecast.Forecast) forecast.Forecast {
	out := make(forecast.Forecast, len(raw))
	for plant, table := range raw {
		copied := make(forecast.IntensityTable, len(table))
		for d, v := range table {
			copied[d] = v
		}
		out[plant] = copied
	}
	return out
}

var _ allergy.ForecastStore = (*MemoryStore)(nil)
