package forecaststore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
)

// ValkeyStore shares raw forecasts between API instances through a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "pollen"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (forecast.Forecast, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get forecast %s: %w", key, err)
	}
	raw, err := decode([]byte(payload))
	if err != nil {
		return nil, false, fmt.Errorf("decode forecast %s: %w", key, err)
	}
	return raw, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, raw forecast.Forecast, ttl time.Duration) error {
	payload, err := encode(raw)
	if err != nil {
		return fmt.Errorf("encode forecast %s: %w", key, err)
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return fmt.Sprintf("%s:forecast:%s", s.prefix, key)
}

// Dates serialize as YYYY-MM-DD object keys.
func encode(raw forecast.Forecast) ([]byte, error) {
	return json.Marshal(raw)
}

func decode(payload []byte) (forecast.Forecast, error) {
	var raw forecast.Forecast
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = forecast.Forecast{}
	}
	return raw, nil
}

var _ allergy.ForecastStore = (*ValkeyStore)(nil)
