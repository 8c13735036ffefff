package allergy

import (
	"context"
	"time"

	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
	"github.com/yanqian/pollen-calendar/internal/infra/llm/chatgpt"
)

// ShiftClient returns the weather-driven bloom shift for calibrated plants.
type ShiftClient interface {
	Shift(ctx context.Context) (forecast.Shift, error)
}

// IntensityRequest asks for one plant's raw intensity table over a calibrated window.
type IntensityRequest struct {
	Plant     forecast.Plant
	Window    forecast.LegacyWindow
	Latitude  float64
	Longitude float64
}

// IntensityClient fetches raw predictions for one plant.
type IntensityClient interface {
	Intensity(ctx context.Context, req IntensityRequest) (forecast.IntensityTable, error)
}

// LevelRepository persists per-user sensitivity levels.
type LevelRepository interface {
	Get(ctx context.Context, userID int64) (forecast.Levels, error)
	Save(ctx context.Context, userID int64, levels forecast.Levels) error
}

// ForecastStore caches raw forecasts by location key.
type ForecastStore interface {
	Get(ctx context.Context, key string) (forecast.Forecast, bool, error)
	Set(ctx context.Context, key string, raw forecast.Forecast, ttl time.Duration) error
}

// Archive keeps raw forecast snapshots for later inspection.
type Archive interface {
	Put(ctx context.Context, snap Snapshot) error
}

// ChatClient is the chat-completion API used for personalized advice.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}
