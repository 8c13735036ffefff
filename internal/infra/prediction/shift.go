package prediction

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
)

// ShiftClient asks the bloom shift model how far this season deviates from the nominal window.
type ShiftClient struct {
	baseURL     string
	weatherData [][]float64
	httpClient  *http.Client
}

var _ allergy.ShiftClient = (*ShiftClient)(nil)

// NewShiftClient builds the shift model client. weatherData is the feature matrix sent with every
// request.
func NewShiftClient(baseURL string, weatherData [][]float64, timeout time.Duration) *ShiftClient {
	return &ShiftClient{
		baseURL:     baseURLOr(baseURL, defaultShiftURL),
		weatherData: weatherData,
		httpClient:  newHTTPClient(timeout),
	}
}

type shiftRequest struct {
	WeatherData [][]float64 `json:"weather_data"`
}

type shiftResponse struct {
	StartShift *int `json:"start_shift"`
	EndShift   *int `json:"end_shift"`
}

// Shift returns the signed day offsets for the start and end of the window.
func (c *ShiftClient) Shift(ctx context.Context) (forecast.Shift, error) {
	if len(c.weatherData) == 0 {
		return forecast.Shift{}, errors.New("shift model: weather data not configured")
	}
	var out shiftResponse
	if err := postJSON(ctx, c.httpClient, c.baseURL, shiftRequest{WeatherData: c.weatherData}, &out); err != nil {
		return forecast.Shift{}, fmt.Errorf("shift model: %w", err)
	}
	if out.StartShift == nil || out.EndShift == nil {
		return forecast.Shift{}, errors.New("shift model: response missing start_shift or end_shift")
	}
	return forecast.Shift{StartDays: *out.StartShift, EndDays: *out.EndShift}, nil
}
