package prediction

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
)

// IntensityClient fetches the daily intensity table of one plant for a calibrated window.
type IntensityClient struct {
	baseURL    string
	timezone   string
	httpClient *http.Client
}

var _ allergy.IntensityClient = (*IntensityClient)(nil)

// NewIntensityClient builds the intensity model client. timezone is forwarded to the model as an
// IANA name.
func NewIntensityClient(baseURL, timezone string, timeout time.Duration) *IntensityClient {
	tz := strings.TrimSpace(timezone)
	if tz == "" {
		tz = "UTC"
	}
	return &IntensityClient{
		baseURL:    baseURLOr(baseURL, defaultIntensityURL),
		timezone:   tz,
		httpClient: newHTTPClient(timeout),
	}
}

type intensityRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Timezone  string `json:"timezone"`
}

type intensityResponse struct {
	UpdatedDict map[string]int `json:"updated_dict"`
}

// Intensity returns the raw table keyed by calendar date. Any key that is not YYYY-MM-DD makes the
// whole table malformed.
func (c *IntensityClient) Intensity(ctx context.Context, req allergy.IntensityRequest) (forecast.IntensityTable, error) {
	body := intensityRequest{
		StartDate: req.Window.Start,
		EndDate:   req.Window.End,
		Latitude:  strconv.FormatFloat(req.Latitude, 'f', -1, 64),
		Longitude: strconv.FormatFloat(req.Longitude, 'f', -1, 64),
		Timezone:  c.timezone,
	}
	var out intensityResponse
	if err := postJSON(ctx, c.httpClient, c.baseURL, body, &out); err != nil {
		return nil, fmt.Errorf("intensity model %s: %w", req.Plant, err)
	}
	if out.UpdatedDict == nil {
		return nil, fmt.Errorf("intensity model %s: response missing updated_dict", req.Plant)
	}
	table, err := toTable(out.UpdatedDict)
	if err != nil {
		return nil, fmt.Errorf("intensity model %s: %w", req.Plant, err)
	}
	return table, nil
}

func toTable(dict map[string]int) (forecast.IntensityTable, error) {
	table := make(forecast.IntensityTable, len(dict))
	for key, value := range dict {
		d, err := civil.ParseDate(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("malformed date key %q: %w", key, err)
		}
		table[d] = value
	}
	return table, nil
}
