package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/pollen-calendar/internal/domain/allergy"
	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
)

const (
	testShiftURL     = "https://shift.example.com/predict"
	testIntensityURL = "https://intensity.example.com/predict"
)

func TestShiftClient(t *testing.T) {
	client := NewShiftClient(testShiftURL+"/", [][]float64{{7, 30, 60, 30, 0}}, time.Second)
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, testShiftURL, func(req *http.Request) (*http.Response, error) {
		var body shiftRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.Equal(t, [][]float64{{7, 30, 60, 30, 0}}, body.WeatherData)
		return httpmock.NewJsonResponse(http.StatusOK, map[string]int{"start_shift": -4, "end_shift": 6})
	})

	shift, err := client.Shift(context.Background())
	require.NoError(t, err)
	require.Equal(t, forecast.Shift{StartDays: -4, EndDays: 6}, shift)
}

func TestShiftClientErrors(t *testing.T) {
	client := NewShiftClient(testShiftURL, [][]float64{{1}}, time.Second)
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, testShiftURL, httpmock.NewStringResponder(http.StatusBadGateway, "upstream"))
	_, err := client.Shift(context.Background())
	require.ErrorContains(t, err, "status=502")

	httpmock.RegisterResponder(http.MethodPost, testShiftURL, httpmock.NewStringResponder(http.StatusOK, `{"start_shift": 3}`))
	_, err = client.Shift(context.Background())
	require.ErrorContains(t, err, "missing")

	_, err = NewShiftClient(testShiftURL, nil, 0).Shift(context.Background())
	require.Error(t, err)
}

func TestIntensityClient(t *testing.T) {
	client := NewIntensityClient(testIntensityURL, "Europe/Vienna", time.Second)
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder(http.MethodPost, testIntensityURL, func(req *http.Request) (*http.Response, error) {
		var body intensityRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		require.Equal(t, intensityRequest{
			StartDate: "06/08/2025",
			EndDate:   "12/10/2025",
			Latitude:  "48.21",
			Longitude: "16.37",
			Timezone:  "Europe/Vienna",
		}, body)
		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
			"updated_array": []int{0, 3},
			"updated_dict":  map[string]int{"2025-08-06": 0, "2025-08-07": 3},
		})
	})

	table, err := client.Intensity(context.Background(), allergy.IntensityRequest{
		Plant:     "ragweed",
		Window:    forecast.LegacyWindow{Start: "06/08/2025", End: "12/10/2025"},
		Latitude:  48.21,
		Longitude: 16.37,
	})
	require.NoError(t, err)
	require.Equal(t, forecast.IntensityTable{
		civil.Date{Year: 2025, Month: time.August, Day: 6}: 0,
		civil.Date{Year: 2025, Month: time.August, Day: 7}: 3,
	}, table)
	require.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestIntensityClientMalformed(t *testing.T) {
	client := NewIntensityClient(testIntensityURL, "", time.Second)
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	req := allergy.IntensityRequest{Plant: "birch", Window: forecast.LegacyWindow{Start: "01/04/2025", End: "15/05/2025"}}

	httpmock.RegisterResponder(http.MethodPost, testIntensityURL,
		httpmock.NewStringResponder(http.StatusOK, `{"updated_dict": {"01/04/2025": 2}}`))
	_, err := client.Intensity(context.Background(), req)
	require.ErrorContains(t, err, "malformed date key")

	httpmock.RegisterResponder(http.MethodPost, testIntensityURL,
		httpmock.NewStringResponder(http.StatusOK, `{"updated_array": []}`))
	_, err = client.Intensity(context.Background(), req)
	require.ErrorContains(t, err, "updated_dict")

	httpmock.RegisterResponder(http.MethodPost, testIntensityURL,
		httpmock.NewStringResponder(http.StatusOK, `not json`))
	_, err = client.Intensity(context.Background(), req)
	require.ErrorContains(t, err, "decode response")
}
