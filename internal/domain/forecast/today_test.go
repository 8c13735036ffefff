package forecast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTodayListsActivePlants(t *testing.T) {
	d := day(t, "2025-09-01")
	adjusted := Forecast{
		"alder":   IntensityTable{d: 2},
		"birch":   IntensityTable{d: 4},
		"nettle":  IntensityTable{d: NotTracked},
		"poplar":  IntensityTable{d: 0},
		"ragweed": IntensityTable{d: 2},
	}

	got := Today(adjusted, d)

	require.Equal(t, d, got.Date)
	require.Equal(t, []Blooming{
		{Plant: "birch", Intensity: 4, Bucket: BucketHigh, Label: "High"},
		{Plant: "alder", Intensity: 2, Bucket: BucketLow, Label: "Low"},
		{Plant: "ragweed", Intensity: 2, Bucket: BucketLow, Label: "Low"},
	}, got.Blooming)
	require.Equal(t, BucketHigh, got.Max)
	require.Equal(t, "High", got.MaxLabel)
}

func TestTodayNothingInSeason(t *testing.T) {
	got := Today(Forecast{"alder": series(t, "2025-03-01", 1)}, day(t, "2025-09-01"))

	require.Empty(t, got.Blooming)
	require.NotNil(t, got.Blooming)
	require.Equal(t, BucketNotInSeason, got.Max)
	require.Equal(t, "Not in season", got.MaxLabel)
}
