package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeekOfStartsMonday(t *testing.T) {
	for _, ref := range []string{"2025-09-01", "2025-09-04", "2025-09-07"} {
		week := WeekOf(day(t, ref))
		require.Equal(t, day(t, "2025-09-01"), week[0], ref)
		require.Equal(t, day(t, "2025-09-07"), week[6], ref)
	}

	next := WeekOf(day(t, "2025-09-08"))
	require.Equal(t, day(t, "2025-09-08"), next[0])
}

func TestAggregateWeekPadsToPlantCount(t *testing.T) {
	adjusted := Forecast{
		"birch":   series(t, "2025-09-01", 1, 2),
		"nettle":  IntensityTable{day(t, "2025-09-02"): NotTracked},
		"ragweed": series(t, "2025-09-02", 3, 4, 5, 0, 1, 2, 3),
	}

	week := AggregateWeek(adjusted, day(t, "2025-09-03"))

	require.Len(t, week, 7)
	for d, values := range week {
		require.Len(t, values, 3, d.String())
	}
	require.Equal(t, []int{1, 0, 0}, week[day(t, "2025-09-01")])
	require.Equal(t, []int{2, NotTracked, 3}, week[day(t, "2025-09-02")])
	require.Equal(t, []int{0, 0, 2}, week[day(t, "2025-09-07")])
}

func TestAggregateWeekSlotsFollowPlantOrder(t *testing.T) {
	adjusted := Forecast{
		"birch":   IntensityTable{},
		"mugwort": series(t, "2025-09-05", 2),
		"ragweed": IntensityTable{day(t, "2025-09-03"): 4},
	}
	plants := adjusted.Plants()

	week := AggregateWeek(adjusted, day(t, "2025-09-03"))

	for d, values := range week {
		require.Len(t, values, len(plants), d.String())
		for i, plant := range plants {
			require.Equal(t, adjusted[plant][d], values[i], "%s on %s", plant, d)
		}
	}
	require.Equal(t, []int{0, 0, 4}, week[day(t, "2025-09-03")])
	require.Equal(t, []int{0, 2, 0}, week[day(t, "2025-09-05")])
}

func TestWeeklyPeaks(t *testing.T) {
	adjusted := Forecast{
		"birch":   series(t, "2025-09-01", 1, 2),
		"nettle":  series(t, "2025-09-01", NotTracked, NotTracked),
		"ragweed": series(t, "2025-09-02", 3, 4, 5, 0, 1, 2),
	}

	peaks := WeeklyPeaks(AggregateWeek(adjusted, day(t, "2025-09-07")))

	require.Len(t, peaks, 7)
	want := []int{1, 3, 4, 5, 0, 1, 2}
	for i, p := range peaks {
		require.Equal(t, want[i], p.Peak, p.Date.String())
		require.Equal(t, BucketFor(want[i]), p.Bucket)
	}
	require.Equal(t, time.Monday, peaks[0].Weekday)
	require.Equal(t, time.Sunday, peaks[6].Weekday)
}

func TestWeeklyPeaksNeverNegative(t *testing.T) {
	adjusted := Forecast{"nettle": series(t, "2025-09-01", NotTracked, NotTracked, NotTracked)}

	for _, p := range WeeklyPeaks(AggregateWeek(adjusted, day(t, "2025-09-01"))) {
		require.Equal(t, 0, p.Peak)
		require.Equal(t, BucketNotInSeason, p.Bucket)
	}
}
