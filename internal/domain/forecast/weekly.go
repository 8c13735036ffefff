package forecast

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// WeekOf returns Monday..Sunday of the week containing ref. A Sunday closes its own week.
func WeekOf(ref civil.Date) [7]civil.Date {
	offset := (int(weekday(ref)) + 6) % 7
	monday := ref.AddDays(-offset)
	var week [7]civil.Date
	for i := range week {
		week[i] = monday.AddDays(i)
	}
	return week
}

// AggregateWeek returns, for each day of ref's week, one value per plant in Plants() order. Slot i
// always belongs to Plants()[i]; a plant without data for the day contributes 0.
func AggregateWeek(adjusted Forecast, ref civil.Date) map[civil.Date][]int {
	plants := adjusted.Plants()
	out := make(map[civil.Date][]int, 7)
	for _, day := range WeekOf(ref) {
		values := make([]int, len(plants))
		for i, plant := range plants {
			values[i] = adjusted[plant][day]
		}
		out[day] = values
	}
	return out
}

// DayPeak is one point of the weekly chart.
type DayPeak struct {
	Date    civil.Date   `json:"date"`
	Weekday time.Weekday `json:"-"`
	Peak    int          `json:"peak"`
	Bucket  Bucket       `json:"bucket"`
}

// WeeklyPeaks reduces aggregated days to max(0, values...) per day, in date order. Padding has
// already happened, so plants without data count as 0 and not-tracked values never win.
func WeeklyPeaks(week map[civil.Date][]int) []DayPeak {
	days := make([]civil.Date, 0, len(week))
	for d := range week {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	peaks := make([]DayPeak, 0, len(days))
	for _, d := range days {
		peak := 0
		for _, v := range week[d] {
			if v > peak {
				peak = v
			}
		}
		peaks = append(peaks, DayPeak{Date: d, Weekday: weekday(d), Peak: peak, Bucket: BucketFor(peak)})
	}
	return peaks
}
