package forecast

import (
	"sort"

	"cloud.google.com/go/civil"
)

// Blooming is one plant active on a given day.
type Blooming struct {
	Plant     Plant  `json:"plant"`
	Intensity int    `json:"intensity"`
	Bucket    Bucket `json:"bucket"`
	Label     string `json:"label"`
}

// TodaySummary describes what is in the air on one day.
type TodaySummary struct {
	Date     civil.Date `json:"date"`
	Blooming []Blooming `json:"blooming"`
	Max      Bucket     `json:"maxBucket"`
	MaxLabel string     `json:"maxLabel"`
}

// Today lists plants with a positive adjusted intensity on day, strongest first, and the highest
// bucket among them (not in season when none).
func Today(adjusted Forecast, day civil.Date) TodaySummary {
	blooming := make([]Blooming, 0)
	peak := 0
	for plant, table := range adjusted {
		v, ok := table[day]
		if !ok || v <= 0 {
			continue
		}
		b := BucketFor(v)
		blooming = append(blooming, Blooming{Plant: plant, Intensity: v, Bucket: b, Label: b.Label()})
		if v > peak {
			peak = v
		}
	}
	sort.Slice(blooming, func(i, j int) bool {
		if blooming[i].Intensity == blooming[j].Intensity {
			return blooming[i].Plant < blooming[j].Plant
		}
		return blooming[i].Intensity > blooming[j].Intensity
	})
	maxBucket := BucketFor(peak)
	return TodaySummary{Date: day, Blooming: blooming, Max: maxBucket, MaxLabel: maxBucket.Label()}
}
