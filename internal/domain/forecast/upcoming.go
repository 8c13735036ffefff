package forecast

import (
	"sort"

	"cloud.google.com/go/civil"
)

// UpcomingBloom is a plant whose season starts after today.
type UpcomingBloom struct {
	Plant Plant      `json:"plant"`
	Date  civil.Date `json:"date"`
}

// Upcoming finds, per plant, the earliest date after now with intensity exactly ActiveIntensity,
// and returns the nearest limit of them in ascending date order. Same-day starts are ordered by
// plant name.
func Upcoming(adjusted Forecast, now civil.Date, limit int) []UpcomingBloom {
	if limit <= 0 {
		return []UpcomingBloom{}
	}
	candidates := make([]UpcomingBloom, 0, len(adjusted))
	for _, plant := range adjusted.Plants() {
		table := adjusted[plant]
		for _, d := range table.SortedDates() {
			if table[d] == ActiveIntensity && d.After(now) {
				candidates = append(candidates, UpcomingBloom{Plant: plant, Date: d})
				break
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Date.Before(candidates[j].Date)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
