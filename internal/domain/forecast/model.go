// Package forecast turns per-plant pollen predictions into the values the app renders: calibrated
// bloom windows, sensitivity-adjusted intensity tables, calendar segments, weekly series and
// upcoming season starts.
//
// Every function in this package is pure. Inputs are never mutated and outputs are freshly
// allocated, so callers may recompute on every change without coordinating.
package forecast

import (
	"sort"
	"strings"

	"cloud.google.com/go/civil"
)

const (
	// MinIntensity and MaxIntensity bound raw predictions and sensitivity levels.
	MinIntensity = 0
	MaxIntensity = 5
	// NotTracked marks every date of a plant the user is not allergic to.
	NotTracked = -1
	// ActiveIntensity is the lowest in-season level; spans open and close on it.
	ActiveIntensity = 1
	// DefaultLevel applies to plants missing from the sensitivity map.
	DefaultLevel = 1
)

// Plant identifies one tracked species, e.g. "ragweed".
type Plant string

// NormalizePlant lower-cases and trims a plant name so it matches table keys.
func NormalizePlant(name string) Plant {
	return Plant(strings.ToLower(strings.TrimSpace(name)))
}

// IntensityTable maps calendar dates to an integer intensity.
type IntensityTable map[civil.Date]int

// Forecast holds one intensity table per plant. The same shape carries raw predictions and
// adjusted tables.
type Forecast map[Plant]IntensityTable

// Levels holds the user's sensitivity per plant in [0,5]; 0 means not allergic.
type Levels map[Plant]int

// Plants returns the plants present in the forecast in sorted order.
func (f Forecast) Plants() []Plant {
	plants := make([]Plant, 0, len(f))
	for plant := range f {
		plants = append(plants, plant)
	}
	sortPlants(plants)
	return plants
}

// SortedDates returns the table's dates in ascending calendar order.
func (t IntensityTable) SortedDates() []civil.Date {
	dates := make([]civil.Date, 0, len(t))
	for d := range t {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func sortPlants(plants []Plant) {
	sort.Slice(plants, func(i, j int) bool { return plants[i] < plants[j] })
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
