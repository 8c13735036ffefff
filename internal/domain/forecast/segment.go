package forecast

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Selection is either SelectAll or a single plant.
type Selection string

// SelectAll merges every plant into one calendar.
const SelectAll Selection = "All"

// ParseSelection accepts "All" in any case (or an empty string) and otherwise normalizes the plant
// name to match table keys.
func ParseSelection(raw string) Selection {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, string(SelectAll)) {
		return SelectAll
	}
	return Selection(NormalizePlant(trimmed))
}

// All reports whether the selection spans every plant.
func (s Selection) All() bool {
	return s == SelectAll
}

// Segment is the renderable marking of one calendar day.
type Segment struct {
	Intensity int    `json:"intensity"`
	Bucket    Bucket `json:"bucket"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	SpanStart bool   `json:"isSpanStart"`
	SpanEnd   bool   `json:"isSpanEnd"`
}

// Segments converts an adjusted forecast into calendar markings.
//
// Zero-intensity days are never marked. In SelectAll mode not-tracked days are invisible and days
// shared by several plants keep the highest intensity; a later plant only replaces a day when it is
// strictly higher. A span opens on an intensity-1 day whose previous calendar day is absent or 0
// (or that is the plant's first marked day) and closes on an intensity-1 day whose next calendar
// day is absent or 0. Mondays and the first of a month always open a span; Sundays and the last of
// a month always close one.
func Segments(adjusted Forecast, sel Selection, palette Palette) map[civil.Date]Segment {
	all := sel.All()
	plants := []Plant{Plant(sel)}
	if all {
		plants = adjusted.Plants()
	}

	out := make(map[civil.Date]Segment)
	for _, plant := range plants {
		table, ok := adjusted[plant]
		if !ok {
			continue
		}
		first := true
		for _, d := range table.SortedDates() {
			intensity := table[d]
			existing, seen := out[d]
			if all {
				if intensity == NotTracked {
					continue
				}
				if seen && existing.Intensity > intensity {
					intensity = existing.Intensity
				}
			}
			if intensity == 0 {
				continue
			}

			opens := intensity == ActiveIntensity && (first || quiet(table, d.AddDays(-1)))
			closes := intensity == ActiveIntensity && quiet(table, d.AddDays(1))
			first = false

			if seen && intensity <= existing.Intensity {
				continue
			}
			bucket := BucketFor(intensity)
			out[d] = Segment{
				Intensity: intensity,
				Bucket:    bucket,
				Label:     bucket.Label(),
				Color:     palette.Color(bucket),
				SpanStart: opens || isWeekStart(d) || d.Day == 1,
				SpanEnd:   closes || isWeekEnd(d) || isLastOfMonth(d),
			}
		}
	}
	return out
}

func quiet(table IntensityTable, d civil.Date) bool {
	v, ok := table[d]
	return !ok || v == 0
}

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

func isWeekStart(d civil.Date) bool { return weekday(d) == time.Monday }

func isWeekEnd(d civil.Date) bool { return weekday(d) == time.Sunday }

func isLastOfMonth(d civil.Date) bool { return d.AddDays(1).Day == 1 }
