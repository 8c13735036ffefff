package forecast

import (
	"fmt"
	"math"
)

// Adjust rescales each plant's raw table to the user's sensitivity level.
//
// A plant missing from levels uses DefaultLevel. Level 0 maps every date to NotTracked. Otherwise
// each value becomes round(raw / maxRaw * level), where maxRaw is the plant's own peak over its
// window. A plant whose peak is 0 adjusts to 0 on every date. Levels and raw values are clamped to
// [0,5] first. The output has exactly the input's (plant, date) keys.
func Adjust(raw Forecast, levels Levels) Forecast {
	out := make(Forecast, len(raw))
	for plant, table := range raw {
		level, ok := levels[plant]
		if !ok {
			level = DefaultLevel
		}
		out[plant] = adjustTable(table, clamp(level, MinIntensity, MaxIntensity))
	}
	return out
}

func adjustTable(table IntensityTable, level int) IntensityTable {
	adjusted := make(IntensityTable, len(table))
	if level == 0 {
		for d := range table {
			adjusted[d] = NotTracked
		}
		return adjusted
	}

	maxRaw := MinIntensity
	for _, v := range table {
		if c := clamp(v, MinIntensity, MaxIntensity); c > maxRaw {
			maxRaw = c
		}
	}
	for d, v := range table {
		if maxRaw == 0 {
			adjusted[d] = 0
			continue
		}
		scaled := float64(clamp(v, MinIntensity, MaxIntensity)) / float64(maxRaw) * float64(level)
		adjusted[d] = int(math.Round(scaled))
	}
	return adjusted
}

// ValidateRaw rejects raw tables holding values outside [0,5]. Callers run it where predictions
// enter the system so derivations never see out-of-range input.
func ValidateRaw(raw Forecast) error {
	for plant, table := range raw {
		for d, v := range table {
			if v < MinIntensity || v > MaxIntensity {
				return fmt.Errorf("plant %s on %s: intensity %d outside [%d,%d]", plant, d, v, MinIntensity, MaxIntensity)
			}
		}
	}
	return nil
}

// ClampLevels returns a copy of levels with every value forced into [0,5].
func ClampLevels(levels Levels) Levels {
	out := make(Levels, len(levels))
	for plant, level := range levels {
		out[plant] = clamp(level, MinIntensity, MaxIntensity)
	}
	return out
}
