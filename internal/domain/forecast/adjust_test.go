package forecast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdjustRescalesToLevel(t *testing.T) {
	raw := Forecast{"ragweed": table(t, map[string]int{
		"2025-09-01": 0, "2025-09-02": 2, "2025-09-03": 4, "2025-09-04": 0,
	})}

	got := Adjust(raw, Levels{"ragweed": 2})

	require.Equal(t, table(t, map[string]int{
		"2025-09-01": 0, "2025-09-02": 1, "2025-09-03": 2, "2025-09-04": 0,
	}), got["ragweed"])
}

func TestAdjustLevelZeroSuppressesEveryDate(t *testing.T) {
	raw := Forecast{"ragweed": table(t, map[string]int{
		"2025-09-01": 0, "2025-09-02": 2, "2025-09-03": 4, "2025-09-04": 0,
	})}

	got := Adjust(raw, Levels{"ragweed": 0})

	require.Len(t, got["ragweed"], 4)
	for d, v := range got["ragweed"] {
		require.Equal(t, NotTracked, v, d.String())
	}
}

func TestAdjustMissingLevelDefaultsToOne(t *testing.T) {
	raw := Forecast{"birch": series(t, "2025-04-01", 0, 1, 3, 5, 2)}

	got := Adjust(raw, Levels{})

	require.Equal(t, series(t, "2025-04-01", 0, 0, 1, 1, 0), got["birch"])
}

func TestAdjustZeroPeakYieldsZeros(t *testing.T) {
	raw := Forecast{"nettle": series(t, "2025-06-01", 0, 0, 0)}

	got := Adjust(raw, Levels{"nettle": 4})

	require.Equal(t, series(t, "2025-06-01", 0, 0, 0), got["nettle"])
}

func TestAdjustClampsOutOfRangeLevel(t *testing.T) {
	raw := Forecast{"alder": series(t, "2025-03-01", 1, 2)}

	require.Equal(t, series(t, "2025-03-01", 3, 5), Adjust(raw, Levels{"alder": 9})["alder"])
	require.Equal(t, series(t, "2025-03-01", NotTracked, NotTracked), Adjust(raw, Levels{"alder": -2})["alder"])
}

func TestAdjustKeepsKeySetAndInput(t *testing.T) {
	raw := Forecast{
		"ragweed": series(t, "2025-08-01", 0, 1, 2, 3),
		"birch":   series(t, "2025-04-10", 5, 4),
	}
	snapshot := Forecast{
		"ragweed": series(t, "2025-08-01", 0, 1, 2, 3),
		"birch":   series(t, "2025-04-10", 5, 4),
	}

	first := Adjust(raw, Levels{"ragweed": 3, "unknown": 2})
	second := Adjust(raw, Levels{"ragweed": 3, "unknown": 2})

	require.Equal(t, first, second)
	require.Equal(t, snapshot, raw)
	require.Len(t, first, 2)
	for plant, tbl := range raw {
		require.Len(t, first[plant], len(tbl))
		for d := range tbl {
			_, ok := first[plant][d]
			require.True(t, ok)
		}
	}
}

func TestAdjustStaysWithinLevel(t *testing.T) {
	raw := series(t, "2025-05-01", 0, 1, 2, 3, 4, 5)
	for peak := 1; peak <= MaxIntensity; peak++ {
		window := series(t, "2025-05-01", 0, 1, 2, 3, 4, 5)
		for d, v := range raw {
			if v > peak {
				delete(window, d)
			}
		}
		for level := 1; level <= MaxIntensity; level++ {
			got := Adjust(Forecast{"p": window}, Levels{"p": level})["p"]
			for d, v := range got {
				require.GreaterOrEqual(t, v, 0)
				require.LessOrEqual(t, v, level)
				if window[d] == peak {
					require.Equal(t, level, v)
				}
			}
		}
	}
}

func TestValidateRaw(t *testing.T) {
	require.NoError(t, ValidateRaw(Forecast{"birch": series(t, "2025-04-01", 0, 5)}))
	require.Error(t, ValidateRaw(Forecast{"birch": series(t, "2025-04-01", 0, 6)}))
	require.Error(t, ValidateRaw(Forecast{"birch": series(t, "2025-04-01", -1)}))
	require.NoError(t, ValidateRaw(Forecast{}))
}
