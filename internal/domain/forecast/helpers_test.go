package forecast

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(value)
	require.NoError(t, err)
	return d
}

func table(t *testing.T, values map[string]int) IntensityTable {
	t.Helper()
	out := make(IntensityTable, len(values))
	for k, v := range values {
		out[day(t, k)] = v
	}
	return out
}

// series builds a contiguous table starting at start.
func series(t *testing.T, start string, values ...int) IntensityTable {
	t.Helper()
	first := day(t, start)
	out := make(IntensityTable, len(values))
	for i, v := range values {
		out[first.AddDays(i)] = v
	}
	return out
}
