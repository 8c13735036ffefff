package forecast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShiftLegacyDate(t *testing.T) {
	tests := []struct {
		in    string
		delta int
		want  string
	}{
		{"12/04/2025", 5, "17/04/2025"},
		{"28/02/2025", 2, "02/03/2025"},
		{"28/02/2024", 1, "29/02/2024"},
		{"01/01/2025", -1, "31/12/2024"},
		{"15/08/2025", 0, "15/08/2025"},
		{"31/12/2025", 32, "01/02/2026"},
	}
	for _, tc := range tests {
		got, err := ShiftLegacyDate(tc.in, tc.delta)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, "%s %+d", tc.in, tc.delta)
	}
}

func TestShiftLegacyDateRejectsISO(t *testing.T) {
	_, err := ShiftLegacyDate("2025-04-12", 1)
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = ShiftLegacyDate("31/02/2025", 1)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestBloomWindowResolve(t *testing.T) {
	w, err := BloomWindow{Start: "01/08", End: "15/10"}.Resolve(2025)
	require.NoError(t, err)
	require.Equal(t, LegacyWindow{Start: "01/08/2025", End: "15/10/2025"}, w)

	wrapped, err := BloomWindow{Start: "01/12", End: "15/02"}.Resolve(2025)
	require.NoError(t, err)
	require.Equal(t, LegacyWindow{Start: "01/12/2025", End: "15/02/2026"}, wrapped)

	dated, err := BloomWindow{Start: "10/01/2025", End: "25/02/2025"}.Resolve(2030)
	require.NoError(t, err)
	require.Equal(t, LegacyWindow{Start: "10/01/2025", End: "25/02/2025"}, dated)

	_, err = BloomWindow{Start: "30/02", End: "01/03"}.Resolve(2025)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestRequestWindowsDefaultsMissingShift(t *testing.T) {
	nominal := map[Plant]BloomWindow{
		"ragweed": {Start: "01/08", End: "15/10"},
		"birch":   {Start: "01/04", End: "15/05"},
	}
	shifts := map[Plant]Shift{"ragweed": {StartDays: 5, EndDays: -3}}

	windows, err := RequestWindows(nominal, 2025, shifts)
	require.NoError(t, err)
	require.Equal(t, LegacyWindow{Start: "06/08/2025", End: "12/10/2025"}, windows["ragweed"])
	require.Equal(t, LegacyWindow{Start: "01/04/2025", End: "15/05/2025"}, windows["birch"])
}

func TestWindowShiftMatchesLegacy(t *testing.T) {
	w := Window{Start: day(t, "2025-02-27"), End: day(t, "2025-03-02")}
	shifted := w.Shift(Shift{StartDays: 2, EndDays: -2})
	require.Equal(t, LegacyWindow{Start: "01/03/2025", End: "28/02/2025"}, shifted.Legacy())

	back, err := shifted.Legacy().Dates()
	require.NoError(t, err)
	require.Equal(t, shifted, back)
}
