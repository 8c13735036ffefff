package forecast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// LegacyDateLayout is the DD/MM/YYYY form the prediction service expects for window bounds.
const LegacyDateLayout = "02/01/2006"

// ErrInvalidDate reports a date string that does not match the expected layout.
var ErrInvalidDate = errors.New("invalid date")

// Shift is a signed per-plant day offset for the start and end of a bloom window.
type Shift struct {
	StartDays int `json:"startShift"`
	EndDays   int `json:"endShift"`
}

// Window is a closed range of calendar dates.
type Window struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// Shift moves both bounds independently.
func (w Window) Shift(s Shift) Window {
	return Window{Start: w.Start.AddDays(s.StartDays), End: w.End.AddDays(s.EndDays)}
}

// Legacy formats both bounds as DD/MM/YYYY.
func (w Window) Legacy() LegacyWindow {
	return LegacyWindow{Start: FormatLegacyDate(w.Start), End: FormatLegacyDate(w.End)}
}

// LegacyWindow carries window bounds in DD/MM/YYYY text form.
type LegacyWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Dates parses both bounds.
func (w LegacyWindow) Dates() (Window, error) {
	start, err := ParseLegacyDate(w.Start)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseLegacyDate(w.End)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

// ParseLegacyDate parses DD/MM/YYYY.
func ParseLegacyDate(text string) (civil.Date, error) {
	ts, err := time.Parse(LegacyDateLayout, strings.TrimSpace(text))
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w %q: want DD/MM/YYYY", ErrInvalidDate, text)
	}
	return civil.DateOf(ts), nil
}

// FormatLegacyDate renders DD/MM/YYYY.
func FormatLegacyDate(d civil.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// ShiftLegacyDate adds deltaDays (possibly negative) to a DD/MM/YYYY date with Gregorian rollover.
func ShiftLegacyDate(text string, deltaDays int) (string, error) {
	d, err := ParseLegacyDate(text)
	if err != nil {
		return "", err
	}
	return FormatLegacyDate(d.AddDays(deltaDays)), nil
}

// BloomWindow is the nominal bloom period from static configuration. Bounds are DD/MM/YYYY, or
// year-less DD/MM resolved against a season year.
type BloomWindow struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Resolve pins a year-less window to the given season year. A window whose end falls before its
// start wraps into the following year. Fully dated bounds are returned unchanged.
func (b BloomWindow) Resolve(year int) (LegacyWindow, error) {
	start, startDated, err := resolveBound(b.Start, year)
	if err != nil {
		return LegacyWindow{}, err
	}
	end, endDated, err := resolveBound(b.End, year)
	if err != nil {
		return LegacyWindow{}, err
	}
	if !endDated && !startDated && end.Before(start) {
		end = civil.Date{Year: end.Year + 1, Month: end.Month, Day: end.Day}
	}
	return Window{Start: start, End: end}.Legacy(), nil
}

// Calibrate resolves the window for the season year and applies the shift to each bound.
func (b BloomWindow) Calibrate(year int, s Shift) (LegacyWindow, error) {
	nominal, err := b.Resolve(year)
	if err != nil {
		return LegacyWindow{}, err
	}
	start, err := ShiftLegacyDate(nominal.Start, s.StartDays)
	if err != nil {
		return LegacyWindow{}, err
	}
	end, err := ShiftLegacyDate(nominal.End, s.EndDays)
	if err != nil {
		return LegacyWindow{}, err
	}
	return LegacyWindow{Start: start, End: end}, nil
}

// RequestWindows calibrates every nominal window. Plants without a shift use {0,0}.
func RequestWindows(nominal map[Plant]BloomWindow, year int, shifts map[Plant]Shift) (map[Plant]LegacyWindow, error) {
	out := make(map[Plant]LegacyWindow, len(nominal))
	for plant, window := range nominal {
		calibrated, err := window.Calibrate(year, shifts[plant])
		if err != nil {
			return nil, fmt.Errorf("calibrate %s window: %w", plant, err)
		}
		out[plant] = calibrated
	}
	return out, nil
}

func resolveBound(text string, year int) (civil.Date, bool, error) {
	trimmed := strings.TrimSpace(text)
	parts := strings.Split(trimmed, "/")
	switch len(parts) {
	case 3:
		d, err := ParseLegacyDate(trimmed)
		return d, true, err
	case 2:
		day, dayErr := strconv.Atoi(parts[0])
		month, monthErr := strconv.Atoi(parts[1])
		if dayErr != nil || monthErr != nil {
			return civil.Date{}, false, fmt.Errorf("%w %q: want DD/MM", ErrInvalidDate, text)
		}
		d := civil.Date{Year: year, Month: time.Month(month), Day: day}
		if !d.IsValid() {
			return civil.Date{}, false, fmt.Errorf("%w %q: no such day in %d", ErrInvalidDate, text, year)
		}
		return d, false, nil
	default:
		return civil.Date{}, false, fmt.Errorf("%w %q", ErrInvalidDate, text)
	}
}
