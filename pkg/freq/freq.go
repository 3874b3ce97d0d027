// Package freq parses pandas-style frequency tags ("5min", "H", "D", "W",
// "M", "Q", "Y") into a period step and a seasonality integer, and advances
// timestamps by whole periods. Month-based frequencies use calendar
// arithmetic rather than a fixed duration.
package freq

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Freq is a parsed frequency: either a fixed duration step or a number of
// calendar months per period.
type Freq struct {
	tag         string
	multiple    int
	step        time.Duration // zero when months != 0
	months      int
	seasonality int // seasonality of the base (multiple == 1) frequency
}

type baseFreq struct {
	step        time.Duration
	months      int
	seasonality int
}

// Seasonality defaults follow the common forecasting convention: the number
// of periods in the "natural" season of the base frequency.
var baseFreqs = map[string]baseFreq{
	"S":   {step: time.Second, seasonality: 3600},
	"T":   {step: time.Minute, seasonality: 1440},
	"MIN": {step: time.Minute, seasonality: 1440},
	"H":   {step: time.Hour, seasonality: 24},
	"D":   {step: 24 * time.Hour, seasonality: 7},
	"B":   {step: 24 * time.Hour, seasonality: 5},
	"W":   {step: 7 * 24 * time.Hour, seasonality: 52},
	"M":   {months: 1, seasonality: 12},
	"ME":  {months: 1, seasonality: 12},
	"Q":   {months: 3, seasonality: 4},
	"QE":  {months: 3, seasonality: 4},
	"Y":   {months: 12, seasonality: 1},
	"A":   {months: 12, seasonality: 1},
}

// Parse parses a frequency tag such as "H", "15min", "2W" or "3M".
// Tags are case-insensitive. Suffixes like "W-SUN" or "Q-DEC" are accepted
// and reduced to their base frequency.
func Parse(tag string) (Freq, error) {
	orig := tag
	s := strings.ToUpper(strings.TrimSpace(tag))
	if s == "" {
		return Freq{}, fmt.Errorf("freq: empty frequency tag")
	}

	// Leading multiple, e.g. "15" in "15min".
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	multiple := 1
	if i > 0 {
		m, err := strconv.Atoi(s[:i])
		if err != nil || m <= 0 {
			return Freq{}, fmt.Errorf("freq: invalid multiple in %q", orig)
		}
		multiple = m
	}
	base := s[i:]
	// Drop anchoring suffixes such as "-SUN" or "-DEC".
	if j := strings.IndexByte(base, '-'); j >= 0 {
		base = base[:j]
	}

	bf, ok := baseFreqs[base]
	if !ok {
		return Freq{}, fmt.Errorf("freq: unsupported frequency tag %q", orig)
	}
	return Freq{
		tag:         orig,
		multiple:    multiple,
		step:        bf.step * time.Duration(multiple),
		months:      bf.months * multiple,
		seasonality: bf.seasonality,
	}, nil
}

// MustParse is Parse for static tags; it panics on error.
func MustParse(tag string) Freq {
	f, err := Parse(tag)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the original tag.
func (f Freq) String() string { return f.tag }

// Step returns the duration of one period for duration-based frequencies,
// and zero for month-based ones.
func (f Freq) Step() time.Duration { return f.step }

// Advance moves t forward by n periods (backward for negative n).
func (f Freq) Advance(t time.Time, n int) time.Time {
	if f.months != 0 {
		return t.AddDate(0, f.months*n, 0)
	}
	return t.Add(f.step * time.Duration(n))
}

// Seasonality returns the number of periods per natural season, adjusted for
// the tag's multiple; 1 when the season does not divide evenly.
func (f Freq) Seasonality() int {
	if f.multiple > 1 {
		if f.seasonality%f.multiple == 0 {
			return f.seasonality / f.multiple
		}
		return 1
	}
	return f.seasonality
}
