// Package series turns raw statistics-API rows into clean, time-ordered,
// windowed numeric series.
package series

import (
	"sort"
	"strings"

	"econdash/internal/model"
)

// Observation is one raw row as reported by the statistics API: a date that
// should parse to a year, and a value that may be missing.
type Observation struct {
	Date  string
	Value *float64
}

// Normalize filters out rows with missing values or unparseable dates, orders
// the remainder ascending by year, and keeps only the last window points.
// Pure function: empty input yields an empty series, never an error.
func Normalize(rows []Observation, window int) model.Series {
	out := make(model.Series, 0, len(rows))
	for _, r := range rows {
		if r.Value == nil {
			continue
		}
		year, ok := parseYear(r.Date)
		if !ok {
			continue
		}
		out = append(out, model.Point{Year: year, Value: *r.Value})
	}

	// Stable keeps source order for duplicate years; the API reports one row
	// per year so ties are not expected, and they are not deduplicated.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })

	if window >= 0 && len(out) > window {
		out = out[len(out)-window:]
	}
	return out
}

// parseYear extracts the leading integer from a date string: "2023" and
// "2023Q1" both yield 2023. Reports false when no leading digits exist.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	n := 0
	digits := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
