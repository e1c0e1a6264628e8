// src/services/period.go
package services

import (
	"fmt"
	"strconv"
	"time"
)

// Period is an inclusive [Start, End] date range resolved from optional
// month/year request parameters. A zero value is unbounded (no date filter).
type Period struct {
	Start   time.Time
	End     time.Time
	Bounded bool

	// Original request parameters, kept for labeling and cache keys.
	Month int
	Year  int
}

// ResolvePeriod converts optional month/year parameters (0 meaning absent)
// into an inclusive date range.
//
// month+year spans the first through last calendar day of that month; the end
// is computed as day 0 of the following month, which handles 28/29/30/31-day
// months and leap years. year alone spans Jan 1 through Dec 31. Neither gives
// an unbounded period. Out-of-range inputs are not validated here; they
// resolve deterministically via time.Date normalization.
func ResolvePeriod(month, year int) Period {
	switch {
	case month != 0 && year != 0:
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, End: end, Bounded: true, Month: month, Year: year}
	case year != 0:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, End: end, Bounded: true, Year: year}
	default:
		return Period{}
	}
}

// Label formats the period for response payloads: "M/YYYY" when a month was
// requested, "YYYY" for a whole year, "All time" otherwise.
func (p Period) Label() string {
	switch {
	case p.Month != 0 && p.Year != 0:
		return fmt.Sprintf("%d/%d", p.Month, p.Year)
	case p.Year != 0:
		return strconv.Itoa(p.Year)
	default:
		return "All time"
	}
}
