// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"fmt"
	"time"
)

// ABNT abbreviations of month names. "maio" is short enough that it takes
// no period.
var monthAbbrev = [...]string{
	time.January:   "jan.",
	time.February:  "fev.",
	time.March:     "mar.",
	time.April:     "abr.",
	time.May:       "maio",
	time.June:      "jun.",
	time.July:      "jul.",
	time.August:    "ago.",
	time.September: "set.",
	time.October:   "out.",
	time.November:  "nov.",
	time.December:  "dez.",
}

// AccessDate formats t the way ABNT writes access dates: "01 jan. 2024".
func AccessDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), monthAbbrev[t.Month()], t.Year())
}

// MonthAbbrev returns the ABNT abbreviation for m.
func MonthAbbrev(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbrev[m]
}
