// Package calendar converts timestamps for legislative records and maps
// dates onto legislative years and congress numbers.
package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata" // America/New_York must resolve on hosts without zoneinfo
)

// firstCongressOffset aligns (year+1)/2 with the congress number: 2023 is the 118th
const firstCongressOffset = 894

var eastern = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

// Eastern returns the America/New_York location
func Eastern() *time.Location {
	return eastern
}

// InEastern converts t to Eastern wall-clock time
func InEastern(t time.Time) time.Time {
	return t.In(eastern)
}

// RFC3339 reads t's wall clock as local time and formats it with the local
// UTC offset, truncated to the second
func RFC3339(t time.Time) string {
	return rfc3339In(t, time.Local)
}

func rfc3339In(t time.Time, loc *time.Location) string {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	return wall.Format(time.RFC3339)
}

// LegislativeYear returns the session year a moment belongs to. Sessions
// convene at noon on January 3rd, so anything before that counts toward the
// previous year.
func LegislativeYear(t time.Time) int {
	if t.Month() == time.January {
		switch {
		case t.Day() == 1 || t.Day() == 2:
			return t.Year() - 1
		case t.Day() == 3 && t.Hour() < 12:
			return t.Year() - 1
		}
	}
	return t.Year()
}

// CurrentLegislativeYear is LegislativeYear for the current Eastern time
func CurrentLegislativeYear() int {
	return LegislativeYear(time.Now().In(eastern))
}

// CongressForYear returns the congress sitting in a legislative year
func CongressForYear(year int) int {
	return (year+1)/2 - firstCongressOffset
}

// CurrentCongress is CongressForYear for the current legislative year
func CurrentCongress() int {
	return CongressForYear(CurrentLegislativeYear())
}

// YearsForCongress returns the two legislative years a congress spans
func YearsForCongress(congress int) [2]int {
	first := (congress+firstCongressOffset)*2 - 1
	return [2]int{first, first + 1}
}

// YearForSession returns the legislative year of session 1 or 2 of a congress
func YearForSession(congress, session int) (int, error) {
	if session != 1 && session != 2 {
		return 0, fmt.Errorf("unsupported session %d for congress %d", session, congress)
	}
	return YearsForCongress(congress)[session-1], nil
}
