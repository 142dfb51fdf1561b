package booking

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventspace/internal/domain"
)

const dateLayout = "2006-01-02"

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Window is a requested reservation slot: calendar dates plus HH:MM
// times of day.
type Window struct {
	StartDate time.Time
	EndDate   time.Time
	StartTime string
	EndTime   string
}

// Start combines the start date and start time into one instant.
func (w Window) Start() time.Time {
	return at(w.StartDate, w.StartTime)
}

// End combines the end date and end time into one instant.
func (w Window) End() time.Time {
	return at(w.EndDate, w.EndTime)
}

func at(day time.Time, clock string) time.Time {
	m, _ := clockMinutes(clock)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(m) * time.Minute)
}

// clockMinutes parses an HH:MM string into minutes since midnight.
func clockMinutes(s string) (int, error) {
	if !clockPattern.MatchString(s) {
		return 0, errors.New("invalid time format (HH:MM)")
	}
	parts := strings.SplitN(s, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.New("invalid date format (YYYY-MM-DD)")
	}
	return d, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// conflictsWith decides whether the window truly collides with an
// existing booking from the coarse candidate set. The time-of-day
// comparison only applies when both reservations start on the same
// calendar day; windows that merely touch (one ends exactly when the
// other starts) do not conflict.
func (w Window) conflictsWith(b domain.Booking) bool {
	if !sameDay(b.StartDate, w.StartDate) {
		return false
	}

	// Times were validated when the candidate was written.
	reqStart, _ := clockMinutes(w.StartTime)
	reqEnd, _ := clockMinutes(w.EndTime)
	exStart, _ := clockMinutes(b.StartTime)
	exEnd, _ := clockMinutes(b.EndTime)

	return reqStart < exEnd && reqEnd > exStart
}

// hasConflict applies the fine filter over coarse candidates.
func hasConflict(candidates []domain.Booking, w Window) bool {
	for _, c := range candidates {
		if w.conflictsWith(c) {
			return true
		}
	}
	return false
}
