// Package recurrence decides whether a shift has an occurrence on a given
// calendar date. It is a pure predicate over the shift definition; expanding a
// date range is an O(shifts x dates) scan by the caller.
package recurrence

import (
	"time"

	"github.com/oakmont-pd/patrol-roster/backend/internal/domain"
)

const isoDate = "2006-01-02"

// OccursOn reports whether the shift has an occurrence on the calendar date
// of the given time. Time-of-day and zone offsets of date are ignored.
//
// For a non-recurring shift this is a plain calendar-date comparison against
// StartTime. For a recurring shift, exception dates and the inclusive EndsOn
// bound are checked before any pattern matching:
//
//   - daily matches every date; there is deliberately no lower bound at the
//     first occurrence's date
//   - weekly and biweekly match on day-of-week membership only; Interval is
//     not consulted
//   - monthly and custom have no expansion defined yet and match nothing
func OccursOn(s *domain.Shift, date time.Time) bool {
	if !s.IsRecurring() {
		return SameDate(s.StartTime, date)
	}

	r := s.Recurrence

	for _, exception := range r.Exceptions {
		if exception == date.Format(isoDate) {
			return false
		}
	}
	if r.EndsOn != nil && DateOnly(date).After(DateOnly(*r.EndsOn)) {
		return false
	}

	switch r.Pattern {
	case domain.RecurrenceDaily:
		return true
	case domain.RecurrenceWeekly, domain.RecurrenceBiweekly:
		weekday := int(date.Weekday())
		for _, day := range r.DaysOfWeek {
			if day == weekday {
				return true
			}
		}
		return false
	default:
		// monthly and custom patterns are an open extension point
		return false
	}
}

// DateOnly truncates t to midnight of its calendar date, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
