// Package calendar builds the business-day index that drives a simulation:
// every Monday through Friday in a calendar range, with no holiday calendar.
// Frontier markets rarely share a usable holiday feed, so weekends are the
// only days excluded and exchange holidays simply receive a simulated price.
package calendar

import (
	"errors"
	"time"
)

// DateLayout is the wire format for dates in configuration and output files.
const DateLayout = "2006-01-02"

// ErrEndBeforeStart is returned when the range bounds are reversed.
var ErrEndBeforeStart = errors.New("end date precedes start date")

// BusinessDays returns every weekday from start to end, both inclusive,
// in strictly increasing order. Time-of-day and zone are ignored; each
// returned entry is truncated to midnight in the start date's location.
//
// A range that covers only weekend days yields an empty, non-nil slice and
// no error; deciding whether an empty index is fatal is the caller's call.
func BusinessDays(start, end time.Time) ([]time.Time, error) {
	s := truncateToDate(start)
	e := truncateToDate(end)
	if e.Before(s) {
		return nil, ErrEndBeforeStart
	}

	out := make([]time.Time, 0, estimateBusinessDays(s, e))
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if IsWeekday(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// IsWeekday reports whether d falls on Monday through Friday.
func IsWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// estimateBusinessDays sizes the result slice: 5 weekdays per 7 calendar
// days, rounded up. It is a capacity hint only.
func estimateBusinessDays(s, e time.Time) int {
	calDays := int(e.Sub(s).Hours()/24) + 1
	return (calDays*5 + 6) / 7
}
