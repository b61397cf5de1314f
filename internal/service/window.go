package service

import (
	"time"
)

const (
	// DateLayout is the dd-mm-yyyy form of explicit dates and series buckets.
	DateLayout = "02-01-2006"
	// TimestampLayout formats respondent table timestamps.
	TimestampLayout = "2006-01-02 15:04:05"
)

// DateFilter names a preset window.
type DateFilter string

const (
	Monthly DateFilter = "monthly"
	Yearly  DateFilter = "yearly"
)

// Window is an inclusive [Start, End] range of submission times.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ResolveWindow turns the request selectors into a concrete window.
// An explicit start/end pair wins over the preset; if either date is
// missing the preset is used. Presets are evaluated in now's location.
func ResolveWindow(filter DateFilter, startDate, endDate string, now time.Time) (Window, error) {
	if startDate != "" && endDate != "" {
		return explicitWindow(startDate, endDate, now.Location())
	}

	switch filter {
	case Monthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Window{Start: start, End: monthlyUpperBound(start)}, nil
	case Yearly:
		return Window{
			Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
			End:   time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, now.Location()),
		}, nil
	default:
		return Window{}, paramError("date_filter", string(filter), ErrInvalidDateFilter)
	}
}

// monthlyUpperBound adds the month's day count to its first day, which
// lands on the first instant of the following month. Because windows are
// inclusive, a response stamped exactly at that midnight is counted in the
// preceding month as well.
func monthlyUpperBound(monthStart time.Time) time.Time {
	return monthStart.AddDate(0, 0, daysInMonth(monthStart))
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func explicitWindow(startDate, endDate string, loc *time.Location) (Window, error) {
	start, err := time.ParseInLocation(DateLayout, startDate, loc)
	if err != nil {
		return Window{}, paramError("start_date", startDate, ErrMalformedDateRange)
	}
	end, err := time.ParseInLocation(DateLayout, endDate, loc)
	if err != nil {
		return Window{}, paramError("end_date", endDate, ErrMalformedDateRange)
	}
	if end.Before(start) {
		return Window{}, paramError("end_date", endDate, ErrMalformedDateRange)
	}
	// the end date is a whole calendar day
	return Window{Start: start, End: end.AddDate(0, 0, 1).Add(-time.Nanosecond)}, nil
}

// FilterWindow keeps the responses submitted inside w, preserving order.
func FilterWindow(responses []Response, w Window) []Response {
	out := make([]Response, 0, len(responses))
	for _, r := range responses {
		if w.Contains(r.SubmittedAt) {
			out = append(out, r)
		}
	}
	return out
}
