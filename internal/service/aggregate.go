package service

import (
	"time"
)

// Distribution returns the share of every observed label across all
// answers. Labels keep the order in which they were first seen. No answers
// yields an empty slice.
func Distribution(responses []Response) []LabelShare {
	counts := make(map[string]int)
	var order []string
	total := 0

	for _, r := range responses {
		for _, a := range r.Answers {
			name := a.Label.String()
			if name == "" {
				continue
			}
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
			total++
		}
	}

	out := make([]LabelShare, 0, len(order))
	if total == 0 {
		return out
	}
	for _, name := range order {
		out = append(out, LabelShare{
			Name:       name,
			Percentage: float64(counts[name]) * 100.0 / float64(total),
		})
	}
	return out
}

// TimeSeries counts answers per (label, submission date). Dates are
// rendered in loc with DateLayout. Output is grouped by label in first-seen
// order, dates within a label in first-seen order.
func TimeSeries(responses []Response, loc *time.Location) []SeriesPoint {
	if loc == nil {
		loc = time.UTC
	}

	type bucket struct {
		dates  []string
		counts map[string]int
	}
	buckets := make(map[string]*bucket)
	var labels []string

	for _, r := range responses {
		date := r.SubmittedAt.In(loc).Format(DateLayout)
		for _, a := range r.Answers {
			name := a.Label.String()
			if name == "" {
				continue
			}
			b, ok := buckets[name]
			if !ok {
				b = &bucket{counts: make(map[string]int)}
				buckets[name] = b
				labels = append(labels, name)
			}
			if _, seen := b.counts[date]; !seen {
				b.dates = append(b.dates, date)
			}
			b.counts[date]++
		}
	}

	out := make([]SeriesPoint, 0)
	for _, name := range labels {
		b := buckets[name]
		for _, date := range b.dates {
			out = append(out, SeriesPoint{Name: name, Quantity: b.counts[date], Date: date})
		}
	}
	return out
}

// AnonymityRatio splits responses into anonymous and identified shares.
func AnonymityRatio(responses []Response) (Ratio, error) {
	if len(responses) == 0 {
		return Ratio{}, ErrNoResponses
	}

	anonymous := 0
	for _, r := range responses {
		if r.IsAnonymous() {
			anonymous++
		}
	}

	share := float64(anonymous) * 100.0 / float64(len(responses))
	return Ratio{
		AnonymousPercentage:  share,
		IdentifiedPercentage: 100.0 - share,
	}, nil
}

// AverageRating averages the scored labels of one response, 0 when none are scored.
func AverageRating(r Response) float64 {
	sum, n := 0, 0
	for _, a := range r.Answers {
		if rating, ok := a.Label.Rating(); ok {
			sum += rating.Value()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// RespondentTable produces one row per response, in input order. names
// maps a respondent to its display name.
func RespondentTable(responses []Response, names func(Respondent) string, loc *time.Location) []RespondentRow {
	if loc == nil {
		loc = time.UTC
	}

	out := make([]RespondentRow, 0, len(responses))
	for _, r := range responses {
		out = append(out, RespondentRow{
			Respondent:    names(r.Respondent),
			AverageRating: AverageRating(r),
			Timestamp:     r.SubmittedAt.In(loc).Format(TimestampLayout),
		})
	}
	return out
}
