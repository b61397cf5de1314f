package service_test

import (
	"testing"
	"time"

	"github.com/godilite/survey-stats/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(labels ...string) []service.Answer {
	out := make([]service.Answer, len(labels))
	for i, l := range labels {
		out[i] = service.Answer{Question: "Q", Label: service.ParseLabel(l)}
	}
	return out
}

func TestParseLabel(t *testing.T) {
	cases := []struct {
		raw    string
		value  int
		scored bool
	}{
		{"Strongly Agree", 6, true},
		{"Agree", 5, true},
		{"Slightly Agree", 4, true},
		{"Slightly Disagree", 3, true},
		{"Disagree", 2, true},
		{"Strongly Disagree", 1, true},
		{"Maybe", 0, false},
		{"agree", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			l := service.ParseLabel(tc.raw)
			r, ok := l.Rating()
			assert.Equal(t, tc.scored, ok)
			assert.Equal(t, tc.value, r.Value())
			assert.Equal(t, tc.raw, l.String())
		})
	}

	t.Run("scored label round trip", func(t *testing.T) {
		l := service.ScoredLabel(service.SlightlyAgree)
		assert.Equal(t, "Slightly Agree", l.String())
		r, ok := l.Rating()
		assert.True(t, ok)
		assert.Equal(t, service.SlightlyAgree, r)
	})
}

func TestDistribution(t *testing.T) {
	t.Run("three responses", func(t *testing.T) {
		responses := []service.Response{
			{Answers: answers("Agree")},
			{Answers: answers("Agree")},
			{Answers: answers("Strongly Disagree")},
		}

		got := service.Distribution(responses)

		require.Len(t, got, 2)
		assert.Equal(t, "Agree", got[0].Name)
		assert.InDelta(t, 66.67, got[0].Percentage, 0.01)
		assert.Equal(t, "Strongly Disagree", got[1].Name)
		assert.InDelta(t, 33.33, got[1].Percentage, 0.01)
	})

	t.Run("unscored labels are counted", func(t *testing.T) {
		responses := []service.Response{
			{Answers: answers("Agree", "Maybe", "", "Maybe")},
		}

		got := service.Distribution(responses)

		require.Len(t, got, 2)
		assert.Equal(t, service.LabelShare{Name: "Agree", Percentage: 100.0 / 3}, got[0])
		assert.Equal(t, service.LabelShare{Name: "Maybe", Percentage: 200.0 / 3}, got[1])
	})

	t.Run("percentages sum to 100", func(t *testing.T) {
		responses := []service.Response{
			{Answers: answers("Agree", "Disagree", "Slightly Agree")},
			{Answers: answers("Strongly Agree", "Agree", "Other", "Disagree")},
			{Answers: answers("Slightly Disagree")},
		}

		sum := 0.0
		for _, l := range service.Distribution(responses) {
			sum += l.Percentage
		}
		assert.InDelta(t, 100.0, sum, 1e-9)
	})

	t.Run("no answers yields empty list", func(t *testing.T) {
		got := service.Distribution([]service.Response{{}, {Answers: answers("")}})

		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Empty(t, service.Distribution(nil))
	})
}

func TestTimeSeries(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 23, 30, 0, 0, time.UTC)

	responses := []service.Response{
		{SubmittedAt: day1, Answers: answers("Agree", "Disagree")},
		{SubmittedAt: day1, Answers: answers("Agree")},
		{SubmittedAt: day2, Answers: answers("Agree", "", "Custom")},
	}

	t.Run("counts per label and date", func(t *testing.T) {
		got := service.TimeSeries(responses, time.UTC)

		assert.Equal(t, []service.SeriesPoint{
			{Name: "Agree", Quantity: 2, Date: "01-03-2025"},
			{Name: "Agree", Quantity: 1, Date: "02-03-2025"},
			{Name: "Disagree", Quantity: 1, Date: "01-03-2025"},
			{Name: "Custom", Quantity: 1, Date: "02-03-2025"},
		}, got)
	})

	t.Run("dates follow the location", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		got := service.TimeSeries(responses[2:], loc)

		require.Len(t, got, 2)
		assert.Equal(t, "03-03-2025", got[0].Date)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, service.TimeSeries(responses, time.UTC), service.TimeSeries(responses, time.UTC))
	})

	t.Run("empty input", func(t *testing.T) {
		got := service.TimeSeries(nil, nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestAnonymityRatio(t *testing.T) {
	t.Run("mixed", func(t *testing.T) {
		responses := []service.Response{
			{Respondent: service.Anonymous()},
			{Respondent: service.Identified(1)},
			{Respondent: service.Identified(2)},
		}

		got, err := service.AnonymityRatio(responses)

		require.NoError(t, err)
		assert.InDelta(t, 33.33, got.AnonymousPercentage, 0.01)
		assert.InDelta(t, 66.67, got.IdentifiedPercentage, 0.01)
		assert.Equal(t, 100.0, got.AnonymousPercentage+got.IdentifiedPercentage)
	})

	t.Run("sums to exactly 100", func(t *testing.T) {
		for n := 1; n <= 13; n++ {
			for anon := 0; anon <= n; anon++ {
				responses := make([]service.Response, n)
				for i := range responses {
					if i < anon {
						responses[i].Respondent = service.Anonymous()
					} else {
						responses[i].Respondent = service.Identified(int64(i + 1))
					}
				}
				got, err := service.AnonymityRatio(responses)
				require.NoError(t, err)
				assert.Equal(t, 100.0, got.AnonymousPercentage+got.IdentifiedPercentage, "n=%d anon=%d", n, anon)
			}
		}
	})

	t.Run("no responses", func(t *testing.T) {
		_, err := service.AnonymityRatio(nil)

		assert.ErrorIs(t, err, service.ErrNoResponses)
		assert.ErrorIs(t, err, service.ErrTeacherNotFound)
	})
}

func TestRespondentTable(t *testing.T) {
	ts := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	names := func(r service.Respondent) string {
		if r.IsAnonymous() {
			return service.AnonymousDisplayName
		}
		return "student"
	}

	t.Run("anonymous response average", func(t *testing.T) {
		responses := []service.Response{
			{SubmittedAt: ts, Respondent: service.Anonymous(), Answers: answers("Strongly Agree", "Agree")},
		}

		got := service.RespondentTable(responses, names, time.UTC)

		require.Len(t, got, 1)
		assert.Equal(t, service.RespondentRow{
			Respondent:    "anonym",
			AverageRating: 5.5,
			Timestamp:     "2025-05-06 07:08:09",
		}, got[0])
	})

	t.Run("unscored labels are ignored", func(t *testing.T) {
		r := service.Response{Answers: answers("Disagree", "Other", "", "Strongly Disagree")}
		assert.Equal(t, 1.5, service.AverageRating(r))
	})

	t.Run("zero scored answers average to zero", func(t *testing.T) {
		responses := []service.Response{
			{SubmittedAt: ts, Respondent: service.Identified(4), Answers: answers("Other")},
			{SubmittedAt: ts, Respondent: service.Identified(4)},
		}

		got := service.RespondentTable(responses, names, time.UTC)

		require.Len(t, got, 2)
		assert.Equal(t, 0.0, got[0].AverageRating)
		assert.Equal(t, 0.0, got[1].AverageRating)
		assert.Equal(t, "student", got[1].Respondent)
	})
}
