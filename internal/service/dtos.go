package service

// LabelShare is one slice of the answer distribution.
type LabelShare struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// SeriesPoint counts one answer label on one calendar date.
type SeriesPoint struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Date     string `json:"date"`
}

type Ratio struct {
	AnonymousPercentage  float64 `json:"anonymous_percentage"`
	IdentifiedPercentage float64 `json:"identified_percentage"`
}

type RespondentRow struct {
	Respondent    string  `json:"respondent"`
	AverageRating float64 `json:"average_rating"`
	Timestamp     string  `json:"timestamp"`
}

// RatingStats is the result of a chart request. Labels is set for the pie
// chart, Series for line and bar charts.
type RatingStats struct {
	ChartType ChartType     `json:"chart_type"`
	Labels    []LabelShare  `json:"labels,omitempty"`
	Series    []SeriesPoint `json:"series,omitempty"`
}

// StatsRequest carries the raw selectors of a stats request.
type StatsRequest struct {
	TeacherID  string
	ChartType  string
	DateFilter string
	StartDate  string
	EndDate    string
}
