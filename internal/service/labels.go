package service

// Rating is the numeric value of a scored answer label.
type Rating int

const (
	StronglyDisagree Rating = iota + 1
	Disagree
	SlightlyDisagree
	SlightlyAgree
	Agree
	StronglyAgree
)

var ratingLabels = map[Rating]string{
	StronglyAgree:    "Strongly Agree",
	Agree:            "Agree",
	SlightlyAgree:    "Slightly Agree",
	SlightlyDisagree: "Slightly Disagree",
	Disagree:         "Disagree",
	StronglyDisagree: "Strongly Disagree",
}

var labelRatings = func() map[string]Rating {
	m := make(map[string]Rating, len(ratingLabels))
	for r, name := range ratingLabels {
		m[name] = r
	}
	return m
}()

// Value returns the integer used when averaging ratings.
func (r Rating) Value() int { return int(r) }

func (r Rating) String() string { return ratingLabels[r] }

// Label is an answer label. It is either one of the six scored ratings or
// an arbitrary string that is counted but never scored.
type Label struct {
	raw    string
	rating Rating
}

// ParseLabel classifies a raw answer string.
func ParseLabel(raw string) Label {
	return Label{raw: raw, rating: labelRatings[raw]}
}

// ScoredLabel builds the label for a known rating.
func ScoredLabel(r Rating) Label {
	return Label{raw: ratingLabels[r], rating: r}
}

// Rating reports the label's rating and whether the label is scored.
func (l Label) Rating() (Rating, bool) {
	return l.rating, l.rating != 0
}

func (l Label) String() string { return l.raw }
