package service

import (
	"time"

	"github.com/godilite/survey-stats/internal/repository/models"
)

const (
	// AnonymousDisplayName is shown for responses submitted anonymously.
	AnonymousDisplayName = "anonym"
	// UnknownDisplayName is shown when an identified respondent no longer resolves.
	UnknownDisplayName = "unknown"
)

// Respondent is either an identified account or the anonymous submitter.
type Respondent struct {
	id        int64
	anonymous bool
}

func Anonymous() Respondent { return Respondent{anonymous: true} }

func Identified(id int64) Respondent { return Respondent{id: id} }

// ID returns the account id, false for anonymous respondents.
func (r Respondent) ID() (int64, bool) {
	if r.anonymous {
		return 0, false
	}
	return r.id, true
}

func (r Respondent) IsAnonymous() bool { return r.anonymous }

// Answer is one (question, label) pair of a response.
type Answer struct {
	Question string
	Label    Label
}

// Response is a submitted questionnaire as seen by the aggregators.
type Response struct {
	ID          int64
	TeacherID   int64
	SubjectID   int64
	SubmittedAt time.Time
	Respondent  Respondent
	Answers     []Answer
}

func (r Response) IsAnonymous() bool { return r.Respondent.IsAnonymous() }

func responseFromModel(m models.Response) Response {
	resp := Response{
		ID:          m.ID,
		TeacherID:   m.TeacherID,
		SubjectID:   m.SubjectID,
		SubmittedAt: m.CreatedAt,
		Respondent:  Anonymous(),
		Answers:     make([]Answer, 0, len(m.Questions)),
	}
	if m.Choice != models.ChoiceAnonymous {
		resp.Respondent = Identified(m.UserID.Int64)
	}
	for _, q := range m.Questions {
		resp.Answers = append(resp.Answers, Answer{Question: q.Question, Label: ParseLabel(q.Answer)})
	}
	return resp
}

func responsesFromModels(rows []models.Response) []Response {
	out := make([]Response, 0, len(rows))
	for _, r := range rows {
		out = append(out, responseFromModel(r))
	}
	return out
}
