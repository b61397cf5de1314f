package models

import (
	"database/sql"
	"time"
)

const (
	ChoiceAnonymous  = "anonym"
	ChoiceIdentified = "not anonym"
)

// QuestionAnswer is one entry of the stored questions JSON list.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Response is a questionaries row with its decoded questions.
type Response struct {
	ID        int64
	TeacherID int64
	SubjectID int64
	Choice    string
	UserID    sql.NullInt64
	Questions []QuestionAnswer
	CreatedAt time.Time
}

// ResponseRecord is the input of a new questionary submission.
type ResponseRecord struct {
	TeacherID int64
	SubjectID int64
	Choice    string
	UserID    int64
	Questions []QuestionAnswer
	CreatedAt time.Time
}
