package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/godilite/survey-stats/internal/repository/models"
)

var ErrInvalidChoice = errors.New("invalid anonymity choice")

// createdAtLayout is fixed width so created_at sorts chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000Z07:00"

type ResponseRepository struct {
	db *sql.DB
}

func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// TeacherExists reports whether a teacher row with the given id exists.
func (s *ResponseRepository) TeacherExists(ctx context.Context, teacherID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM teachers WHERE id = ?)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, teacherID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query TeacherExists: %w", err)
	}
	return exists, nil
}

// FetchResponses loads every questionary of a teacher, oldest first.
func (s *ResponseRepository) FetchResponses(ctx context.Context, teacherID int64) ([]models.Response, error) {
	const query = `
		SELECT id, teacher_id, subject_id, choice, user_id, questions, created_at
		FROM questionaries
		WHERE teacher_id = ?
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("query FetchResponses: %w", err)
	}
	defer rows.Close()

	var results []models.Response
	for rows.Next() {
		var (
			r         models.Response
			questions string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.TeacherID, &r.SubjectID, &r.Choice, &r.UserID, &questions, &createdAt); err != nil {
			return nil, fmt.Errorf("scan FetchResponses row: %w", err)
		}
		if err := json.Unmarshal([]byte(questions), &r.Questions); err != nil {
			return nil, fmt.Errorf("decode questions of questionary %d: %w", r.ID, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at of questionary %d: %w", r.ID, err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate FetchResponses: %w", err)
	}
	return results, nil
}

// RespondentDisplayNames resolves user ids to usernames. Ids that do not
// resolve are absent from the result.
func (s *ResponseRepository) RespondentDisplayNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`SELECT id, username FROM users WHERE id IN (%s)`, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query RespondentDisplayNames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan RespondentDisplayNames row: %w", err)
		}
		names[id] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate RespondentDisplayNames: %w", err)
	}
	return names, nil
}

// InsertResponse stores a submission. Anonymous submissions are stored
// without a user reference.
func (s *ResponseRepository) InsertResponse(ctx context.Context, rec models.ResponseRecord) (int64, error) {
	var userID sql.NullInt64
	switch rec.Choice {
	case models.ChoiceAnonymous:
	case models.ChoiceIdentified:
		userID = sql.NullInt64{Int64: rec.UserID, Valid: rec.UserID != 0}
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, rec.Choice)
	}

	questions := rec.Questions
	if questions == nil {
		questions = []models.QuestionAnswer{}
	}
	payload, err := json.Marshal(questions)
	if err != nil {
		return 0, fmt.Errorf("encode questions: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	const query = `
		INSERT INTO questionaries (teacher_id, subject_id, questions, choice, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		rec.TeacherID, rec.SubjectID, string(payload), rec.Choice, userID,
		createdAt.UTC().Format(createdAtLayout))
	if err != nil {
		return 0, fmt.Errorf("exec InsertResponse: %w", err)
	}
	return res.LastInsertId()
}

func (s *ResponseRepository) CreateTeacher(ctx context.Context, firstName, lastName string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO teachers (first_name, last_name) VALUES (?, ?)`, firstName, lastName)
	if err != nil {
		return 0, fmt.Errorf("exec CreateTeacher: %w", err)
	}
	return res.LastInsertId()
}

func (s *ResponseRepository) CreateSubject(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO subjects (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("exec CreateSubject: %w", err)
	}
	return res.LastInsertId()
}

func (s *ResponseRepository) CreateUser(ctx context.Context, username string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username) VALUES (?)`, username)
	if err != nil {
		return 0, fmt.Errorf("exec CreateUser: %w", err)
	}
	return res.LastInsertId()
}

// EnsureUser returns the id of username, creating the user when missing.
func (s *ResponseRepository) EnsureUser(ctx context.Context, username string) (int64, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username) VALUES (?) ON CONFLICT(username) DO NOTHING`, username); err != nil {
		return 0, fmt.Errorf("exec EnsureUser: %w", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = ?`, username).Scan(&id); err != nil {
		return 0, fmt.Errorf("query EnsureUser: %w", err)
	}
	return id, nil
}
