package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema holds the tables the stats engine reads from.
const Schema = `
CREATE TABLE IF NOT EXISTS subjects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS teachers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS questionaries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	teacher_id INTEGER NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
	subject_id INTEGER NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
	questions TEXT NOT NULL,
	choice TEXT NOT NULL CHECK (choice IN ('anonym', 'not anonym')),
	user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_questionaries_teacher_created
	ON questionaries (teacher_id, created_at);
`

// CreateSchema creates the tables if they do not exist yet.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
