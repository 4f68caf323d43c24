package infra

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // driver: sqlite
)

// OpenSQLite opens a local database file (or ":memory:") and ensures the schema.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = "file:lectoquiz.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// in-memory базы живут в пределах одного соединения
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping failed: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS lecture (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  file_path TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'UPLOADED',
  summary TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS question (
  id TEXT PRIMARY KEY,
  lecture_id TEXT NOT NULL REFERENCES lecture(id),
  content TEXT NOT NULL,
  options TEXT NOT NULL,
  answer TEXT NOT NULL,
  difficulty INTEGER NOT NULL DEFAULT 1,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS question_lecture_id_idx ON question (lecture_id);

CREATE TABLE IF NOT EXISTS quiz (
  id TEXT PRIMARY KEY,
  lecture_id TEXT NOT NULL REFERENCES lecture(id),
  total_questions INTEGER NOT NULL,
  correct_count INTEGER NOT NULL DEFAULT 0,
  score REAL NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  submitted_at INTEGER
);

CREATE TABLE IF NOT EXISTS quiz_item (
  quiz_id TEXT NOT NULL REFERENCES quiz(id),
  question_id TEXT NOT NULL REFERENCES question(id),
  position INTEGER NOT NULL,
  PRIMARY KEY (quiz_id, question_id)
);

CREATE TABLE IF NOT EXISTS quiz_answer (
  quiz_id TEXT NOT NULL REFERENCES quiz(id),
  question_id TEXT NOT NULL REFERENCES question(id),
  user_answer TEXT NOT NULL,
  is_correct INTEGER NOT NULL,
  PRIMARY KEY (quiz_id, question_id)
);
`
