package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPgxPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot connect pgxpool: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaPostgres); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return pool, nil
}

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS lecture (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  file_path TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'UPLOADED',
  summary TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

ALTER TABLE lecture ADD COLUMN IF NOT EXISTS summary TEXT NOT NULL DEFAULT '';

CREATE TABLE IF NOT EXISTS question (
  id TEXT PRIMARY KEY,
  seq BIGSERIAL,
  lecture_id TEXT NOT NULL REFERENCES lecture(id),
  content TEXT NOT NULL,
  options TEXT NOT NULL,
  answer TEXT NOT NULL,
  difficulty INTEGER NOT NULL DEFAULT 1,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS question_lecture_id_idx ON question (lecture_id);

CREATE TABLE IF NOT EXISTS quiz (
  id TEXT PRIMARY KEY,
  lecture_id TEXT NOT NULL REFERENCES lecture(id),
  total_questions INTEGER NOT NULL,
  correct_count INTEGER NOT NULL DEFAULT 0,
  score DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  submitted_at TIMESTAMPTZ
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
  is_correct BOOLEAN NOT NULL,
  PRIMARY KEY (quiz_id, question_id)
);
`
