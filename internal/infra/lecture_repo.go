package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vovarama1992/lectoquiz/internal/models"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

type PostgresLectureRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresLectureRepo(pool *pgxpool.Pool) ports.LectureRepository {
	return &PostgresLectureRepo{pool: pool}
}

func (r *PostgresLectureRepo) InsertLecture(ctx context.Context, l *models.Lecture) (*models.Lecture, error) {
	query := `
		INSERT INTO lecture (id, title, file_path, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	row := r.pool.QueryRow(ctx, query, l.ID, l.Title, l.FilePath, string(l.Status))
	if err := row.Scan(&l.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert lecture: %w", err)
	}
	return l, nil
}

func (r *PostgresLectureRepo) GetLectureByID(ctx context.Context, id string) (*models.Lecture, error) {
	query := `
		SELECT id, title, file_path, status, summary, created_at
		FROM lecture
		WHERE id = $1
	`

	var l models.Lecture
	var status string

	err := r.pool.QueryRow(ctx, query, id).Scan(&l.ID, &l.Title, &l.FilePath, &status, &l.Summary, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lecture by id: %w", err)
	}
	l.Status = models.LectureStatus(status)
	return &l, nil
}

func (r *PostgresLectureRepo) ListQuestions(ctx context.Context, lectureID string) ([]models.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lecture_id, content, options, answer, difficulty, created_at
		FROM question
		WHERE lecture_id = $1
		ORDER BY seq ASC`,
		lectureID,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	items := make([]models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return items, nil
}

func (r *PostgresLectureRepo) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, lecture_id, content, options, answer, difficulty, created_at
		FROM question
		WHERE id = $1`,
		id,
	)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return q, nil
}

func (r *PostgresLectureRepo) CompleteAnalysis(ctx context.Context, lectureID, summary string, questions []models.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, q := range questions {
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO question (id, lecture_id, content, options, answer, difficulty)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			q.ID, lectureID, q.Content, string(opts), q.Answer, q.Difficulty,
		)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `UPDATE lecture SET status = $1, summary = $2 WHERE id = $3`,
		string(models.StatusReady), summary, lectureID)
	if err != nil {
		return fmt.Errorf("update lecture status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update lecture status: lecture %s missing", lectureID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var opts string
	if err := row.Scan(&q.ID, &q.LectureID, &q.Content, &opts, &q.Answer, &q.Difficulty, &q.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
		return nil, fmt.Errorf("decode options of question %s: %w", q.ID, err)
	}
	return &q, nil
}
