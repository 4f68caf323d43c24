package infra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vovarama1992/lectoquiz/internal/models"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

type SQLiteLectureRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteLectureRepo(db *sql.DB) ports.LectureRepository {
	return &SQLiteLectureRepo{db: db, now: time.Now}
}

func (r *SQLiteLectureRepo) InsertLecture(ctx context.Context, l *models.Lecture) (*models.Lecture, error) {
	created := r.now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lecture (id, title, file_path, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.Title, l.FilePath, string(l.Status), created.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert lecture: %w", err)
	}
	l.CreatedAt = time.UnixMilli(created.UnixMilli()).UTC()
	return l, nil
}

func (r *SQLiteLectureRepo) GetLectureByID(ctx context.Context, id string) (*models.Lecture, error) {
	var l models.Lecture
	var status string
	var created int64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, file_path, status, summary, created_at FROM lecture WHERE id = ?`, id,
	).Scan(&l.ID, &l.Title, &l.FilePath, &status, &l.Summary, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lecture by id: %w", err)
	}
	l.Status = models.LectureStatus(status)
	l.CreatedAt = time.UnixMilli(created).UTC()
	return &l, nil
}

func (r *SQLiteLectureRepo) ListQuestions(ctx context.Context, lectureID string) ([]models.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, lecture_id, content, options, answer, difficulty, created_at
		FROM question
		WHERE lecture_id = ?
		ORDER BY rowid ASC`,
		lectureID,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return collectSQLiteQuestions(rows, "list questions")
}

func (r *SQLiteLectureRepo) GetQuestionByID(ctx context.Context, id string) (*models.Question, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, lecture_id, content, options, answer, difficulty, created_at
		FROM question
		WHERE id = ?`,
		id,
	)
	q, err := scanSQLiteQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return q, nil
}

func (r *SQLiteLectureRepo) CompleteAnalysis(ctx context.Context, lectureID, summary string, questions []models.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	created := r.now().UTC().UnixMilli()
	for _, q := range questions {
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode options: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO question (id, lecture_id, content, options, answer, difficulty, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			q.ID, lectureID, q.Content, string(opts), q.Answer, q.Difficulty, created,
		)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `UPDATE lecture SET status = ?, summary = ? WHERE id = ?`,
		string(models.StatusReady), summary, lectureID)
	if err != nil {
		return fmt.Errorf("update lecture status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update lecture status: lecture %s missing", lectureID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func scanSQLiteQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var opts string
	var created int64
	if err := row.Scan(&q.ID, &q.LectureID, &q.Content, &opts, &q.Answer, &q.Difficulty, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
		return nil, fmt.Errorf("decode options of question %s: %w", q.ID, err)
	}
	q.CreatedAt = time.UnixMilli(created).UTC()
	return &q, nil
}
