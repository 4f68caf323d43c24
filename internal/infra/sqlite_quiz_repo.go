package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Vovarama1992/lectoquiz/internal/models"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

type SQLiteQuizRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteQuizRepo(db *sql.DB) ports.QuizRepository {
	return &SQLiteQuizRepo{db: db, now: time.Now}
}

func (r *SQLiteQuizRepo) PickQuestions(ctx context.Context, lectureID string, difficulty, limit int) ([]models.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, lecture_id, content, options, answer, difficulty, created_at
		FROM question
		WHERE lecture_id = ? AND (? = 0 OR difficulty = ?)
		ORDER BY random()
		LIMIT ?`,
		lectureID, difficulty, difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("pick questions: %w", err)
	}
	return collectSQLiteQuestions(rows, "pick questions")
}

func (r *SQLiteQuizRepo) InsertQuiz(ctx context.Context, quiz *models.Quiz, questionIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	created := r.now().UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quiz (id, lecture_id, total_questions, created_at) VALUES (?, ?, ?, ?)`,
		quiz.ID, quiz.LectureID, quiz.TotalQuestions, created,
	); err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}

	for i, qid := range questionIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quiz_item (quiz_id, question_id, position) VALUES (?, ?, ?)`,
			quiz.ID, qid, i,
		); err != nil {
			return fmt.Errorf("insert quiz item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	quiz.CreatedAt = time.UnixMilli(created).UTC()
	return nil
}

func (r *SQLiteQuizRepo) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	var q models.Quiz
	var created int64
	var submitted sql.NullInt64

	err := r.db.QueryRowContext(ctx, `
		SELECT id, lecture_id, total_questions, correct_count, score, created_at, submitted_at
		FROM quiz
		WHERE id = ?`,
		id,
	).Scan(&q.ID, &q.LectureID, &q.TotalQuestions, &q.CorrectCount, &q.Score, &created, &submitted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	q.CreatedAt = time.UnixMilli(created).UTC()
	if submitted.Valid {
		t := time.UnixMilli(submitted.Int64).UTC()
		q.SubmittedAt = &t
	}
	return &q, nil
}

func (r *SQLiteQuizRepo) ListQuizQuestions(ctx context.Context, quizID string) ([]models.Question, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT q.id, q.lecture_id, q.content, q.options, q.answer, q.difficulty, q.created_at
		FROM quiz_item qi
		JOIN question q ON q.id = qi.question_id
		WHERE qi.quiz_id = ?
		ORDER BY qi.position ASC`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}
	return collectSQLiteQuestions(rows, "list quiz questions")
}

func (r *SQLiteQuizRepo) SaveSubmission(ctx context.Context, quiz *models.Quiz, answers []models.QuizAnswer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_answer WHERE quiz_id = ?`, quiz.ID); err != nil {
		return fmt.Errorf("clear answers: %w", err)
	}

	for _, a := range answers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO quiz_answer (quiz_id, question_id, user_answer, is_correct)
			VALUES (?, ?, ?, ?)`,
			quiz.ID, a.QuestionID, a.UserAnswer, a.IsCorrect,
		); err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
	}

	submitted := r.now().UTC().UnixMilli()
	res, err := tx.ExecContext(ctx,
		`UPDATE quiz SET correct_count = ?, score = ?, submitted_at = ? WHERE id = ?`,
		quiz.CorrectCount, quiz.Score, submitted, quiz.ID,
	)
	if err != nil {
		return fmt.Errorf("update quiz score: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update quiz score: quiz %s missing", quiz.ID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	t := time.UnixMilli(submitted).UTC()
	quiz.SubmittedAt = &t
	return nil
}

func collectSQLiteQuestions(rows *sql.Rows, op string) ([]models.Question, error) {
	defer rows.Close()

	items := make([]models.Question, 0)
	for rows.Next() {
		q, err := scanSQLiteQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
