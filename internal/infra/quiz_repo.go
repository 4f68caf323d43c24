package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vovarama1992/lectoquiz/internal/models"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

type PostgresQuizRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresQuizRepo(pool *pgxpool.Pool) ports.QuizRepository {
	return &PostgresQuizRepo{pool: pool}
}

func (r *PostgresQuizRepo) PickQuestions(ctx context.Context, lectureID string, difficulty, limit int) ([]models.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lecture_id, content, options, answer, difficulty, created_at
		FROM question
		WHERE lecture_id = $1 AND ($2::int = 0 OR difficulty = $2)
		ORDER BY random()
		LIMIT $3`,
		lectureID, difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("pick questions: %w", err)
	}
	defer rows.Close()

	items := make([]models.Question, 0, limit)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pick questions: %w", err)
	}
	return items, nil
}

func (r *PostgresQuizRepo) InsertQuiz(ctx context.Context, quiz *models.Quiz, questionIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO quiz (id, lecture_id, total_questions)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		quiz.ID, quiz.LectureID, quiz.TotalQuestions,
	).Scan(&quiz.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}

	for i, qid := range questionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO quiz_item (quiz_id, question_id, position) VALUES ($1, $2, $3)`,
			quiz.ID, qid, i,
		); err != nil {
			return fmt.Errorf("insert quiz item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresQuizRepo) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	var q models.Quiz
	err := r.pool.QueryRow(ctx, `
		SELECT id, lecture_id, total_questions, correct_count, score, created_at, submitted_at
		FROM quiz
		WHERE id = $1`,
		id,
	).Scan(&q.ID, &q.LectureID, &q.TotalQuestions, &q.CorrectCount, &q.Score, &q.CreatedAt, &q.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return &q, nil
}

func (r *PostgresQuizRepo) ListQuizQuestions(ctx context.Context, quizID string) ([]models.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.lecture_id, q.content, q.options, q.answer, q.difficulty, q.created_at
		FROM quiz_item qi
		JOIN question q ON q.id = qi.question_id
		WHERE qi.quiz_id = $1
		ORDER BY qi.position ASC`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
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
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}
	return items, nil
}

func (r *PostgresQuizRepo) SaveSubmission(ctx context.Context, quiz *models.Quiz, answers []models.QuizAnswer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM quiz_answer WHERE quiz_id = $1`, quiz.ID); err != nil {
		return fmt.Errorf("clear answers: %w", err)
	}

	for _, a := range answers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO quiz_answer (quiz_id, question_id, user_answer, is_correct)
			VALUES ($1, $2, $3, $4)`,
			quiz.ID, a.QuestionID, a.UserAnswer, a.IsCorrect,
		); err != nil {
			return fmt.Errorf("insert answer: %w", err)
		}
	}

	var submitted time.Time
	err = tx.QueryRow(ctx, `
		UPDATE quiz SET correct_count = $1, score = $2, submitted_at = now()
		WHERE id = $3
		RETURNING submitted_at`,
		quiz.CorrectCount, quiz.Score, quiz.ID,
	).Scan(&submitted)
	if err != nil {
		return fmt.Errorf("update quiz score: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	quiz.SubmittedAt = &submitted
	return nil
}
