package ports

import (
	"context"

	"github.com/Vovarama1992/lectoquiz/internal/models"
)

type QuizRepository interface {
	// PickQuestions returns up to limit random questions of a lecture.
	// difficulty 0 means any.
	PickQuestions(ctx context.Context, lectureID string, difficulty, limit int) ([]models.Question, error)
	InsertQuiz(ctx context.Context, quiz *models.Quiz, questionIDs []string) error
	// GetQuiz returns nil, nil when the quiz does not exist.
	GetQuiz(ctx context.Context, id string) (*models.Quiz, error)
	// ListQuizQuestions returns the quiz questions in the order they were picked.
	ListQuizQuestions(ctx context.Context, quizID string) ([]models.Question, error)
	// SaveSubmission replaces earlier answers and stores the new score.
	SaveSubmission(ctx context.Context, quiz *models.Quiz, answers []models.QuizAnswer) error
}
