package ports

import (
	"context"

	"github.com/Vovarama1992/lectoquiz/internal/models"
)

type CreateQuizInput struct {
	LectureID    string
	NumQuestions int
	Difficulty   int // 0 = любая
}

type QuizSubmission struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type QuizResult struct {
	QuizID  string  `json:"quizId"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Score   float64 `json:"score"`
}

type QuizRenderer interface {
	Render(quiz *models.Quiz, questions []models.Question, withAnswers bool) ([]byte, error)
}

type QuizProcessor interface {
	CreateQuiz(ctx context.Context, in CreateQuizInput) (*models.Quiz, []models.Question, error)
	GetQuiz(ctx context.Context, id string) (*models.Quiz, []models.Question, error)
	SubmitQuiz(ctx context.Context, id string, answers []QuizSubmission) (*QuizResult, error)
	ExportQuiz(ctx context.Context, id string, withAnswers bool) ([]byte, error)
}
