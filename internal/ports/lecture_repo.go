package ports

import (
	"context"

	"github.com/Vovarama1992/lectoquiz/internal/models"
)

type LectureRepository interface {
	InsertLecture(ctx context.Context, lecture *models.Lecture) (*models.Lecture, error)
	// GetLectureByID returns nil, nil when the lecture does not exist.
	GetLectureByID(ctx context.Context, id string) (*models.Lecture, error)
	ListQuestions(ctx context.Context, lectureID string) ([]models.Question, error)
	// GetQuestionByID returns nil, nil when the question does not exist.
	GetQuestionByID(ctx context.Context, id string) (*models.Question, error)

	// CompleteAnalysis inserts the batch, stores the summary and marks the
	// lecture READY in one transaction.
	CompleteAnalysis(ctx context.Context, lectureID, summary string, questions []models.Question) error
}
