package ports

import (
	"context"
	"io"

	"github.com/Vovarama1992/lectoquiz/internal/models"
)

type AnalyzeStage string

const (
	StageStarted AnalyzeStage = "started"
	StageDone    AnalyzeStage = "done"
	StageFailed  AnalyzeStage = "failed"
)

type AnalyzeEvent struct {
	LectureID        string
	Stage            AnalyzeStage
	QuestionsCreated int
}

type UploadInput struct {
	Title    string
	FileName string
	Body     io.Reader
}

type LectureProcessor interface {
	Upload(ctx context.Context, in UploadInput) (*models.Lecture, error)
	Analyze(ctx context.Context, lectureID string) (int, error)
	GetLecture(ctx context.Context, id string) (*models.Lecture, error)
	ListQuestions(ctx context.Context, lectureID string) ([]models.Question, error)
	CheckAnswer(ctx context.Context, questionID, answer string) (bool, *models.Question, error)
	Events() <-chan AnalyzeEvent
}
