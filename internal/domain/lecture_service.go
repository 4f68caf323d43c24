package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"

	"github.com/Vovarama1992/lectoquiz/internal/domain/stations"
	"github.com/Vovarama1992/lectoquiz/internal/models"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

type LectureService struct {
	repo  ports.LectureRepository
	files ports.FileStore

	s1 *stations.S1ReadFile
	s2 *stations.S2ExtractText
	s3 *stations.S3Normalize
	s4 *stations.S4Vocabulary
	s5 *stations.S5Synthesize

	log    *logger.ZapLogger
	events chan ports.AnalyzeEvent
}

func NewLectureService(
	repo ports.LectureRepository,
	files ports.FileStore,
	s2 *stations.S2ExtractText,
	s5 *stations.S5Synthesize,
	log *logger.ZapLogger,
) *LectureService {
	return &LectureService{
		repo:   repo,
		files:  files,
		s1:     stations.NewS1ReadFile(files, log),
		s2:     s2,
		s3:     stations.NewS3Normalize(),
		s4:     stations.NewS4Vocabulary(),
		s5:     s5,
		log:    log,
		events: make(chan ports.AnalyzeEvent, 100),
	}
}

func (s *LectureService) Events() <-chan ports.AnalyzeEvent { return s.events }

// ========================================================================
// UPLOAD
// ========================================================================
func (s *LectureService) Upload(ctx context.Context, in ports.UploadInput) (*models.Lecture, error) {
	if !s.s2.Supports(in.FileName) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, filepath.Ext(in.FileName))
	}

	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(in.FileName))

	path, err := s.files.Save(ctx, id+ext, in.Body)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.FileName
	}

	lecture, err := s.repo.InsertLecture(ctx, &models.Lecture{
		ID:       id,
		Title:    title,
		FilePath: path,
		Status:   models.StatusUploaded,
	})
	if err != nil {
		// без записи файл никто не найдёт
		if rmErr := s.files.Remove(ctx, path); rmErr != nil {
			s.log.Log(logger.LogEntry{
				Level:   "error",
				Message: "orphan upload not removed",
				Error:   rmErr,
				Fields:  map[string]any{"path": path},
			})
		}
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "lecture uploaded",
		Fields: map[string]any{
			"lectureID": lecture.ID,
			"title":     lecture.Title,
			"path":      path,
		},
	})
	return lecture, nil
}

// ========================================================================
// ANALYZE
// ========================================================================

// Analyze runs S1..S5 over the stored file and persists the batch. Each run
// appends a fresh batch; the lecture stays UPLOADED when any stage fails.
func (s *LectureService) Analyze(ctx context.Context, lectureID string) (int, error) {
	lecture, err := s.GetLecture(ctx, lectureID)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	s.publish(ports.AnalyzeEvent{LectureID: lecture.ID, Stage: ports.StageStarted})

	n, err := s.analyze(ctx, lecture)
	if err != nil {
		s.publish(ports.AnalyzeEvent{LectureID: lecture.ID, Stage: ports.StageFailed})
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "analyze failed",
			Error:   err,
			Fields:  map[string]any{"lectureID": lecture.ID},
		})
		return 0, err
	}

	s.publish(ports.AnalyzeEvent{LectureID: lecture.ID, Stage: ports.StageDone, QuestionsCreated: n})
	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "analyze done",
		Fields: map[string]any{
			"lectureID": lecture.ID,
			"questions": n,
			"dur":       time.Since(start).String(),
		},
	})
	return n, nil
}

func (s *LectureService) analyze(ctx context.Context, lecture *models.Lecture) (int, error) {
	data, err := s.s1.Run(ctx, lecture.FilePath)
	if err != nil {
		return 0, err
	}

	raw, err := s.s2.Run(ctx, lecture.FilePath, data)
	if err != nil {
		return 0, err
	}

	text := s.s3.Run(raw)
	pool := s.s4.Run(text)
	questions := s.s5.Run(pool, lecture.ID)

	for i := range questions {
		questions[i].ID = uuid.NewString()
	}
	if err := validateBatch(questions); err != nil {
		return 0, err
	}

	if err := s.repo.CompleteAnalysis(ctx, lecture.ID, stations.Summary(text), questions); err != nil {
		return 0, fmt.Errorf("store questions: %w", err)
	}
	return len(questions), nil
}

func validateBatch(questions []models.Question) error {
	for _, q := range questions {
		if !q.HasValidAnswer() {
			return fmt.Errorf("%w: %q not in %v", ErrInvalidQuestion, q.Answer, q.Options)
		}
	}
	return nil
}

// publish never blocks the request path; events are dropped when nobody drains them.
func (s *LectureService) publish(ev ports.AnalyzeEvent) {
	select {
	case s.events <- ev:
	default:
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "analyze event dropped",
			Fields:  map[string]any{"lectureID": ev.LectureID, "stage": string(ev.Stage)},
		})
	}
}

// ========================================================================
// QUERIES
// ========================================================================
func (s *LectureService) GetLecture(ctx context.Context, id string) (*models.Lecture, error) {
	lecture, err := s.repo.GetLectureByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lecture == nil {
		return nil, fmt.Errorf("%w: %s", ErrLectureNotFound, id)
	}
	return lecture, nil
}

func (s *LectureService) ListQuestions(ctx context.Context, lectureID string) ([]models.Question, error) {
	return s.repo.ListQuestions(ctx, lectureID)
}

// CheckAnswer accepts the option text or its letter (A, B, ...).
func (s *LectureService) CheckAnswer(ctx context.Context, questionID, answer string) (bool, *models.Question, error) {
	q, err := s.repo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return false, nil, err
	}
	if q == nil {
		return false, nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
	}
	return GradeChoice(answer, q.Answer, q.Options), q, nil
}
