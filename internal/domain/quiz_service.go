package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"

	"github.com/Vovarama1992/lectoquiz/internal/models"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

const maxQuizQuestions = 50

type QuizService struct {
	lectures ports.LectureRepository
	quizzes  ports.QuizRepository
	renderer ports.QuizRenderer
	log      *logger.ZapLogger
}

func NewQuizService(
	lectures ports.LectureRepository,
	quizzes ports.QuizRepository,
	renderer ports.QuizRenderer,
	log *logger.ZapLogger,
) *QuizService {
	return &QuizService{
		lectures: lectures,
		quizzes:  quizzes,
		renderer: renderer,
		log:      log,
	}
}

// CreateQuiz draws a random subset of the lecture's questions.
func (s *QuizService) CreateQuiz(ctx context.Context, in ports.CreateQuizInput) (*models.Quiz, []models.Question, error) {
	if in.NumQuestions < 1 || in.NumQuestions > maxQuizQuestions {
		return nil, nil, fmt.Errorf("%w: numQuestions must be between 1 and %d", ErrInvalidInput, maxQuizQuestions)
	}
	if in.Difficulty < 0 {
		return nil, nil, fmt.Errorf("%w: difficulty must not be negative", ErrInvalidInput)
	}

	lecture, err := s.lectures.GetLectureByID(ctx, in.LectureID)
	if err != nil {
		return nil, nil, err
	}
	if lecture == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrLectureNotFound, in.LectureID)
	}

	picked, err := s.quizzes.PickQuestions(ctx, lecture.ID, in.Difficulty, in.NumQuestions)
	if err != nil {
		return nil, nil, err
	}
	if len(picked) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoQuestions, lecture.ID)
	}

	ids := make([]string, len(picked))
	for i, q := range picked {
		ids[i] = q.ID
	}

	quiz := &models.Quiz{
		ID:             uuid.NewString(),
		LectureID:      lecture.ID,
		TotalQuestions: len(picked),
	}
	if err := s.quizzes.InsertQuiz(ctx, quiz, ids); err != nil {
		return nil, nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "quiz created",
		Fields: map[string]any{
			"quizID":    quiz.ID,
			"lectureID": lecture.ID,
			"questions": len(picked),
		},
	})
	return quiz, picked, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, []models.Question, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if quiz == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrQuizNotFound, id)
	}

	items, err := s.quizzes.ListQuizQuestions(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return quiz, items, nil
}

// SubmitQuiz grades the answers against the quiz questions. Answers to
// questions outside the quiz are ignored, repeats count once. The score is
// a percentage of all quiz questions, so unanswered ones count as wrong.
func (s *QuizService) SubmitQuiz(ctx context.Context, id string, answers []ports.QuizSubmission) (*ports.QuizResult, error) {
	quiz, items, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Question, len(items))
	for _, q := range items {
		byID[q.ID] = q
	}

	graded := make([]models.QuizAnswer, 0, len(answers))
	seen := make(map[string]bool, len(answers))
	correct := 0
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok || seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true

		ans := strings.TrimSpace(a.Answer)
		isCorrect := GradeChoice(ans, q.Answer, q.Options)
		if isCorrect {
			correct++
		}
		graded = append(graded, models.QuizAnswer{
			QuizID:     quiz.ID,
			QuestionID: q.ID,
			UserAnswer: ans,
			IsCorrect:  isCorrect,
		})
	}

	quiz.CorrectCount = correct
	quiz.Score = 0
	if quiz.TotalQuestions > 0 {
		quiz.Score = float64(correct) / float64(quiz.TotalQuestions) * 100
	}

	if err := s.quizzes.SaveSubmission(ctx, quiz, graded); err != nil {
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "quiz submitted",
		Fields: map[string]any{
			"quizID":  quiz.ID,
			"correct": correct,
			"total":   quiz.TotalQuestions,
		},
	})
	return &ports.QuizResult{
		QuizID:  quiz.ID,
		Correct: correct,
		Total:   quiz.TotalQuestions,
		Score:   quiz.Score,
	}, nil
}

func (s *QuizService) ExportQuiz(ctx context.Context, id string, withAnswers bool) ([]byte, error) {
	quiz, items, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Render(quiz, items, withAnswers)
	if err != nil {
		return nil, fmt.Errorf("export quiz %s: %w", id, err)
	}
	return data, nil
}
