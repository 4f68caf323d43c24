package delivery

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/lectoquiz/internal/domain"
	"github.com/Vovarama1992/lectoquiz/internal/models"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

const defaultQuizSize = 5

type QuizHandler struct {
	quizzes ports.QuizProcessor
	log     *logger.ZapLogger
}

func NewQuizHandler(quizzes ports.QuizProcessor, log *logger.ZapLogger) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, log: log}
}

// quizItem is a question as the quiz taker sees it, without the answer.
type quizItem struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	Options    []string `json:"options"`
	Difficulty int      `json:"difficulty"`
}

type quizView struct {
	*models.Quiz
	Items []quizItem `json:"items"`
}

func newQuizView(quiz *models.Quiz, questions []models.Question) quizView {
	items := make([]quizItem, len(questions))
	for i, q := range questions {
		items[i] = quizItem{ID: q.ID, Content: q.Content, Options: q.Options, Difficulty: q.Difficulty}
	}
	return quizView{Quiz: quiz, Items: items}
}

// POST /lectures/{id}/tests
func (h *QuizHandler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NumQuestions *int `json:"numQuestions"`
		Difficulty   int  `json:"difficulty"`
	}
	// пустое тело = значения по умолчанию
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	n := defaultQuizSize
	if req.NumQuestions != nil {
		n = *req.NumQuestions
	}

	quiz, questions, err := h.quizzes.CreateQuiz(r.Context(), ports.CreateQuizInput{
		LectureID:    chi.URLParam(r, "id"),
		NumQuestions: n,
		Difficulty:   req.Difficulty,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrLectureNotFound):
			writeError(w, http.StatusNotFound, "Lecture not found")
		case errors.Is(err, domain.ErrNoQuestions):
			writeError(w, http.StatusNotFound, "No questions found for this lecture")
		default:
			h.fail(w, "create quiz failed", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, newQuizView(quiz, questions))
}

// GET /tests/{id}
func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, questions, err := h.quizzes.GetQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		h.fail(w, "get quiz failed", err)
		return
	}
	writeJSON(w, http.StatusOK, newQuizView(quiz, questions))
}

// POST /tests/{id}/submit
func (h *QuizHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers []ports.QuizSubmission `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	res, err := h.quizzes.SubmitQuiz(r.Context(), chi.URLParam(r, "id"), req.Answers)
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		h.fail(w, "submit quiz failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /tests/{id}/export.pdf?withAnswers=true
func (h *QuizHandler) ExportQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	withAnswers := false
	if v := r.URL.Query().Get("withAnswers"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "withAnswers must be a boolean")
			return
		}
		withAnswers = b
	}

	data, err := h.quizzes.ExportQuiz(r.Context(), id, withAnswers)
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			writeError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		h.fail(w, "export quiz failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="quiz_`+id+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *QuizHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.log.Log(logger.LogEntry{
		Level:   "error",
		Message: msg,
		Error:   err,
	})
	writeError(w, http.StatusInternalServerError, "Internal error")
}
