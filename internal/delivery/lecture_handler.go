package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/lectoquiz/internal/domain"
	"github.com/Vovarama1992/lectoquiz/internal/models"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

// запас на заголовки multipart сверх лимита файла
const multipartSlack = 1 << 20

type LectureHandler struct {
	lectures  ports.LectureProcessor
	log       *logger.ZapLogger
	maxUpload int64
}

func NewLectureHandler(lectures ports.LectureProcessor, log *logger.ZapLogger, maxUpload int64) *LectureHandler {
	return &LectureHandler{
		lectures:  lectures,
		log:       log,
		maxUpload: maxUpload,
	}
}

// POST /upload
func (h *LectureHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartSlack)

	if err := r.ParseMultipartForm(32 << 20); err != nil && tooLarge(err) {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if hdr.Size > h.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	lecture, err := h.lectures.Upload(r.Context(), ports.UploadInput{
		Title:    r.FormValue("title"),
		FileName: hdr.Filename,
		Body:     file,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFile) {
			writeError(w, http.StatusBadRequest, "Unsupported file type")
			return
		}
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "upload failed",
			Error:   err,
			Fields:  map[string]any{"file": hdr.Filename},
		})
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, http.StatusCreated, lecture)
}

// POST /analyze/{id}
func (h *LectureHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	n, err := h.lectures.Analyze(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrLectureNotFound) {
			writeError(w, http.StatusNotFound, "Lecture not found")
			return
		}
		// причина уже в логе сервиса
		writeError(w, http.StatusInternalServerError, "Analyze failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":               true,
		"questionsCreated": n,
	})
}

// GET /lectures/{id}
func (h *LectureHandler) GetLecture(w http.ResponseWriter, r *http.Request) {
	lecture, err := h.lectures.GetLecture(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrLectureNotFound) {
			writeError(w, http.StatusNotFound, "Lecture not found")
			return
		}
		h.fail(w, "get lecture failed", err)
		return
	}
	writeJSON(w, http.StatusOK, lecture)
}

// GET /lectures/{id}/summary
func (h *LectureHandler) Summary(w http.ResponseWriter, r *http.Request) {
	lecture, err := h.lectures.GetLecture(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrLectureNotFound) {
			writeError(w, http.StatusNotFound, "Lecture not found")
			return
		}
		h.fail(w, "get summary failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lectureId": lecture.ID,
		"status":    lecture.Status,
		"summary":   lecture.Summary,
	})
}

// GET /lectures/{id}/questions
func (h *LectureHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	items, err := h.lectures.ListQuestions(r.Context(), id)
	if err != nil {
		h.fail(w, "list questions failed", err)
		return
	}
	if items == nil {
		items = []models.Question{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

// POST /questions/{id}/check
func (h *LectureHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	ok, q, err := h.lectures.CheckAnswer(r.Context(), chi.URLParam(r, "id"), req.Answer)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, "Question not found")
			return
		}
		h.fail(w, "check answer failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"correct": ok,
		"answer":  q.Answer,
	})
}

// GET /
func (h *LectureHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(uploadForm))
}

func (h *LectureHandler) fail(w http.ResponseWriter, msg string, err error) {
	h.log.Log(logger.LogEntry{
		Level:   "error",
		Message: msg,
		Error:   err,
	})
	writeError(w, http.StatusInternalServerError, "Internal error")
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

const uploadForm = `
<form method="post" action="/upload" enctype="multipart/form-data">
  <input type="file" name="file" />
  <input type="text" name="title" value="Test Lecture" />
  <button type="submit">Upload</button>
</form>
`
