package delivery

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, hLecture *LectureHandler, hQuiz *QuizHandler, hHealth *HealthHandler) {

	r.Get("/health", hHealth.Health)
	r.Get("/", hLecture.UploadForm)

	// lectures
	r.Post("/upload", hLecture.Upload)
	r.Post("/analyze/{id}", hLecture.Analyze)
	r.Get("/lectures/{id}", hLecture.GetLecture)
	r.Get("/lectures/{id}/summary", hLecture.Summary)
	r.Get("/lectures/{id}/questions", hLecture.ListQuestions)

	// questions
	r.Post("/questions/{id}/check", hLecture.CheckAnswer)

	// quizzes
	r.Post("/lectures/{id}/tests", hQuiz.CreateQuiz)
	r.Get("/tests/{id}", hQuiz.GetQuiz)
	r.Post("/tests/{id}/submit", hQuiz.SubmitQuiz)
	r.Get("/tests/{id}/export.pdf", hQuiz.ExportQuiz)
}
