package models

import "time"

// Quiz is a practice session over a random subset of a lecture's questions.
type Quiz struct {
	ID             string     `json:"id" db:"id"`
	LectureID      string     `json:"lectureId" db:"lecture_id"`
	TotalQuestions int        `json:"totalQuestions" db:"total_questions"`
	CorrectCount   int        `json:"correctCount" db:"correct_count"`
	Score          float64    `json:"score" db:"score"` // 0..100
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty" db:"submitted_at"`
}

type QuizAnswer struct {
	QuizID     string `json:"quizId" db:"quiz_id"`
	QuestionID string `json:"questionId" db:"question_id"`
	UserAnswer string `json:"answer" db:"user_answer"`
	IsCorrect  bool   `json:"correct" db:"is_correct"`
}
