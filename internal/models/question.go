package models

import (
	"slices"
	"time"
)

type Question struct {
	ID         string    `json:"id" db:"id"`
	Content    string    `json:"content" db:"content"`
	Options    []string  `json:"options" db:"options"` // в БД хранится как JSON-текст
	Answer     string    `json:"answer" db:"answer"`
	Difficulty int       `json:"difficulty" db:"difficulty"`
	LectureID  string    `json:"lectureId" db:"lecture_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// HasValidAnswer reports whether the answer is one of the options.
func (q Question) HasValidAnswer() bool {
	return slices.Contains(q.Options, q.Answer)
}
