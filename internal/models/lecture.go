package models

import "time"

type LectureStatus string

const (
	StatusUploaded LectureStatus = "UPLOADED"
	StatusReady    LectureStatus = "READY"
)

type Lecture struct {
	ID        string        `json:"id" db:"id"`
	Title     string        `json:"title" db:"title"`
	FilePath  string        `json:"filePath" db:"file_path"` // путь к сохранённому файлу
	Status    LectureStatus `json:"status" db:"status"`
	Summary   string        `json:"summary" db:"summary"` // пусто до первого анализа
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}
