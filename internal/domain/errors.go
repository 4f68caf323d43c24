package domain

import "errors"

var (
	ErrLectureNotFound  = errors.New("lecture not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrNoQuestions      = errors.New("no questions found for this lecture")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidQuestion  = errors.New("answer is not among the options")
)
