package infra

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/Vovarama1992/lectoquiz/internal/models"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

// QuizPDFRenderer prints a quiz on A4. Core fonts only cover cp1252, so
// Cyrillic prompts need a UTF-8 TTF passed as fontPath.
type QuizPDFRenderer struct {
	fontPath string
}

func NewQuizPDFRenderer(fontPath string) ports.QuizRenderer {
	return &QuizPDFRenderer{fontPath: fontPath}
}

func (r *QuizPDFRenderer) Render(quiz *models.Quiz, questions []models.Question, withAnswers bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 30)

	family, bold, italic := "Helvetica", "B", "I"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		// у TTF загружено только обычное начертание
		pdf.AddUTF8Font("quiz", "", r.fontPath)
		family, bold, italic = "quiz", "", ""
		tr = func(s string) string { return s }
	}

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	pdf.SetFont(family, bold, 16)
	pdf.CellFormat(0, 10, tr("Test ID: "+quiz.ID), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for i, q := range questions {
		pdf.SetFont(family, "", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, q.Content)), "", "L", false)

		for j, opt := range q.Options {
			pdf.SetX(25)
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%c) %s", 'A'+j, opt)), "", "L", false)
		}

		y := pdf.GetY() + 2
		pdf.Line(20, y, pageW-20, y)
		pdf.Ln(4)

		if withAnswers {
			pdf.SetFont(family, italic, 10)
			pdf.MultiCell(0, 5, tr("Answer: "+q.Answer), "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quiz pdf: %w", err)
	}
	return buf.Bytes(), nil
}
