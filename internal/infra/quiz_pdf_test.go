package infra

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Vovarama1992/lectoquiz/internal/models"
)

func TestQuizPDFRendererRoundTrip(t *testing.T) {
	quiz := &models.Quiz{ID: "quiz-42", TotalQuestions: 2}
	questions := []models.Question{
		{Content: "Pick the key term", Options: []string{"ribosome", "chlorophyll", "membrane"}, Answer: "chlorophyll"},
		{Content: "Pick the key term", Options: []string{"nucleus", "vacuole"}, Answer: "vacuole"},
	}
	r := NewQuizPDFRenderer("")

	blank, err := r.Render(quiz, questions, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(blank, []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", blank[:min(len(blank), 16)])
	}

	text, err := NewNativePDFExtractor().Extract(context.Background(), blank)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	for _, want := range []string{"quiz-42", "ribosome", "vacuole"} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered text %q lacks %q", text, want)
		}
	}
	if strings.Contains(text, "Answer:") {
		t.Fatalf("answers leaked into blank quiz: %q", text)
	}

	keyed, err := r.Render(quiz, questions, true)
	if err != nil {
		t.Fatalf("render with answers: %v", err)
	}
	text, err = NewNativePDFExtractor().Extract(context.Background(), keyed)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(text, "Answer: chlorophyll") {
		t.Fatalf("answer key missing from %q", text)
	}
}

func TestQuizPDFRendererMissingFont(t *testing.T) {
	_, err := NewQuizPDFRenderer("/nonexistent/font.ttf").Render(&models.Quiz{ID: "q"}, nil, false)
	if err == nil {
		t.Fatal("expected error for missing font file")
	}
}
