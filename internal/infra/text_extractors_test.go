package infra

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/Vovarama1992/lectoquiz/internal/pdftest"
)

const pdfSentence = "Photosynthesis converts sunlight into chemical energy"

func TestPlainTextExtractor(t *testing.T) {
	got, err := NewPlainTextExtractor().Extract(context.Background(), []byte("cells\xffmembrane"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "cellsmembrane" {
		t.Fatalf("got %q", got)
	}
}

func TestNativePDFExtractorReadsText(t *testing.T) {
	got, err := NewNativePDFExtractor().Extract(context.Background(), pdftest.Document(pdfSentence))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.TrimSpace(got) != pdfSentence {
		t.Fatalf("got %q, want %q", got, pdfSentence)
	}
}

func TestNativePDFExtractorRejectsGarbage(t *testing.T) {
	ex := NewNativePDFExtractor()
	if _, err := ex.Extract(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := ex.Extract(context.Background(), []byte("definitely not a pdf")); err == nil {
		t.Fatal("expected error for non-pdf input")
	}
}

func TestPDFToTextExtractorReadsText(t *testing.T) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		t.Skip("pdftotext not installed")
	}

	got, err := NewPDFToTextExtractor().Extract(context.Background(), pdftest.Document(pdfSentence))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, pdfSentence) {
		t.Fatalf("got %q, want it to contain %q", got, pdfSentence)
	}
}

func TestPDFToTextExtractorRejectsGarbage(t *testing.T) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		t.Skip("pdftotext not installed")
	}
	if _, err := NewPDFToTextExtractor().Extract(context.Background(), []byte("not a pdf")); err == nil {
		t.Fatal("expected error for non-pdf input")
	}
}

func TestNewPDFExtractorSelectsBackend(t *testing.T) {
	if _, ok := NewPDFExtractor("pdftotext").(*PDFToTextExtractor); !ok {
		t.Fatal("expected pdftotext backend")
	}
	if _, ok := NewPDFExtractor("").(*NativePDFExtractor); !ok {
		t.Fatal("expected native backend by default")
	}
}
