package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

// NativePDFExtractor parses the PDF in-process.
type NativePDFExtractor struct{}

func NewNativePDFExtractor() ports.TextExtractor { return &NativePDFExtractor{} }

func (e *NativePDFExtractor) Extract(ctx context.Context, data []byte) (txt string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("pdf: empty input")
	}
	// парсер паникует на битых файлах
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: malformed document: %v", r)
		}
	}()

	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: open: %w", err)
	}
	plain, err := rd.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf: plain text: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf: read text: %w", err)
	}
	return string(b), ctx.Err()
}

// PDFToTextExtractor shells out to poppler's pdftotext.
type PDFToTextExtractor struct {
	timeout time.Duration
}

func NewPDFToTextExtractor() ports.TextExtractor {
	return &PDFToTextExtractor{timeout: 2 * time.Minute}
}

func (e *PDFToTextExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", fmt.Errorf("pdftotext not found in PATH: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "lectoquiz_pdftotext_*")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inPath := filepath.Join(tmpDir, "in.pdf")
	outPath := filepath.Join(tmpDir, "out.txt")
	if err := os.WriteFile(inPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}

	cmd := exec.CommandContext(callCtx, "pdftotext", "-enc", "UTF-8", "-q", inPath, outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if s := strings.TrimSpace(stderr.String()); s != "" {
			return "", fmt.Errorf("pdftotext: %w; stderr=%s", err, s)
		}
		return "", fmt.Errorf("pdftotext: %w", err)
	}

	b, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("read pdftotext output: %w", err)
	}
	return string(b), nil
}

// PlainTextExtractor returns the bytes as text, dropping invalid UTF-8.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() ports.TextExtractor { return &PlainTextExtractor{} }

func (e *PlainTextExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// NewPDFExtractor selects the PDF backend by name: "pdftotext" or the native parser.
func NewPDFExtractor(kind string) ports.TextExtractor {
	if strings.EqualFold(kind, "pdftotext") {
		return NewPDFToTextExtractor()
	}
	return NewNativePDFExtractor()
}
