package stations

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// S2ExtractText picks an extractor by the stored file's extension.
type S2ExtractText struct {
	byExt map[string]ports.TextExtractor
	log   *logger.ZapLogger
}

func NewS2ExtractText(byExt map[string]ports.TextExtractor, log *logger.ZapLogger) *S2ExtractText {
	m := make(map[string]ports.TextExtractor, len(byExt))
	for ext, ex := range byExt {
		m[strings.ToLower(ext)] = ex
	}
	return &S2ExtractText{byExt: m, log: log}
}

// Supports reports whether a file name has an extension with a registered extractor.
func (s *S2ExtractText) Supports(name string) bool {
	_, ok := s.byExt[strings.ToLower(filepath.Ext(name))]
	return ok
}

func (s *S2ExtractText) Run(ctx context.Context, name string, data []byte) (string, error) {
	start := time.Now()
	ext := strings.ToLower(filepath.Ext(name))

	ex, ok := s.byExt[ext]
	if !ok {
		return "", fmt.Errorf("[S2] no extractor for %q", ext)
	}

	txt, err := ex.Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("[S2] extract %s: %w", ext, err)
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "[S2] text extracted",
		Fields: map[string]any{
			"ext":     ext,
			"chars":   len(txt),
			"preview": trim(txt, 120),
			"dur":     time.Since(start).String(),
		},
	})
	return txt, nil
}
