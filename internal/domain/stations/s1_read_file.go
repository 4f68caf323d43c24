package stations

import (
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

type S1ReadFile struct {
	files ports.FileStore
	log   *logger.ZapLogger
}

func NewS1ReadFile(files ports.FileStore, log *logger.ZapLogger) *S1ReadFile {
	return &S1ReadFile{files: files, log: log}
}

func (s *S1ReadFile) Run(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()

	data, err := s.files.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("[S1] read %s: %w", path, err)
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "[S1] file read",
		Fields: map[string]any{
			"path":  path,
			"bytes": len(data),
			"dur":   time.Since(start).String(),
		},
	})
	return data, nil
}
