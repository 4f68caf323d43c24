package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBDriver    string // sqlite|postgres
	DatabaseURL string

	UploadDir    string
	MaxUploadMB  int
	PDFExtractor string // native|pdftotext

	CORSOrigins []string
	LogMode     string // prod|dev

	// пусто: берётся промпт по умолчанию синтезатора
	QuestionPrompt string

	// TTF для экспорта тестов в PDF; без него кириллица не печатается
	QuizPDFFont string
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// .env нужен только локально
	_ = godotenv.Load()

	maxMB, err := envInt("MAX_UPLOAD_MB", 10)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:           envOr("PORT", "3000"),
		DBDriver:       strings.ToLower(envOr("DB_DRIVER", "sqlite")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		UploadDir:      envOr("UPLOAD_DIR", "uploads"),
		MaxUploadMB:    maxMB,
		PDFExtractor:   strings.ToLower(envOr("PDF_EXTRACTOR", "native")),
		CORSOrigins:    csvOr("CORS_ORIGINS", "*"),
		LogMode:        envOr("LOG_MODE", "prod"),
		QuestionPrompt: os.Getenv("QUESTION_PROMPT"),
		QuizPDFFont:    os.Getenv("QUIZ_PDF_FONT"),
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is not set")
		}
	default:
		return Config{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.MaxUploadMB <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	if cfg.QuizPDFFont != "" {
		if _, err := os.Stat(cfg.QuizPDFFont); err != nil {
			return Config{}, fmt.Errorf("QUIZ_PDF_FONT: %w", err)
		}
	}

	return cfg, nil
}

// MaxUploadBytes is the per-file upload limit.
func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
