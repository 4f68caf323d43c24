package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Vovarama1992/lectoquiz/internal/config"
	"github.com/Vovarama1992/lectoquiz/internal/delivery"
	ws "github.com/Vovarama1992/lectoquiz/internal/delivery/ws"
	"github.com/Vovarama1992/lectoquiz/internal/domain"
	"github.com/Vovarama1992/lectoquiz/internal/domain/stations"
	"github.com/Vovarama1992/lectoquiz/internal/infra"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
)

func main() {

	// CONFIG
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	// LOGGER
	zcore, err := newZap(cfg.LogMode)
	if err != nil {
		panic("cannot init zap: " + err.Error())
	}
	defer zcore.Sync()
	zl := logger.NewZapLogger(zcore.Sugar())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// STORAGE
	repo, quizRepo, closeDB, err := openRepo(ctx, cfg)
	if err != nil {
		panic(err.Error())
	}
	defer closeDB()

	files, err := infra.NewFSFileStore(cfg.UploadDir)
	if err != nil {
		panic("upload dir: " + err.Error())
	}

	// STATIONS
	s2 := stations.NewS2ExtractText(map[string]ports.TextExtractor{
		".pdf": infra.NewPDFExtractor(cfg.PDFExtractor),
		".txt": infra.NewPlainTextExtractor(),
	}, zl)
	s5 := stations.NewS5Synthesize(cfg.QuestionPrompt)

	// LECTURE SERVICE (оркестратор)
	lectureService := domain.NewLectureService(repo, files, s2, s5, zl)
	quizService := domain.NewQuizService(repo, quizRepo, infra.NewQuizPDFRenderer(cfg.QuizPDFFont), zl)

	// WS HUB
	hub := ws.NewHub(zl)

	// HANDLERS
	hLecture := delivery.NewLectureHandler(lectureService, zl, cfg.MaxUploadBytes())
	hQuiz := delivery.NewQuizHandler(quizService, zl)
	hHealth := delivery.NewHealthHandler()

	// ROUTER
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	g, gctx := errgroup.WithContext(ctx)

	delivery.RegisterRoutes(r, hLecture, hQuiz, hHealth)
	// анализы из ws живут не дольше сервера
	r.Get("/ws", ws.WSHandler(gctx, hub, lectureService, zl))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// BROADCAST LISTENER
	g.Go(func() error {
		ws.Broadcast(gctx, hub, lectureService.Events(), zl)
		return nil
	})

	g.Go(func() error {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "server started",
			Fields:  map[string]any{"port": cfg.Port, "db": cfg.DBDriver},
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server crashed",
			Error:   err,
		})
		return
	}

	zl.Log(logger.LogEntry{Level: "info", Message: "server stopped"})
}

func newZap(mode string) (*zap.Logger, error) {
	if mode == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openRepo(ctx context.Context, cfg config.Config) (ports.LectureRepository, ports.QuizRepository, func(), error) {
	if cfg.DBDriver == "postgres" {
		pool, err := infra.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return infra.NewPostgresLectureRepo(pool), infra.NewPostgresQuizRepo(pool), pool.Close, nil
	}

	db, err := infra.OpenSQLite(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	return infra.NewSQLiteLectureRepo(db), infra.NewSQLiteQuizRepo(db), func() { db.Close() }, nil
}
