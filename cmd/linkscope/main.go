package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rishabhsai/linkscope/internal/analyzer"
	"github.com/rishabhsai/linkscope/internal/config"
	"github.com/rishabhsai/linkscope/internal/db"
	httpx "github.com/rishabhsai/linkscope/internal/http"
	"github.com/rishabhsai/linkscope/internal/link"
	"github.com/rishabhsai/linkscope/internal/logger"
	"github.com/rishabhsai/linkscope/internal/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", true).Fatal("config load failed", logger.Error(err))
	}

	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connect failed", logger.Error(err))
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal("database migrate failed", logger.Error(err))
	}

	svc := link.NewService(link.NewGormRepository(gdb))
	ai := analyzer.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AnalyzeTimeout)

	tracker := workers.NewAccessTracker(svc, log, cfg.AccessQueueSize)
	ctx, cancel := context.WithCancel(context.Background())
	tracker.Start(ctx, cfg.AccessWorkers)

	r := httpx.NewRouter(cfg, svc, ai, tracker, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", logger.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
