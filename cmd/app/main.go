package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patternadvisor/internal/config"
	"patternadvisor/internal/httpserver"
	"patternadvisor/internal/recommend"
	"patternadvisor/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	httpClient := transport.NewHTTPClient(cfg.RequestTimeout)
	service, err := recommend.NewGeminiService(cfg.Gemini, httpClient, logger)
	if err != nil {
		log.Fatalf("failed to init recommendation service: %v", err)
	}

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger:           logger,
		RecommendHandler: httpserver.NewRecommendHandler(service, logger),
		StaticDir:        cfg.StaticDir,
		CORSOrigins:      cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Ответ ждёт вызов модели, поэтому запас больше таймаута клиента.
		WriteTimeout: writeTimeout(cfg.RequestTimeout),
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("model", cfg.Gemini.Model),
			slog.Bool("static", cfg.StaticDir != ""))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// writeTimeout равен нулю (без ограничения), если у клиента нет таймаута.
func writeTimeout(clientTimeout time.Duration) time.Duration {
	if clientTimeout == 0 {
		return 0
	}
	return clientTimeout + 15*time.Second
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
