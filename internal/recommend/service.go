package recommend

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"patternadvisor/internal/config"
	"patternadvisor/internal/llm"
)

type ServiceDeps struct {
	Client llm.Client
	Logger *slog.Logger
}

// Service превращает use case в проверенный набор рекомендаций.
// Изменяемого состояния нет, безопасен для конкурентного использования.
type Service struct {
	client llm.Client
	logger *slog.Logger
}

func NewService(deps ServiceDeps) (*Service, error) {
	if deps.Client == nil {
		return nil, &Error{Kind: KindConfiguration, Err: errors.New("llm client is required")}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{client: deps.Client, logger: logger}, nil
}

// NewGeminiService собирает сервис поверх Gemini generateContent.
// Отсутствие ключа API возвращается как ошибка KindConfiguration.
func NewGeminiService(cfg config.GeminiConfig, httpClient *http.Client, logger *slog.Logger) (*Service, error) {
	client, err := llm.NewGeminiClient(cfg, httpClient, logger)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			err = errors.New("GOOGLE_API_KEY is not set")
		}
		return nil, &Error{Kind: KindConfiguration, Err: err}
	}
	return NewService(ServiceDeps{Client: client, Logger: logger})
}

// Analyze запрашивает у модели паттерны для useCase. Любая ошибка
// возвращается как *Error, частичный результат не возвращается.
func (s *Service) Analyze(ctx context.Context, useCase string) (Set, error) {
	start := time.Now()

	text, err := s.client.GenerateContent(ctx, BuildPrompt(useCase))
	if err != nil {
		return Set{}, s.fail(classifyUpstream(err))
	}

	set, err := ParseRecommendations(text)
	if err != nil {
		return Set{}, s.fail(err)
	}

	s.logger.Info("recommendation ready",
		slog.Int("patterns", len(set.Patterns)),
		slog.Duration("duration", time.Since(start)))
	return set, nil
}

func (s *Service) fail(err error) error {
	s.logger.Warn("recommendation failed",
		slog.String("kind", KindOf(err).String()),
		slog.String("error", err.Error()))
	return err
}

func classifyUpstream(err error) error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	var statusErr *llm.HTTPStatusError
	if errors.As(err, &statusErr) {
		return &Error{Kind: KindUpstreamHTTP, Status: statusErr.StatusCode, Err: err}
	}
	if errors.Is(err, llm.ErrNoCandidates) || errors.Is(err, llm.ErrMalformedResponse) {
		return &Error{Kind: KindUpstreamShape, Err: err}
	}
	return &Error{Kind: KindUpstreamTransport, Err: err}
}
