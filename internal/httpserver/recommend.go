package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"patternadvisor/internal/middleware"
	"patternadvisor/internal/recommend"
)

const maxRequestBody = 64 << 10

const (
	codeBadRequest           = "bad_request"
	codeRecommendationFailed = "recommendation_failed"
)

// Analyzer выдаёт рекомендации паттернов для описания use case.
type Analyzer interface {
	Analyze(ctx context.Context, useCase string) (recommend.Set, error)
}

type recommendRequest struct {
	UseCase *string `json:"useCase"`
}

type RecommendHandler struct {
	analyzer Analyzer
	logger   *slog.Logger
}

func NewRecommendHandler(analyzer Analyzer, logger *slog.Logger) *RecommendHandler {
	return &RecommendHandler{analyzer: analyzer, logger: logger}
}

// ServeHTTP принимает {"useCase": "..."}; любая ошибка сервиса отдаётся как 500
// без различия по типу ошибки.
func (h *RecommendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "request body too large")
			return
		}
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "request body must be a JSON object with a useCase string")
		return
	}
	if req.UseCase == nil || strings.TrimSpace(*req.UseCase) == "" {
		WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "useCase is required")
		return
	}

	set, err := h.analyzer.Analyze(r.Context(), *req.UseCase)
	if err != nil {
		h.logger.Warn("recommend request failed",
			slog.String("kind", recommend.KindOf(err).String()),
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())))
		WriteJSONError(w, http.StatusInternalServerError, codeRecommendationFailed, err.Error())
		return
	}

	if set.Patterns == nil {
		set.Patterns = []recommend.Pattern{}
	}
	WriteJSON(w, http.StatusOK, set)
}
