package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"patternadvisor/internal/config"
)

const snippetLimit = 200

var (
	ErrMissingAPIKey     = errors.New("gemini api key is required")
	ErrMalformedResponse = errors.New("gemini response does not match generateContent envelope")
	ErrNoCandidates      = errors.New("gemini response has no candidates")
)

// HTTPStatusError означает, что API ответил не-2xx статусом.
// Тело ответа не разбирается, а сохраняется только фрагмент для логов.
type HTTPStatusError struct {
	StatusCode  int
	BodySnippet string
}

func (e *HTTPStatusError) Error() string {
	if e.BodySnippet == "" {
		return fmt.Sprintf("gemini status %d", e.StatusCode)
	}
	return fmt.Sprintf("gemini status %d: %s", e.StatusCode, e.BodySnippet)
}

type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGeminiClient создаёт клиента generateContent. Без ключа API клиент не создаётся.
func NewGeminiClient(cfg config.GeminiConfig, httpClient *http.Client, logger *slog.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini model is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// GenerateContent отправляет один промпт и возвращает текст первого кандидата.
// Повторов нет: любая ошибка сразу возвращается вызывающему.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: &prompt}}}},
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	c.logCall(resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
		return "", &HTTPStatusError{StatusCode: resp.StatusCode, BodySnippet: strings.TrimSpace(string(snippet))}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	first := parsed.Candidates[0]
	if first.Content == nil || len(first.Content.Parts) == 0 || first.Content.Parts[0].Text == nil {
		return "", fmt.Errorf("%w: first candidate has no text part", ErrMalformedResponse)
	}
	return *first.Content.Parts[0].Text, nil
}

func (c *GeminiClient) endpoint() string {
	q := url.Values{}
	q.Set("key", c.apiKey)
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s", c.baseURL, url.PathEscape(c.model), q.Encode())
}

func (c *GeminiClient) logCall(status int, elapsed time.Duration) {
	if c.logger == nil {
		return
	}
	c.logger.Debug("gemini call",
		slog.String("model", c.model),
		slog.Int("status", status),
		slog.Duration("duration", elapsed))
}

// redactKey убирает ключ из текста ошибки: *url.Error содержит полный URL запроса.
func redactKey(err error, key string) error {
	var urlErr *url.Error
	if key == "" || !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: strings.ReplaceAll(urlErr.URL, url.QueryEscape(key), "REDACTED"),
		Err: urlErr.Err,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text *string `json:"text,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}
