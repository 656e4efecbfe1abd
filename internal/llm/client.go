package llm

import "context"

// Client минимальный публичный интерфейс LLM клиента: один промпт, один ответ.
type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
