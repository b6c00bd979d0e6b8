package ai

import (
	"context"
	"net/http"
)

const defaultMaxTokens = 8192

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request описывает один вызов генерации. Пустой Model означает модель клиента по умолчанию.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	JSON        bool
	// Purpose labels the call in metrics ("generate", "balance").
	Purpose string
}

// Completion содержит текст ответа, сырой ответ API и заголовки ответа.
type Completion struct {
	Text   string
	Raw    []byte
	Header http.Header
}

type Client interface {
	Chat(ctx context.Context, req Request) (Completion, error)
}

// ClientFunc позволяет использовать функцию как Client.
type ClientFunc func(ctx context.Context, req Request) (Completion, error)

func (f ClientFunc) Chat(ctx context.Context, req Request) (Completion, error) {
	return f(ctx, req)
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}

func resolveModel(requested, fallback string) string {
	if requested != "" {
		return requested
	}

	return fallback
}
