package ai

import (
	"fmt"
	"log/slog"
	"strings"

	"example.com/ai-business-plan/backend/internal/config"
)

// NewClientFromConfig создает клиента выбранного провайдера.
func NewClientFromConfig(cfg config.AIConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens), nil
	case "groq":
		return NewGroqClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, cfg.MaxOutputTokens), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// NewServiceFromConfig собирает сервис генерации с повторами и исходящим ограничением частоты.
func NewServiceFromConfig(cfg config.AIConfig, logger *slog.Logger) (*Service, error) {
	client, err := NewClientFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	policy := DefaultRetryPolicy()
	if cfg.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.MaxAttempts
	}

	return NewService(client,
		WithRetryPolicy(policy),
		WithRateLimit(cfg.OutboundPerMinute, 2),
		WithLogger(logger),
	), nil
}
