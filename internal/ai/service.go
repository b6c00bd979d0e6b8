package ai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"example.com/ai-business-plan/backend/internal/metrics"
)

type Service struct {
	client  Client
	policy  RetryPolicy
	limiter *rate.Limiter
	logger  *slog.Logger
}

type ServiceOption func(*Service)

// WithRetryPolicy задает политику повторов.
func WithRetryPolicy(policy RetryPolicy) ServiceOption {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithRateLimit ограничивает частоту исходящих вызовов генерации.
func WithRateLimit(perMinute, burst int) ServiceOption {
	return func(s *Service) {
		if perMinute <= 0 {
			s.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
	}
}

// WithLogger задает логгер сервиса.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService создает сервис вызовов AI-клиента с повторами.
func NewService(client Client, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		policy: DefaultRetryPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy.Logger == nil {
		s.policy.Logger = s.logger
	}

	return s
}

// Complete выполняет один вызов генерации через обертку повторов.
// Пустой ответ считается ошибкой ErrEmptyCompletion.
func (s *Service) Complete(ctx context.Context, req Request) (Completion, error) {
	purpose := req.Purpose
	if purpose == "" {
		purpose = "other"
	}
	start := time.Now()

	completion, err := Retry(ctx, s.policy, func(ctx context.Context) (Completion, error) {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return Completion{}, err
			}
		}

		completion, err := s.client.Chat(ctx, req)
		if err != nil {
			return completion, err
		}
		if strings.TrimSpace(completion.Text) == "" {
			return completion, ErrEmptyCompletion
		}

		return completion, nil
	})

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.AICalls.WithLabelValues(purpose, outcome).Inc()
	metrics.AICallDuration.WithLabelValues(purpose).Observe(time.Since(start).Seconds())

	return completion, err
}

// ResolveModel проверяет доступность модели однотокенным запросом.
// При ошибке молча возвращает fallback.
func (s *Service) ResolveModel(ctx context.Context, model, fallback string) string {
	model = strings.TrimSpace(model)
	if model == "" || model == fallback {
		return fallback
	}

	_, err := s.client.Chat(ctx, Request{
		Model:     model,
		Messages:  []Message{{Role: "user", Content: "ping"}},
		MaxTokens: 1,
	})
	if err != nil {
		s.logger.Info("heavy model unavailable, using primary model",
			slog.String("model", model),
			slog.String("fallback", fallback),
			slog.String("error", err.Error()),
		)
		return fallback
	}

	return model
}
