package ai

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/ai-business-plan/backend/internal/metrics"
)

const maxRetryAfter = 60 * time.Second

// RetryPolicy configures the retry wrapper around a single generation call.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
	Jitter      time.Duration

	// Sleep waits for d or until ctx is done. Nil means a timer-based sleep.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
}

// DefaultRetryPolicy возвращает политику: 5 попыток, рост задержки примерно от 0.8 до 3 секунд.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   800 * time.Millisecond,
		Multiplier:  1.5,
		MaxDelay:    3 * time.Second,
		Jitter:      400 * time.Millisecond,
	}
}

// Retry выполняет op, повторяя его при временных ошибках с экспоненциальной задержкой.
// Заголовок Retry-After (секунды или HTTP-дата) имеет приоритет над расчетной задержкой.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	maxAttempts := policy.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	logger := policy.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var zero T
	for attempt := 1; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		if ctx.Err() != nil || !IsTransient(err) || attempt >= maxAttempts {
			return zero, err
		}

		delay, fromHeader := retryAfter(responseHeader(err))
		if !fromHeader {
			delay = policy.backoff(attempt)
		}

		attrs := []any{
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("delay", delay),
			slog.Int("status", statusCode(err)),
			slog.String("error", err.Error()),
		}
		if header := responseHeader(err); header != nil {
			attrs = append(attrs,
				slog.String("remaining_requests", header.Get("x-ratelimit-remaining-requests")),
				slog.String("remaining_tokens", header.Get("x-ratelimit-remaining-tokens")),
			)
		}
		logger.Warn("ai call failed, retrying", attrs...)
		metrics.AIRetries.WithLabelValues(strconv.Itoa(statusCode(err))).Inc()

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := time.Duration(float64(p.BaseDelay) * math.Pow(multiplier, float64(attempt-1)))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.Jitter > 0 {
		delay += rand.N(p.Jitter)
	}

	return delay
}

func retryAfter(header map[string][]string) (time.Duration, bool) {
	if header == nil {
		return 0, false
	}

	var value string
	for key, values := range header {
		if strings.EqualFold(key, "Retry-After") && len(values) > 0 {
			value = strings.TrimSpace(values[0])
			break
		}
	}
	if value == "" {
		return 0, false
	}

	var delay time.Duration
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return 0, false
		}
		delay = time.Duration(seconds * float64(time.Second))
	} else {
		at, err := http.ParseTime(value)
		if err != nil {
			return 0, false
		}
		// Уже наступившая дата не дает задержки, остается обычный backoff.
		delay = time.Until(at)
		if delay <= 0 {
			return 0, false
		}
	}

	if delay > maxRetryAfter {
		delay = maxRetryAfter
	}

	return delay, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
