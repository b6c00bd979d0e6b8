package config

import (
	"testing"
	"time"
)

// TestParseBoolEnv проверяет разбор булевых флагов из ENV.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("BALANCE_ENABLED", " false ")

	got, err := parseBoolEnv("BALANCE_ENABLED", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got {
		t.Fatal("expected false")
	}
}

// TestParseBoolEnvMissing проверяет значение по умолчанию.
func TestParseBoolEnvMissing(t *testing.T) {
	got, err := parseBoolEnv("MISSING_BOOL_ENV", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !got {
		t.Fatal("expected fallback true")
	}
}

// TestParseBoolEnvInvalid проверяет ошибку при неверном значении.
func TestParseBoolEnvInvalid(t *testing.T) {
	t.Setenv("BALANCE_VERBOSE", "sometimes")

	if _, err := parseBoolEnv("BALANCE_VERBOSE", false); err == nil {
		t.Fatal("expected error for invalid boolean")
	}
}

// TestLoadDefaults проверяет загрузку конфигурации с минимальным окружением.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AI_PROVIDER", "groq")
	t.Setenv("AI_HEAVY_MODEL", " heavy-model ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AI.Provider != "groq" {
		t.Fatalf("unexpected provider: %s", cfg.AI.Provider)
	}
	if cfg.AI.HeavyModel != "heavy-model" {
		t.Fatalf("unexpected heavy model: %q", cfg.AI.HeavyModel)
	}
	if cfg.AI.MaxAttempts != 5 {
		t.Fatalf("expected 5 attempts, got %d", cfg.AI.MaxAttempts)
	}
	if cfg.AI.Timeout != 120*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.AI.Timeout)
	}
	if !cfg.Balance.Enabled || cfg.Balance.Verbose {
		t.Fatalf("unexpected balance config: %+v", cfg.Balance)
	}
}

// TestLoadRejectsUnknownProvider проверяет валидацию провайдера.
func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AI_PROVIDER", "other")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

// TestLoadTracing проверяет настройки трассировки и проверку доли сэмплирования.
func TestLoadTracing(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := loadTracing()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !cfg.Enabled || cfg.SampleRatio != 0.25 || cfg.ServiceName != "business-plan-api" {
		t.Fatalf("unexpected tracing config: %+v", cfg)
	}

	t.Setenv("TRACING_SAMPLE_RATIO", "1.5")
	if _, err := loadTracing(); err == nil {
		t.Fatal("expected error for sample ratio above 1")
	}
}
