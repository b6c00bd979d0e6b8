package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Balance  BalanceConfig
	Tracing  TracingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type AuthConfig struct {
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
}

type AIConfig struct {
	Provider           string
	APIKey             string
	BaseURL            string
	Model              string
	HeavyModel         string
	Timeout            time.Duration
	Temperature        float64
	MaxOutputTokens    int
	MaxAttempts        int
	RateLimitPerMinute int
	RateLimitBurst     int
	OutboundPerMinute  int
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	SampleRatio float64
}

type BalanceConfig struct {
	Enabled     bool
	Verbose     bool
	TargetsFile string
}

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	// Генерация плана с балансировкой может занимать минуты.
	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 5*time.Minute)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "0.0.0.0"),
		Port:         serverPort,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	cfg.Database, err = loadDatabase()
	if err != nil {
		return cfg, err
	}

	accessTTL, err := parseDurationEnv("JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return cfg, err
	}

	cfg.Auth = AuthConfig{
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTIssuer:      getEnv("JWT_ISSUER", "business-plan"),
		AccessTokenTTL: accessTTL,
	}

	cfg.AI, err = loadAI()
	if err != nil {
		return cfg, err
	}

	cfg.Balance, err = loadBalance()
	if err != nil {
		return cfg, err
	}

	cfg.Tracing, err = loadTracing()
	if err != nil {
		return cfg, err
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadDatabase() (DatabaseConfig, error) {
	dbPort, err := parseIntEnv("DB_PORT", 5432)
	if err != nil {
		return DatabaseConfig{}, err
	}

	maxOpenConns, err := parseIntEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return DatabaseConfig{}, err
	}

	maxIdleConns, err := parseIntEnv("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return DatabaseConfig{}, err
	}

	connMaxIdleTime, err := parseDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return DatabaseConfig{}, err
	}

	connMaxLifetime, err := parseDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return DatabaseConfig{}, err
	}

	autoMigrate, err := parseBoolEnv("DB_AUTO_MIGRATE", true)
	if err != nil {
		return DatabaseConfig{}, err
	}

	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "bizplan"),
		Password:        getEnv("DB_PASSWORD", "bizplan"),
		Name:            getEnv("DB_NAME", "business_plans"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxIdleTime: connMaxIdleTime,
		ConnMaxLifetime: connMaxLifetime,
		AutoMigrate:     autoMigrate,
	}, nil
}

func loadAI() (AIConfig, error) {
	aiTimeout, err := parseDurationEnv("AI_TIMEOUT", 120*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	aiRateLimitPerMinute, err := parseIntEnv("AI_RATE_LIMIT_PER_MINUTE", 6)
	if err != nil {
		return AIConfig{}, err
	}

	aiRateLimitBurst, err := parseIntEnv("AI_RATE_LIMIT_BURST", 2)
	if err != nil {
		return AIConfig{}, err
	}

	aiOutboundPerMinute, err := parseIntEnv("AI_OUTBOUND_PER_MINUTE", 60)
	if err != nil {
		return AIConfig{}, err
	}

	aiMaxOutputTokens, err := parseIntEnv("AI_MAX_OUTPUT_TOKENS", 8192)
	if err != nil {
		return AIConfig{}, err
	}

	aiMaxAttempts, err := parseIntEnv("AI_MAX_ATTEMPTS", 5)
	if err != nil {
		return AIConfig{}, err
	}

	aiTemperature, err := parseFloatEnv("AI_TEMPERATURE", 0.4)
	if err != nil {
		return AIConfig{}, err
	}

	aiProvider := strings.ToLower(getEnv("AI_PROVIDER", "gemini"))
	defaultBaseURL := "https://api.groq.com/openai/v1"
	defaultModel := "llama-3.3-70b-versatile"
	if aiProvider == "gemini" {
		defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
		defaultModel = "gemini-2.0-flash"
	}

	aiAPIKey := getEnv("AI_API_KEY", "")
	if aiAPIKey == "" && aiProvider == "gemini" {
		aiAPIKey = getEnv("GEMINI_API_KEY", "")
	}

	return AIConfig{
		Provider:           aiProvider,
		APIKey:             aiAPIKey,
		BaseURL:            getEnv("AI_BASE_URL", defaultBaseURL),
		Model:              getEnv("AI_MODEL", defaultModel),
		HeavyModel:         strings.TrimSpace(getEnv("AI_HEAVY_MODEL", "")),
		Timeout:            aiTimeout,
		Temperature:        aiTemperature,
		MaxOutputTokens:    aiMaxOutputTokens,
		MaxAttempts:        aiMaxAttempts,
		RateLimitPerMinute: aiRateLimitPerMinute,
		RateLimitBurst:     aiRateLimitBurst,
		OutboundPerMinute:  aiOutboundPerMinute,
	}, nil
}

func loadBalance() (BalanceConfig, error) {
	enabled, err := parseBoolEnv("BALANCE_ENABLED", true)
	if err != nil {
		return BalanceConfig{}, err
	}

	verbose, err := parseBoolEnv("BALANCE_VERBOSE", false)
	if err != nil {
		return BalanceConfig{}, err
	}

	return BalanceConfig{
		Enabled:     enabled,
		Verbose:     verbose,
		TargetsFile: strings.TrimSpace(getEnv("BALANCE_TARGETS_FILE", "")),
	}, nil
}

func loadTracing() (TracingConfig, error) {
	enabled, err := parseBoolEnv("TRACING_ENABLED", false)
	if err != nil {
		return TracingConfig{}, err
	}

	ratio, err := parseFloatEnv("TRACING_SAMPLE_RATIO", 1)
	if err != nil {
		return TracingConfig{}, err
	}
	if ratio < 0 || ratio > 1 {
		return TracingConfig{}, fmt.Errorf("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}

	return TracingConfig{
		Enabled:     enabled,
		ServiceName: strings.TrimSpace(getEnv("TRACING_SERVICE_NAME", "business-plan-api")),
		SampleRatio: ratio,
	}, nil
}

// DSN возвращает строку подключения к базе данных.
func (c DatabaseConfig) DSN() string {
	user := url.UserPassword(c.User, c.Password)
	dsn := url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	return dsn.String() + "?" + query.Encode()
}

func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be greater than 0")
	}

	switch c.AI.Provider {
	case "gemini", "groq":
	default:
		return fmt.Errorf("AI_PROVIDER must be gemini or groq, got %q", c.AI.Provider)
	}

	if strings.TrimSpace(c.AI.Model) == "" {
		return fmt.Errorf("AI_MODEL is required")
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2")
	}

	if c.AI.MaxAttempts > 10 {
		return fmt.Errorf("AI_MAX_ATTEMPTS cannot exceed 10")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}

	return parsed, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
