package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"example.com/ai-business-plan/backend/internal/ai"
	"example.com/ai-business-plan/backend/internal/auth"
	"example.com/ai-business-plan/backend/internal/balance"
	"example.com/ai-business-plan/backend/internal/config"
	"example.com/ai-business-plan/backend/internal/handlers"
	"example.com/ai-business-plan/backend/internal/notifications"
	"example.com/ai-business-plan/backend/internal/pipeline"
	"example.com/ai-business-plan/backend/internal/repository"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) (*echo.Echo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	aiService, err := ai.NewServiceFromConfig(cfg.AI, logger)
	if err != nil {
		return nil, err
	}

	targets, err := balance.LoadTargets(cfg.Balance.TargetsFile)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	aiRepo := repository.NewAIRepository(db)
	notificationHub := notifications.NewHub()

	generator := pipeline.NewService(aiService, planRepo, targets, pipeline.ConfigFrom(cfg),
		pipeline.WithPaymentLinker(paymentRepo),
		pipeline.WithRequestLogger(aiRepo),
		pipeline.WithPublisher(notificationHub),
		pipeline.WithLogger(logger),
	)

	logger.Info("plan pipeline configured",
		slog.String("provider", cfg.AI.Provider),
		slog.String("model", cfg.AI.Model),
		slog.String("heavy_model", cfg.AI.HeavyModel),
		slog.Bool("balance_enabled", cfg.Balance.Enabled),
		slog.Int("balance_targets", targets.Len()),
	)

	registerRoutes(
		e,
		handlers.NewPlanHandler(generator, planRepo),
		handlers.NewHistoryHandler(aiRepo),
		handlers.NewNotificationHandler(notificationHub),
		handlers.Ready(db),
		echo.WrapHandler(promhttp.Handler()),
		auth.JWTMiddleware(tokenManager),
		generateRateLimiter(cfg.AI),
	)

	return e, nil
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

// generateRateLimiter ограничивает частоту запросов генерации с одного адреса.
func generateRateLimiter(cfg config.AIConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
