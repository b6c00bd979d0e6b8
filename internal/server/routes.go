package server

import (
	"github.com/labstack/echo/v4"

	"example.com/ai-business-plan/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	planHandler *handlers.PlanHandler,
	historyHandler *handlers.HistoryHandler,
	notificationHandler *handlers.NotificationHandler,
	readyHandler echo.HandlerFunc,
	metricsHandler echo.HandlerFunc,
	authMiddleware echo.MiddlewareFunc,
	generateRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)
	e.GET("/ready", readyHandler)
	e.GET("/metrics", metricsHandler)

	api := e.Group("/api/v1")

	plans := api.Group("/plans", authMiddleware)
	plans.POST("/generate", planHandler.Generate, generateRateLimiter)
	plans.GET("", planHandler.List)
	plans.GET("/history", historyHandler.List)
	plans.GET("/:id", planHandler.Get)
	plans.GET("/:id/export/json", planHandler.ExportJSON)
	plans.GET("/:id/export/csv", planHandler.ExportCSV)
	plans.DELETE("/:id", planHandler.Delete)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)
}
