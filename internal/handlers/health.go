package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// Health возвращает простой статус сервиса.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Pinger проверяет доступность хранилища. Реализуется *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ready проверяет подключение к базе данных.
func Ready(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "database unavailable"})
		}

		return c.JSON(http.StatusOK, HealthResponse{Status: "ready"})
	}
}
