package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-business-plan/backend/internal/auth"
	"example.com/ai-business-plan/backend/internal/repository"
)

type RequestHistory interface {
	ListByUser(ctx context.Context, userID uuid.UUID, filter repository.AIRequestFilter, limit, offset int) ([]repository.AIRequestRecord, error)
	CountByUser(ctx context.Context, userID uuid.UUID, filter repository.AIRequestFilter) (int, error)
}

type HistoryHandler struct {
	Requests RequestHistory
}

// NewHistoryHandler создает обработчик истории вызовов генерации.
func NewHistoryHandler(requests RequestHistory) *HistoryHandler {
	return &HistoryHandler{Requests: requests}
}

type GenerationResponse struct {
	ID           int64   `json:"id"`
	PlanName     string  `json:"plan_name"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Success      bool    `json:"success"`
	ErrorMessage *string `json:"error_message,omitempty"`
	DurationMS   int64   `json:"duration_ms"`
	CreatedAt    string  `json:"created_at"`
}

type GenerationsResponse struct {
	Total       int                  `json:"total"`
	Generations []GenerationResponse `json:"generations"`
}

// List возвращает историю генераций пользователя с фильтрами success и plan_name.
func (h *HistoryHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	limit, offset, err := parsePagination(c, 20, 100)
	if err != nil {
		return badRequest(c, err.Error())
	}

	filter := repository.AIRequestFilter{}
	if raw := strings.TrimSpace(c.QueryParam("success")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "invalid success")
		}
		filter.Success = &parsed
	}
	if raw := strings.TrimSpace(c.QueryParam("plan_name")); raw != "" {
		filter.PlanName = &raw
	}

	records, err := h.Requests.ListByUser(c.Request().Context(), userID, filter, limit, offset)
	if err != nil {
		return serverError(c)
	}

	total, err := h.Requests.CountByUser(c.Request().Context(), userID, filter)
	if err != nil {
		return serverError(c)
	}

	response := make([]GenerationResponse, 0, len(records))
	for _, record := range records {
		response = append(response, GenerationResponse{
			ID:           record.ID,
			PlanName:     record.PlanName,
			Provider:     record.Provider,
			Model:        record.Model,
			Success:      record.Success,
			ErrorMessage: record.ErrorMessage,
			DurationMS:   record.DurationMS,
			CreatedAt:    record.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, GenerationsResponse{Total: total, Generations: response})
}

func parsePagination(c echo.Context, defaultLimit, maxLimit int) (int, int, error) {
	limit := defaultLimit
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
		if parsed > maxLimit {
			parsed = maxLimit
		}
		limit = parsed
	}

	offset := 0
	if raw := strings.TrimSpace(c.QueryParam("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, errors.New("invalid offset")
		}
		offset = parsed
	}

	return limit, offset, nil
}
