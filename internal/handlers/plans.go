package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-business-plan/backend/internal/auth"
	"example.com/ai-business-plan/backend/internal/models"
	"example.com/ai-business-plan/backend/internal/pipeline"
	"example.com/ai-business-plan/backend/internal/plan"
	"example.com/ai-business-plan/backend/internal/repository"
)

// PlanGenerator запускает конвейер генерации. Реализуется pipeline.Service.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, userID uuid.UUID, req plan.Request) pipeline.Result
}

type PlanReader interface {
	GetByID(ctx context.Context, userID, planID uuid.UUID) (models.BusinessPlan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PlanSummary, error)
	Delete(ctx context.Context, userID, planID uuid.UUID) error
}

type PlanHandler struct {
	Generator PlanGenerator
	Plans     PlanReader
}

// NewPlanHandler создает обработчик бизнес-планов.
func NewPlanHandler(generator PlanGenerator, plans PlanReader) *PlanHandler {
	return &PlanHandler{Generator: generator, Plans: plans}
}

type PlanDetailResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Plan      json.RawMessage `json:"plan"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Generate создает или обновляет бизнес-план пользователя по анкете.
func (h *PlanHandler) Generate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req plan.Request
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	result := h.Generator.GeneratePlan(c.Request().Context(), userID, req)
	if !result.Success {
		return c.JSON(failureStatus(result.Err), result)
	}

	return c.JSON(http.StatusCreated, result)
}

// List возвращает список планов пользователя.
func (h *PlanHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	plans, err := h.Plans.ListByUser(c.Request().Context(), userID)
	if err != nil {
		slog.Error("failed to list plans", slog.String("user_id", userID.String()), slog.String("error", err.Error()))
		return serverError(c)
	}

	return c.JSON(http.StatusOK, plans)
}

// Get возвращает сохраненный документ плана.
func (h *PlanHandler) Get(c echo.Context) error {
	stored, err := h.loadPlan(c)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	return c.JSON(http.StatusOK, PlanDetailResponse{
		ID:        stored.ID,
		Name:      stored.Name,
		Plan:      stored.Document,
		CreatedAt: stored.CreatedAt,
		UpdatedAt: stored.UpdatedAt,
	})
}

// Delete удаляет план пользователя.
func (h *PlanHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid plan id")
	}

	if err := h.Plans.Delete(c.Request().Context(), userID, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "plan not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

// loadPlan читает план из пути запроса. При ошибке ответ уже записан и возвращается nil-план.
func (h *PlanHandler) loadPlan(c echo.Context) (*models.BusinessPlan, error) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return nil, unauthorized(c)
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, badRequest(c, "invalid plan id")
	}

	stored, err := h.Plans.GetByID(c.Request().Context(), userID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(c, "plan not found")
		}
		return nil, serverError(c)
	}

	return &stored, nil
}

func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return "validation failed"
	}

	fields := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		fields = append(fields, fieldError.Field())
	}

	return "validation failed: " + strings.Join(fields, ", ")
}

func failureStatus(err error) int {
	switch {
	case errors.Is(err, plan.ErrUsageOfFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
