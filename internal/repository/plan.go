package repository

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-business-plan/backend/internal/models"
)

const maxPlanNameLength = 200

type PlanRepository struct {
	db *pgxpool.Pool
}

// NewPlanRepository создает репозиторий бизнес-планов.
func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

// Upsert сохраняет документ плана одним запросом: строка с тем же (user_id, name) обновляется.
func (r *PlanRepository) Upsert(ctx context.Context, userID uuid.UUID, name string, document []byte) (uuid.UUID, error) {
	name = clampName(name, maxPlanNameLength)
	if name == "" || len(document) == 0 {
		return uuid.Nil, ErrInvalid
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO business_plans (id, user_id, name, document)
		 VALUES ($1, $2, $3, $4::jsonb)
		 ON CONFLICT (user_id, name)
		 DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
		 RETURNING id`,
		uuid.New(), userID, name, string(document),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// GetByID возвращает план пользователя.
func (r *PlanRepository) GetByID(ctx context.Context, userID, planID uuid.UUID) (models.BusinessPlan, error) {
	var plan models.BusinessPlan

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, document, payment_id, created_at, updated_at
		 FROM business_plans
		 WHERE id = $1 AND user_id = $2`,
		planID, userID,
	).Scan(&plan.ID, &plan.UserID, &plan.Name, &plan.Document, &plan.PaymentID, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plan, ErrNotFound
		}
		return plan, err
	}

	return plan, nil
}

// ListByUser возвращает планы пользователя, последние обновленные первыми.
func (r *PlanRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PlanSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, updated_at
		 FROM business_plans
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []models.PlanSummary{}
	for rows.Next() {
		var summary models.PlanSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, summary)
	}

	return plans, rows.Err()
}

// Delete удаляет план пользователя.
func (r *PlanRepository) Delete(ctx context.Context, userID, planID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM business_plans
		 WHERE id = $1 AND user_id = $2`,
		planID, userID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func clampName(name string, maxLen int) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= maxLen {
		return name
	}

	runes := []rune(name)
	return strings.TrimSpace(string(runes[:maxLen]))
}
