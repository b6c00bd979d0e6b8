package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

// NewPaymentRepository создает репозиторий платежей.
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// LinkLatestPayment привязывает последний непривязанный платеж пользователя к плану.
// Если такого платежа нет, возвращает ErrNotFound.
func (r *PaymentRepository) LinkLatestPayment(ctx context.Context, userID, planID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	cmd, err := tx.Exec(ctx,
		`UPDATE payments SET plan_id = $2
		 WHERE id = (
		   SELECT id FROM payments
		   WHERE user_id = $1 AND plan_id IS NULL
		   ORDER BY created_at DESC
		   LIMIT 1
		   FOR UPDATE SKIP LOCKED
		 )`,
		userID, planID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`UPDATE business_plans SET payment_id = (
		   SELECT id FROM payments WHERE plan_id = $1 ORDER BY created_at DESC LIMIT 1
		 )
		 WHERE id = $1 AND user_id = $2`,
		planID, userID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
