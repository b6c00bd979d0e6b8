package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AIRepository struct {
	db *pgxpool.Pool
}

type AIRequestLog struct {
	UserID          uuid.UUID
	PlanName        string
	RequestType     string
	Provider        string
	Model           string
	Prompt          string
	RequestPayload  []byte
	ResponsePayload []byte
	RawResponse     string
	Success         bool
	ErrorMessage    *string
	Duration        time.Duration
}

// NewAIRepository создает репозиторий журнала вызовов генерации.
func NewAIRepository(db *pgxpool.Pool) *AIRepository {
	return &AIRepository{db: db}
}

// LogRequest сохраняет запись о вызове генерации: промпт, сырой ответ и результат.
func (r *AIRepository) LogRequest(ctx context.Context, log AIRequestLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ai_requests
		 (user_id, plan_name, request_type, provider, model, prompt, request_payload, response_payload,
		  raw_response, success, error_message, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::jsonb, NULLIF($8, '')::jsonb, $9, $10, $11, $12)`,
		log.UserID,
		log.PlanName,
		log.RequestType,
		log.Provider,
		log.Model,
		log.Prompt,
		string(log.RequestPayload),
		string(log.ResponsePayload),
		log.RawResponse,
		log.Success,
		log.ErrorMessage,
		log.Duration.Milliseconds(),
	)
	return err
}

type AIRequestFilter struct {
	Success  *bool
	PlanName *string
}

// AIRequestRecord is one row of a user's generation history.
type AIRequestRecord struct {
	ID           int64
	PlanName     string
	RequestType  string
	Provider     string
	Model        string
	Success      bool
	ErrorMessage *string
	DurationMS   int64
	CreatedAt    time.Time
}

// ListByUser возвращает историю вызовов генерации пользователя, последние первыми.
func (r *AIRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter AIRequestFilter, limit, offset int) ([]AIRequestRecord, error) {
	where, args := buildAIRequestWhere(userID, filter)

	query := fmt.Sprintf(
		`SELECT id, plan_name, request_type, provider, model, success, error_message, duration_ms, created_at
		 FROM ai_requests%s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]AIRequestRecord, 0)
	for rows.Next() {
		var record AIRequestRecord
		if err := rows.Scan(
			&record.ID,
			&record.PlanName,
			&record.RequestType,
			&record.Provider,
			&record.Model,
			&record.Success,
			&record.ErrorMessage,
			&record.DurationMS,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// CountByUser возвращает количество вызовов генерации пользователя по фильтру.
func (r *AIRepository) CountByUser(ctx context.Context, userID uuid.UUID, filter AIRequestFilter) (int, error) {
	where, args := buildAIRequestWhere(userID, filter)

	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM ai_requests"+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func buildAIRequestWhere(userID uuid.UUID, filter AIRequestFilter) (string, []interface{}) {
	args := []interface{}{userID}
	clauses := []string{"user_id = $1"}

	if filter.Success != nil {
		args = append(args, *filter.Success)
		clauses = append(clauses, fmt.Sprintf("success = $%d", len(args)))
	}

	if filter.PlanName != nil {
		args = append(args, *filter.PlanName)
		clauses = append(clauses, fmt.Sprintf("plan_name = $%d", len(args)))
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
