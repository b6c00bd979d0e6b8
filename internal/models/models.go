package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BusinessPlan is a stored plan document. Document holds the serialized plan as JSON.
type BusinessPlan struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"document"`
	PaymentID *uuid.UUID      `json:"payment_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type PlanSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}
