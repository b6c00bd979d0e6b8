package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/ai-business-plan/backend/internal/repository"
)

type stubHistory struct {
	filter repository.AIRequestFilter
	limit  int
	offset int
}

func (s *stubHistory) ListByUser(_ context.Context, _ uuid.UUID, filter repository.AIRequestFilter, limit, offset int) ([]repository.AIRequestRecord, error) {
	s.filter, s.limit, s.offset = filter, limit, offset
	message := "groq api error (status 503): overloaded"
	return []repository.AIRequestRecord{{
		ID:           7,
		PlanName:     "Seed round plan",
		Provider:     "groq",
		Success:      false,
		ErrorMessage: &message,
		DurationMS:   1200,
		CreatedAt:    time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}}, nil
}

func (s *stubHistory) CountByUser(context.Context, uuid.UUID, repository.AIRequestFilter) (int, error) {
	return 1, nil
}

// TestHistoryListFilters проверяет разбор фильтров и пагинации истории генераций.
func TestHistoryListFilters(t *testing.T) {
	history := &stubHistory{}
	handler := NewHistoryHandler(history)

	c, rec := newTestContext(http.MethodGet, "/?success=false&limit=500&offset=20&plan_name=Seed+round+plan", "", uuid.New())
	if err := handler.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if history.limit != 100 || history.offset != 20 {
		t.Fatalf("expected limit 100 offset 20, got %d %d", history.limit, history.offset)
	}
	if history.filter.Success == nil || *history.filter.Success {
		t.Fatalf("expected success=false filter, got %v", history.filter.Success)
	}
	if history.filter.PlanName == nil || *history.filter.PlanName != "Seed round plan" {
		t.Fatalf("unexpected plan name filter %v", history.filter.PlanName)
	}

	var response GenerationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Total != 1 || len(response.Generations) != 1 || response.Generations[0].CreatedAt != "2025-03-14T09:00:00Z" {
		t.Fatalf("unexpected response %+v", response)
	}
}

// TestHistoryListRejectsBadQuery проверяет ошибки разбора параметров.
func TestHistoryListRejectsBadQuery(t *testing.T) {
	handler := NewHistoryHandler(&stubHistory{})

	for _, query := range []string{"/?limit=0", "/?offset=-1", "/?success=maybe"} {
		c, rec := newTestContext(http.MethodGet, query, "", uuid.New())
		if err := handler.List(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, rec.Code)
		}
	}
}
