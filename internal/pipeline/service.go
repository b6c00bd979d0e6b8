package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"example.com/ai-business-plan/backend/internal/ai"
	"example.com/ai-business-plan/backend/internal/balance"
	"example.com/ai-business-plan/backend/internal/config"
	"example.com/ai-business-plan/backend/internal/metrics"
	"example.com/ai-business-plan/backend/internal/notifications"
	"example.com/ai-business-plan/backend/internal/plan"
	"example.com/ai-business-plan/backend/internal/repository"
)

const (
	StageGeneration    = "generation"
	StageRecovery      = "recovery"
	StageNormalization = "normalization"
	StageGate          = "gate"
	StageBalancing     = "balancing"
	StageInclusion     = "inclusion"
	StagePersistence   = "persistence"

	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// Generator вызывает сервис генерации. Реализуется ai.Service.
type Generator interface {
	Complete(ctx context.Context, req ai.Request) (ai.Completion, error)
	ResolveModel(ctx context.Context, model, fallback string) string
}

// PlanStore сохраняет документ плана по ключу (пользователь, название).
type PlanStore interface {
	Upsert(ctx context.Context, userID uuid.UUID, name string, document []byte) (uuid.UUID, error)
}

type PaymentLinker interface {
	LinkLatestPayment(ctx context.Context, userID, planID uuid.UUID) error
}

type RequestLogger interface {
	LogRequest(ctx context.Context, log repository.AIRequestLog) error
}

type Publisher interface {
	Publish(userID uuid.UUID, event notifications.Event)
}

type Config struct {
	Provider        string
	Model           string
	HeavyModel      string
	Temperature     float64
	MaxOutputTokens int
	BalanceEnabled  bool
	BalanceVerbose  bool
}

// Result is what GeneratePlan returns to the caller: either a plan with its id, or an error message.
type Result struct {
	Success bool       `json:"success"`
	Plan    *plan.Plan `json:"plan,omitempty"`
	PlanID  string     `json:"planId,omitempty"`
	Source  string     `json:"source,omitempty"`
	Error   string     `json:"error,omitempty"`

	Err error `json:"-"`
}

type Service struct {
	generator Generator
	store     PlanStore
	payments  PaymentLinker
	requests  RequestLogger
	publisher Publisher
	targets   balance.Targets
	cfg       Config
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time

	engineOnce sync.Once
	engine     *balance.Engine
}

type Option func(*Service)

func WithPaymentLinker(payments PaymentLinker) Option {
	return func(s *Service) {
		s.payments = payments
	}
}

func WithRequestLogger(requests RequestLogger) Option {
	return func(s *Service) {
		s.requests = requests
	}
}

// WithPublisher задает получателя событий о ходе генерации.
func WithPublisher(publisher Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock подменяет источник текущего времени (дата подготовки плана).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService создает оркестратор генерации бизнес-плана.
func NewService(generator Generator, store PlanStore, targets balance.Targets, cfg Config, opts ...Option) *Service {
	s := &Service{
		generator: generator,
		store:     store,
		targets:   targets,
		cfg:       cfg,
		logger:    slog.Default(),
		tracer:    otel.Tracer("example.com/ai-business-plan/backend/internal/pipeline"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GeneratePlan прогоняет форму через все этапы: генерация, восстановление JSON, нормализация,
// проверка распределения средств, балансировка, обязательные включения и сохранение.
func (s *Service) GeneratePlan(ctx context.Context, userID uuid.UUID, req plan.Request) Result {
	start := s.now()
	name := planName(req)

	ctx, span := s.tracer.Start(ctx, "Pipeline.GeneratePlan", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("plan.name", name),
	))
	defer span.End()

	logger := s.logger.With(slog.String("user_id", userID.String()), slog.String("plan_name", name))

	result := s.run(ctx, logger, userID, name, req)

	outcome := "success"
	if !result.Success {
		outcome = "failure"
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Error)
		s.publish(userID, notifications.EventPlanFailed, map[string]string{"planName": name, "error": result.Error})
		logger.Warn("plan generation failed", slog.String("error", result.Error))
	} else {
		span.SetAttributes(attribute.String("plan.id", result.PlanID), attribute.String("plan.source", result.Source))
		s.publish(userID, notifications.EventPlanGenerated, map[string]string{"planName": name, "planId": result.PlanID})
		logger.Info("plan generated",
			slog.String("plan_id", result.PlanID),
			slog.String("source", result.Source),
			slog.Duration("duration", s.now().Sub(start)),
		)
	}
	metrics.PipelineRuns.WithLabelValues(outcome).Inc()
	metrics.PipelineDuration.Observe(s.now().Sub(start).Seconds())

	return result
}

func (s *Service) run(ctx context.Context, logger *slog.Logger, userID uuid.UUID, name string, req plan.Request) Result {
	now := s.now()

	stageCtx, span := s.stage(ctx, userID, StageGeneration)
	text, err := s.generate(stageCtx, userID, name, req, now)
	span.End()
	if err != nil {
		if ctx.Err() != nil {
			return failure(fmt.Errorf("generate plan: %w", ctx.Err()))
		}
		logger.Warn("plan generation call failed, using fallback document", slog.String("error", err.Error()))
	}

	_, span = s.stage(ctx, userID, StageRecovery)
	var doc map[string]any
	if err == nil {
		doc = ai.Recover(text)
	}
	span.SetAttributes(attribute.Bool("recovered", doc != nil))
	span.End()

	_, span = s.stage(ctx, userID, StageNormalization)
	source := SourceGenerated
	var p *plan.Plan
	if doc != nil {
		p = plan.Normalize(doc, req, now)
	} else {
		if err == nil {
			logger.Warn("plan output could not be recovered, using fallback document", slog.Int("length", len(text)))
		}
		source = SourceFallback
		metrics.FallbackPlans.Inc()
		p = plan.Fallback(req, now)
	}
	plan.NormalizeFinancials(p, req)
	span.End()

	_, span = s.stage(ctx, userID, StageGate)
	err = plan.ValidateUsageOfFunds(p.FinancialPlan.UsageOfFunds)
	span.End()
	if err != nil {
		return failure(err)
	}

	if s.cfg.BalanceEnabled {
		stageCtx, span = s.stage(ctx, userID, StageBalancing)
		report := s.balancer(stageCtx, logger).Balance(stageCtx, p)
		span.SetAttributes(attribute.Int("balance.calls", report.Calls()))
		span.End()
		if ctx.Err() != nil {
			return failure(fmt.Errorf("balance plan: %w", ctx.Err()))
		}
	}

	_, span = s.stage(ctx, userID, StageInclusion)
	plan.EnforceInclusions(p, req)
	err = plan.CheckShape(p)
	span.End()
	if err != nil {
		return failure(err)
	}

	stageCtx, span = s.stage(ctx, userID, StagePersistence)
	planID, err := s.persist(stageCtx, logger, userID, name, p)
	span.End()
	if err != nil {
		return failure(err)
	}

	return Result{Success: true, Plan: p, PlanID: planID.String(), Source: source}
}

func (s *Service) generate(ctx context.Context, userID uuid.UUID, name string, req plan.Request, now time.Time) (string, error) {
	prompt, err := buildGeneratePlanPrompt(req, now)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}

	started := s.now()
	completion, err := s.generator.Complete(ctx, ai.Request{
		Model: s.cfg.Model,
		Messages: []ai.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxOutputTokens,
		JSON:        true,
		Purpose:     "generate",
	})
	s.logRequest(ctx, repository.AIRequestLog{
		UserID:      userID,
		PlanName:    name,
		RequestType: "generate_plan",
		Provider:    s.cfg.Provider,
		Model:       s.cfg.Model,
		Prompt:      prompt,
		Duration:    s.now().Sub(started),
	}, req, completion, err)
	if err != nil {
		return "", err
	}

	return completion.Text, nil
}

func (s *Service) persist(ctx context.Context, logger *slog.Logger, userID uuid.UUID, name string, p *plan.Plan) (uuid.UUID, error) {
	document, err := json.Marshal(p)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode plan: %w", err)
	}

	planID, err := s.store.Upsert(ctx, userID, name, document)
	if err != nil {
		return uuid.Nil, fmt.Errorf("save plan: %w", err)
	}

	if s.payments != nil {
		if err := s.payments.LinkLatestPayment(ctx, userID, planID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			logger.Warn("failed to link payment to plan", slog.String("plan_id", planID.String()), slog.String("error", err.Error()))
		}
	}

	return planID, nil
}

// Проверка тяжелой модели не зависит от отмены запроса, который ее запустил.
const modelResolveTimeout = 30 * time.Second

// balancer создает движок при первом использовании: тяжелая модель проверяется один раз.
func (s *Service) balancer(ctx context.Context, logger *slog.Logger) *balance.Engine {
	s.engineOnce.Do(func() {
		resolveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), modelResolveTimeout)
		defer cancel()

		model := s.generator.ResolveModel(resolveCtx, s.cfg.HeavyModel, s.cfg.Model)
		logger.Info("balancing model resolved", slog.String("model", model))
		s.engine = balance.NewEngine(s.generator, s.targets,
			balance.WithModel(model),
			balance.WithLogger(s.logger),
			balance.WithVerbose(s.cfg.BalanceVerbose),
		)
	})

	return s.engine
}

func (s *Service) stage(ctx context.Context, userID uuid.UUID, name string) (context.Context, trace.Span) {
	s.publish(userID, notifications.EventPlanStage, map[string]string{"stage": name})
	return s.tracer.Start(ctx, "Pipeline."+name)
}

func (s *Service) publish(userID uuid.UUID, eventType string, data map[string]string) {
	if s.publisher == nil || userID == uuid.Nil {
		return
	}
	s.publisher.Publish(userID, notifications.Event{Type: eventType, Data: data})
}

// logRequest пишет журнал вызова генерации. Ошибка записи только логируется.
func (s *Service) logRequest(ctx context.Context, entry repository.AIRequestLog, req plan.Request, completion ai.Completion, callErr error) {
	if s.requests == nil || entry.UserID == uuid.Nil {
		return
	}

	entry.RequestPayload, _ = json.Marshal(req)
	entry.RawResponse = completion.Text
	entry.Success = callErr == nil
	if json.Valid(completion.Raw) {
		entry.ResponsePayload = completion.Raw
	}
	if callErr != nil {
		message := callErr.Error()
		entry.ErrorMessage = &message
	}

	if err := s.requests.LogRequest(ctx, entry); err != nil {
		s.logger.Warn("failed to log ai request", slog.String("error", err.Error()))
	}
}

func planName(req plan.Request) string {
	if name := strings.TrimSpace(req.PlanName); name != "" {
		return name
	}
	if business := strings.TrimSpace(req.BusinessName); business != "" {
		return business + " Business Plan"
	}

	return "Business Plan"
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error(), Err: err}
}

// ConfigFrom собирает настройки конвейера из конфигурации приложения.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		Provider:        cfg.AI.Provider,
		Model:           cfg.AI.Model,
		HeavyModel:      cfg.AI.HeavyModel,
		Temperature:     cfg.AI.Temperature,
		MaxOutputTokens: cfg.AI.MaxOutputTokens,
		BalanceEnabled:  cfg.Balance.Enabled,
		BalanceVerbose:  cfg.Balance.Verbose,
	}
}
