package balance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"example.com/ai-business-plan/backend/internal/ai"
	"example.com/ai-business-plan/backend/internal/metrics"
	"example.com/ai-business-plan/backend/internal/plan"
)

const (
	maxRounds          = 3
	rewriteTemperature = 0.4
	rewriteMaxTokens   = 1024
	additiveMaxTokens  = 256
)

// Completer выполняет один вызов генерации (с повторами). Реализуется ai.Service.
type Completer interface {
	Complete(ctx context.Context, req ai.Request) (ai.Completion, error)
}

// Outcome describes what the engine did with one field.
type Outcome string

const (
	OutcomeInRange   Outcome = "in_range"
	OutcomeRewritten Outcome = "rewritten"
	OutcomeTruncated Outcome = "truncated"
	OutcomePadded    Outcome = "padded"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// FieldResult is the per-field summary of one balancing pass.
type FieldResult struct {
	Path    string
	Before  int
	After   int
	Calls   int
	Outcome Outcome
	Err     error
}

type Report struct {
	Fields []FieldResult
}

// Calls возвращает общее число вызовов модели за проход.
func (r Report) Calls() int {
	total := 0
	for _, field := range r.Fields {
		total += field.Calls
	}

	return total
}

type Engine struct {
	completer Completer
	targets   Targets
	model     string
	logger    *slog.Logger
	logLevel  slog.Level
}

type Option func(*Engine)

// WithModel задает модель для переписывания полей (пустая строка означает модель клиента).
func WithModel(model string) Option {
	return func(e *Engine) {
		e.model = model
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithVerbose поднимает уровень логов по полям с Debug до Info.
func WithVerbose(verbose bool) Option {
	return func(e *Engine) {
		if verbose {
			e.logLevel = slog.LevelInfo
		} else {
			e.logLevel = slog.LevelDebug
		}
	}
}

// NewEngine создает движок балансировки полей по таблице целей.
func NewEngine(completer Completer, targets Targets, opts ...Option) *Engine {
	e := &Engine{
		completer: completer,
		targets:   targets,
		logger:    slog.Default(),
		logLevel:  slog.LevelDebug,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Balance приводит объем каждого поля с целью к диапазону [min, max]. Поля обрабатываются
// последовательно. Ошибка одного поля не прерывает проход: поле остается без изменений.
func (e *Engine) Balance(ctx context.Context, p *plan.Plan) Report {
	report := Report{Fields: make([]FieldResult, 0, e.targets.Len())}

	for _, target := range e.targets.items {
		if ctx.Err() != nil {
			break
		}

		original := target.field.Get(p)
		result := FieldResult{Path: target.Path, Before: CountWords(original)}

		switch {
		case strings.TrimSpace(original) == "":
			result.Outcome = OutcomeSkipped
		case target.Contains(result.Before):
			result.Outcome = OutcomeInRange
		default:
			balanced, outcome, calls, err := e.balanceField(ctx, target, original)
			result.Calls = calls
			if err != nil {
				result.Outcome = OutcomeFailed
				result.Err = err
				e.logger.Warn("field balancing failed, keeping original text",
					slog.String("field", target.Path),
					slog.Int("words", result.Before),
					slog.String("error", err.Error()),
				)
				break
			}
			target.field.Set(p, balanced)
			result.Outcome = outcome
		}

		result.After = CountWords(target.field.Get(p))
		metrics.BalancedFields.WithLabelValues(string(result.Outcome)).Inc()
		e.logger.Log(ctx, e.logLevel, "field balanced",
			slog.String("field", result.Path),
			slog.Int("min", target.Min),
			slog.Int("max", target.Max),
			slog.Int("before", result.Before),
			slog.Int("after", result.After),
			slog.Int("calls", result.Calls),
			slog.String("outcome", string(result.Outcome)),
		)

		report.Fields = append(report.Fields, result)
	}

	return report
}

func (e *Engine) balanceField(ctx context.Context, target Target, text string) (string, Outcome, int, error) {
	if target.Deterministic {
		balanced, outcome := settle(target, text, OutcomeRewritten)
		return balanced, outcome, 0, nil
	}

	if CountWords(text) < target.Min {
		return e.expand(ctx, target, text)
	}

	return e.compress(ctx, target, text)
}

func (e *Engine) expand(ctx context.Context, target Target, text string) (string, Outcome, int, error) {
	calls := 0
	current := text

	for round := 1; round <= maxRounds; round++ {
		calls++
		rewritten, err := e.rewrite(ctx, target, expandInstruction(target), current, rewriteMaxTokens)
		if err != nil {
			return "", "", calls, fmt.Errorf("expand round %d: %w", round, err)
		}
		if rewritten != "" {
			current = rewritten
		}
		if target.Contains(CountWords(current)) {
			return current, OutcomeRewritten, calls, nil
		}
	}

	if CountWords(current) < target.Min {
		calls++
		addition, err := e.rewrite(ctx, target, additiveInstruction(target), current, additiveMaxTokens)
		if err != nil {
			return "", "", calls, fmt.Errorf("additive request: %w", err)
		}
		if addition != "" {
			current = strings.TrimSpace(current) + " " + addition
		}
	}

	balanced, outcome := settle(target, current, OutcomeRewritten)
	return balanced, outcome, calls, nil
}

func (e *Engine) compress(ctx context.Context, target Target, text string) (string, Outcome, int, error) {
	calls := 0
	current := text

	for round := 1; round <= maxRounds; round++ {
		calls++
		rewritten, err := e.rewrite(ctx, target, compressInstruction(target), current, rewriteMaxTokens)
		if err != nil {
			return "", "", calls, fmt.Errorf("compress round %d: %w", round, err)
		}
		if rewritten != "" {
			current = rewritten
		}
		if target.Contains(CountWords(current)) {
			return current, OutcomeRewritten, calls, nil
		}
	}

	balanced, outcome := settle(target, current, OutcomeRewritten)
	return balanced, outcome, calls, nil
}

// settle применяет детерминированные правки: добивает текст до min и обрезает до max.
func settle(target Target, text string, outcome Outcome) (string, Outcome) {
	if CountWords(text) < target.Min {
		text = Pad(text, target.Min)
		outcome = OutcomePadded
	}
	if CountWords(text) > target.Max {
		text = Truncate(text, target.Max)
		outcome = OutcomeTruncated
	}

	return text, outcome
}

func (e *Engine) rewrite(ctx context.Context, target Target, instruction, text string, maxTokens int) (string, error) {
	completion, err := e.completer.Complete(ctx, ai.Request{
		Model: e.model,
		Messages: []ai.Message{
			{Role: "system", Content: systemInstruction(target)},
			{Role: "user", Content: instruction + "\n\nText:\n" + text},
		},
		Temperature: rewriteTemperature,
		MaxTokens:   maxTokens,
		Purpose:     "balance",
	})
	if err != nil {
		return "", err
	}

	return cleanRewrite(completion.Text, target.Markdown), nil
}

func systemInstruction(target Target) string {
	format := "Use plain text only: no markdown, no bullet markers, no headings."
	if target.Markdown {
		format = "Light markdown is allowed: **bold** and hyphen bullets only, no headings."
	}

	return "You edit one section of a business plan. Return only the section text, without quotes, labels or commentary. " + format
}

func expandInstruction(target Target) string {
	return fmt.Sprintf("Rewrite the text so it is between %d and %d words. Preserve its meaning, facts and figures; add relevant detail instead of filler.",
		target.Min, target.Max)
}

func compressInstruction(target Target) string {
	return fmt.Sprintf("Rewrite the text in at most %d words. Preserve the key facts, figures and structure.", target.Max)
}

func additiveInstruction(target Target) string {
	return fmt.Sprintf("Write 1-3 sentences that continue the text below and fit after it. Do not rewrite or repeat it; return only the new sentences. The combined text should reach at least %d words.",
		target.Min)
}

// cleanRewrite убирает обертки, которые модель иногда добавляет вокруг ответа.
func cleanRewrite(text string, markdown bool) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if newline := strings.IndexByte(text, '\n'); newline >= 0 && !strings.ContainsAny(text[:newline], " \t") {
			text = text[newline+1:]
		}
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	if !markdown {
		text = strings.ReplaceAll(text, "**", "")
	}

	return text
}
