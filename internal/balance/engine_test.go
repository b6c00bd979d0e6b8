package balance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ai-business-plan/backend/internal/ai"
	"example.com/ai-business-plan/backend/internal/plan"
)

type scriptedCompleter struct {
	requests []ai.Request
	respond  func(call int, req ai.Request) (string, error)
}

func (c *scriptedCompleter) Complete(_ context.Context, req ai.Request) (ai.Completion, error) {
	c.requests = append(c.requests, req)
	text, err := c.respond(len(c.requests), req)
	if err != nil {
		return ai.Completion{}, err
	}
	return ai.Completion{Text: text}, nil
}

func noopCompleter() *scriptedCompleter {
	return &scriptedCompleter{respond: func(int, ai.Request) (string, error) { return "", nil }}
}

func mustTargets(t *testing.T, data string) Targets {
	t.Helper()
	targets, err := ParseTargets([]byte(data))
	require.NoError(t, err)
	return targets
}

func emptyPlan() *plan.Plan {
	return plan.Normalize(nil, plan.Request{}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestBalanceConvergesWithNoopRewrites(t *testing.T) {
	targets, err := DefaultTargets()
	require.NoError(t, err)

	for _, size := range []int{1, 7, 19, 59, 130, 171, 400} {
		p := emptyPlan()
		for _, target := range targets.All() {
			field, _ := plan.LookupTextField(target.Path)
			field.Set(p, words(size))
		}

		NewEngine(noopCompleter(), targets).Balance(context.Background(), p)

		for _, target := range targets.All() {
			field, _ := plan.LookupTextField(target.Path)
			count := CountWords(field.Get(p))
			assert.True(t, target.Contains(count) || count == target.Max,
				"%s: %d words outside [%d, %d] for input size %d", target.Path, count, target.Min, target.Max, size)
		}
	}
}

func TestBalanceSkipsEmptyAndInRangeFields(t *testing.T) {
	targets := mustTargets(t, `targets:
  - {path: executiveSummary.solution, min: 3, max: 10}
  - {path: executiveSummary.problemStatement, min: 3, max: 10}
`)
	p := emptyPlan()
	p.ExecutiveSummary.Solution = words(5)
	completer := noopCompleter()

	report := NewEngine(completer, targets).Balance(context.Background(), p)

	assert.Empty(t, completer.requests)
	require.Len(t, report.Fields, 2)
	assert.Equal(t, OutcomeInRange, report.Fields[0].Outcome)
	assert.Equal(t, OutcomeSkipped, report.Fields[1].Outcome)
	assert.Equal(t, "", p.ExecutiveSummary.ProblemStatement)
}

func TestBalanceExpandStopsOnceInRange(t *testing.T) {
	targets := mustTargets(t, "targets:\n  - {path: executiveSummary.solution, min: 20, max: 30}\n")
	p := emptyPlan()
	p.ExecutiveSummary.Solution = words(5)
	completer := &scriptedCompleter{respond: func(call int, req ai.Request) (string, error) {
		if call == 1 {
			return words(12), nil
		}
		return words(25), nil
	}}

	report := NewEngine(completer, targets, WithModel("heavy")).Balance(context.Background(), p)

	require.Len(t, completer.requests, 2)
	assert.Equal(t, "heavy", completer.requests[0].Model)
	assert.Contains(t, completer.requests[0].Messages[1].Content, "between 20 and 30 words")
	assert.Contains(t, completer.requests[0].Messages[0].Content, "plain text only")
	assert.Equal(t, 25, CountWords(p.ExecutiveSummary.Solution))
	assert.Equal(t, OutcomeRewritten, report.Fields[0].Outcome)
	assert.Equal(t, 2, report.Calls())
}

func TestBalanceExpandUsesAdditiveRequest(t *testing.T) {
	targets := mustTargets(t, "targets:\n  - {path: executiveSummary.solution, min: 10, max: 30}\n")
	p := emptyPlan()
	p.ExecutiveSummary.Solution = "We brew coffee."
	completer := &scriptedCompleter{respond: func(call int, req ai.Request) (string, error) {
		if strings.Contains(req.Messages[1].Content, "Do not rewrite") {
			return "We also roast our own beans every morning for the neighborhood.", nil
		}
		return "We brew coffee.", nil
	}}

	report := NewEngine(completer, targets).Balance(context.Background(), p)

	assert.Len(t, completer.requests, 4)
	assert.Equal(t, "We brew coffee. We also roast our own beans every morning for the neighborhood.", p.ExecutiveSummary.Solution)
	assert.Equal(t, OutcomeRewritten, report.Fields[0].Outcome)
}

func TestBalanceExpandTruncatesOvershoot(t *testing.T) {
	targets := mustTargets(t, "targets:\n  - {path: executiveSummary.solution, min: 10, max: 12}\n")
	p := emptyPlan()
	p.ExecutiveSummary.Solution = words(3)
	completer := &scriptedCompleter{respond: func(call int, req ai.Request) (string, error) {
		if strings.Contains(req.Messages[1].Content, "Do not rewrite") {
			return words(40), nil
		}
		return words(3), nil
	}}

	report := NewEngine(completer, targets).Balance(context.Background(), p)

	assert.Equal(t, 12, CountWords(p.ExecutiveSummary.Solution))
	assert.True(t, strings.HasSuffix(p.ExecutiveSummary.Solution, "…"))
	assert.Equal(t, OutcomeTruncated, report.Fields[0].Outcome)
}

func TestBalanceCompressFallsBackToTruncation(t *testing.T) {
	targets := mustTargets(t, "targets:\n  - {path: marketAnalysis.barriersToEntry, min: 5, max: 20, markdown: true}\n")
	p := emptyPlan()
	p.MarketAnalysis.BarriersToEntry = words(80)
	completer := &scriptedCompleter{respond: func(int, ai.Request) (string, error) {
		return "```\n" + words(50) + "\n```", nil
	}}

	report := NewEngine(completer, targets).Balance(context.Background(), p)

	assert.Len(t, completer.requests, 3)
	assert.Contains(t, completer.requests[0].Messages[1].Content, "at most 20 words")
	assert.Contains(t, completer.requests[0].Messages[0].Content, "Light markdown")
	assert.Equal(t, "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12 word13 word14 word15 word16 word17 word18 word19 word20…",
		p.MarketAnalysis.BarriersToEntry)
	assert.Equal(t, OutcomeTruncated, report.Fields[0].Outcome)
}

func TestBalanceKeepsFieldOnError(t *testing.T) {
	targets := mustTargets(t, `targets:
  - {path: executiveSummary.solution, min: 10, max: 20}
  - {path: executiveSummary.problemStatement, min: 10, max: 20}
`)
	p := emptyPlan()
	p.ExecutiveSummary.Solution = words(2)
	p.ExecutiveSummary.ProblemStatement = words(40)
	boom := errors.New("upstream unavailable")
	completer := &scriptedCompleter{respond: func(call int, req ai.Request) (string, error) {
		if strings.Contains(req.Messages[1].Content, "between") {
			return "", boom
		}
		return words(15), nil
	}}

	report := NewEngine(completer, targets).Balance(context.Background(), p)

	require.Len(t, report.Fields, 2)
	assert.Equal(t, OutcomeFailed, report.Fields[0].Outcome)
	assert.ErrorIs(t, report.Fields[0].Err, boom)
	assert.Equal(t, words(2), p.ExecutiveSummary.Solution)
	assert.Equal(t, OutcomeRewritten, report.Fields[1].Outcome)
	assert.Equal(t, 15, CountWords(p.ExecutiveSummary.ProblemStatement))
}

func TestBalanceDeterministicFieldNeverCallsModel(t *testing.T) {
	targets := mustTargets(t, "targets:\n  - {path: financialPlan.useOfFundsAndRunway, min: 30, max: 160, markdown: true, deterministic: true}\n")
	p := emptyPlan()
	p.FinancialPlan.UseOfFundsAndRunway = "**Use of funds:** the requested 10,000 will be allocated as follows.\n- Equipment: 10,000"
	completer := noopCompleter()

	report := NewEngine(completer, targets).Balance(context.Background(), p)

	assert.Empty(t, completer.requests)
	assert.Equal(t, OutcomePadded, report.Fields[0].Outcome)
	assert.True(t, strings.HasPrefix(p.FinancialPlan.UseOfFundsAndRunway, "**Use of funds:**"))
	assert.GreaterOrEqual(t, CountWords(p.FinancialPlan.UseOfFundsAndRunway), 30)
}

func TestCleanRewrite(t *testing.T) {
	assert.Equal(t, "plain text", cleanRewrite("```text\n**plain** text\n```", false))
	assert.Equal(t, "**kept**", cleanRewrite(`"**kept**"`, true))
}
