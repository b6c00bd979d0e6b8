package plan

import (
	"fmt"
	"strings"
)

// EnforceInclusions дописывает в поля плана обязательные предложения из анкеты.
// Предложение добавляется, только если его еще нет в поле, поэтому повторный вызов ничего не меняет.
func EnforceInclusions(p *Plan, req Request) {
	if location := sentenceValue(firstNonEmpty(req.OperationLocation, req.Location)); location != "" {
		appendSentence(&p.Operations.OperationsOverview, fmt.Sprintf("Operations are based in %s.", location))
	}

	if role := sentenceValue(req.FounderRole); role != "" {
		appendSentence(&p.Management.FoundingTeam, fmt.Sprintf("The founder serves as %s.", role))
	}

	if size := sentenceValue(req.TeamSize); size != "" {
		appendSentence(&p.Management.ManagementOverview, fmt.Sprintf("The current team size is %s.", size))
	}

	if received := sentenceValue(normalizeAmount(req.FundingReceived)); received != "" {
		sentence := fmt.Sprintf("The business has already secured %s in funding.", received)
		appendSentence(&p.ExecutiveSummary.FundingRequirements, sentence)
		appendSentence(&p.FinancialPlan.FinancialOverview, sentence)
	}

	if summary := utilizationSummary(req.InvestmentUtilization); summary != "" {
		appendSentence(&p.FinancialPlan.FinancialOverview, fmt.Sprintf("Planned investment utilization: %s.", summary))
	}

	if notes := sentenceValue(req.Notes); notes != "" {
		appendSentence(&p.Appendices.Resources, fmt.Sprintf("Additional notes: %s.", notes))
	}

	if usp := sentenceValue(firstNonEmpty(req.UniqueSellingPoint, req.KeyFeatures)); usp != "" {
		appendSentence(&p.Products.UniqueSellingPoint, fmt.Sprintf("Key differentiator: %s.", usp))
	}
}

func appendSentence(field *string, sentence string) {
	if strings.Contains(*field, sentence) {
		return
	}

	current := strings.TrimSpace(*field)
	if current == "" {
		*field = sentence
		return
	}
	*field = current + " " + sentence
}

func utilizationSummary(rows []AmountRow) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		item := strings.TrimSpace(row.Item)
		if item == "" {
			continue
		}
		if amount := normalizeAmount(row.Amount); amount != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", item, amount))
			continue
		}
		parts = append(parts, item)
	}

	return strings.Join(parts, ", ")
}

func sentenceValue(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), ". ")
}
