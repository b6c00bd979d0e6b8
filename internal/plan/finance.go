package plan

import (
	"fmt"
	"math"
	"strings"
)

// ContingencyItem is the breakdown row that absorbs any funding shortfall.
const ContingencyItem = "Working capital and contingency"

// GeneralOperationsDepartment is the single usage-of-funds row of a plan built without funding figures.
const GeneralOperationsDepartment = "General operations"

const operatingExpensesCategory = "Total operating expenses"

type breakdownRow struct {
	item   string
	amount float64
}

// NormalizeFinancials согласует финансовые таблицы плана с анкетой: сумма разбивки финансирования
// равна запрошенной сумме, операционные расходы и движение денежных средств пересчитаны,
// текст об использовании средств построен заново из разбивки.
func NormalizeFinancials(p *Plan, req Request) {
	fp := &p.FinancialPlan

	needed := resolveAmount(fp.FundingNeeded, req.FundingNeeded)
	if needed > 0 {
		fp.FundingNeeded = FormatAmount(needed)
	}

	rows := breakdownFromForm(req.FundingUseBreakdown)
	if len(rows) == 0 {
		rows = breakdownFromForm(req.InvestmentUtilization)
	}
	if len(rows) == 0 && needed > 0 {
		rows = []breakdownRow{{item: ContingencyItem, amount: needed}}
	}
	if needed > 0 {
		rows = reconcileBreakdown(rows, needed)
	}
	if len(rows) > 0 {
		fp.FundingBreakdown = make([]FundingBreakdownRow, 0, len(rows))
		for _, row := range rows {
			fp.FundingBreakdown = append(fp.FundingBreakdown, FundingBreakdownRow{
				Item:   row.item,
				Amount: FormatAmount(row.amount),
			})
		}
	}

	monthly := resolveAmount(fp.MonthlyExpenses, req.MonthlyExpenses)
	if monthly > 0 {
		fp.MonthlyExpenses = FormatAmount(monthly)
		if len(fp.OperatingExpenses) == 0 {
			fp.OperatingExpenses = append(fp.OperatingExpenses, OperatingExpenseRow{Category: operatingExpensesCategory})
		}
		for i := range fp.OperatingExpenses {
			fp.OperatingExpenses[i].Monthly = FormatAmount(monthly)
			fp.OperatingExpenses[i].Annual = FormatAmount(monthly * 12)
		}
	}

	initial := resolveAmount(fp.InitialInvestment, req.InitialInvestment)
	if initial > 0 {
		fp.InitialInvestment = FormatAmount(initial)
		if len(fp.CashFlow) > 0 {
			fp.CashFlow[0].BeginningCash = FormatAmount(initial)
		}
	}
	recomputeCashFlow(fp.CashFlow)

	if len(fp.UsageOfFunds) == 0 {
		fp.UsageOfFunds = usageFromBreakdown(rows)
	} else if needed > 0 {
		for i := range fp.UsageOfFunds {
			fp.UsageOfFunds[i].Amount = FormatAmount(fp.UsageOfFunds[i].AllocationPercent * needed / 100)
		}
	}

	if len(rows) > 0 {
		fp.UseOfFundsAndRunway = useOfFundsNarrative(rows, needed, monthly)
	}
}

func resolveAmount(generated, form string) float64 {
	if value, ok := ParseAmount(generated); ok && value > 0 {
		return value
	}
	if value, ok := ParseAmount(form); ok && value > 0 {
		return value
	}

	return 0
}

func breakdownFromForm(entries []AmountRow) []breakdownRow {
	rows := make([]breakdownRow, 0, len(entries))
	for _, entry := range entries {
		amount, ok := ParseAmount(entry.Amount)
		if !ok || amount <= 0 {
			continue
		}
		rows = append(rows, breakdownRow{
			item:   orDefault(entry.Item, "Other"),
			amount: roundCents(amount),
		})
	}

	return rows
}

// reconcileBreakdown приводит сумму строк к needed: недостача уходит в строку резерва,
// излишек снимается с последних строк (обнуленная строка удаляется).
func reconcileBreakdown(rows []breakdownRow, needed float64) []breakdownRow {
	var total float64
	for _, row := range rows {
		total += row.amount
	}

	diff := roundCents(needed - total)
	switch {
	case diff > 0:
		for i := range rows {
			if strings.EqualFold(rows[i].item, ContingencyItem) {
				rows[i].amount = roundCents(rows[i].amount + diff)
				return rows
			}
		}
		rows = append(rows, breakdownRow{item: ContingencyItem, amount: diff})
	case diff < 0:
		excess := -diff
		for excess > 0 && len(rows) > 0 {
			last := len(rows) - 1
			if rows[last].amount > excess {
				rows[last].amount = roundCents(rows[last].amount - excess)
				break
			}
			excess = roundCents(excess - rows[last].amount)
			rows = rows[:last]
		}
	}

	return rows
}

// recomputeCashFlow пересчитывает конечный остаток по строкам, если все суммы разбираются.
func recomputeCashFlow(rows []CashFlowRow) {
	if len(rows) == 0 {
		return
	}

	beginning, ok := ParseAmount(rows[0].BeginningCash)
	if !ok {
		return
	}
	for _, row := range rows {
		if _, ok := ParseAmount(row.CashIn); !ok {
			return
		}
		if _, ok := ParseAmount(row.CashOut); !ok {
			return
		}
	}

	for i := range rows {
		cashIn, _ := ParseAmount(rows[i].CashIn)
		cashOut, _ := ParseAmount(rows[i].CashOut)
		ending := beginning + cashIn - cashOut

		rows[i].BeginningCash = FormatAmount(beginning)
		rows[i].CashIn = FormatAmount(cashIn)
		rows[i].CashOut = FormatAmount(cashOut)
		rows[i].EndingCash = FormatAmount(ending)
		beginning = ending
	}
}

// usageFromBreakdown строит таблицу использования средств из разбивки. Проценты округляются
// до десятых, последняя строка забирает остаток, чтобы сумма была ровно 100.
func usageFromBreakdown(rows []breakdownRow) []UsageOfFundsRow {
	var total float64
	for _, row := range rows {
		total += row.amount
	}
	if total <= 0 {
		return []UsageOfFundsRow{}
	}

	usage := make([]UsageOfFundsRow, 0, len(rows))
	var allocated float64
	for i, row := range rows {
		percent := roundTenth(row.amount / total * 100)
		if i == len(rows)-1 {
			percent = roundTenth(100 - allocated)
		}
		allocated += percent

		usage = append(usage, UsageOfFundsRow{
			Department:        row.item,
			AllocationPercent: percent,
			Amount:            FormatAmount(row.amount),
			HowUsed:           "Allocated to " + row.item + ".",
		})
	}

	return usage
}

func useOfFundsNarrative(rows []breakdownRow, needed, monthly float64) string {
	var total float64
	for _, row := range rows {
		total += row.amount
	}
	if needed <= 0 {
		needed = total
	}

	header := fmt.Sprintf("**Use of funds:** the requested %s will be allocated as follows.", FormatAmount(needed))
	if monthly > 0 {
		months := int(math.Floor(needed / monthly))
		header = fmt.Sprintf("**Use of funds:** the requested %s will be allocated as follows, covering about %d months of runway at %s in monthly expenses.",
			FormatAmount(needed), months, FormatAmount(monthly))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, header)
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("- %s: %s", row.item, FormatAmount(row.amount)))
	}

	return strings.Join(lines, "\n")
}

func roundTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
