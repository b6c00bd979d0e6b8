package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakdownTotal(t *testing.T, rows []FundingBreakdownRow) float64 {
	t.Helper()

	var total float64
	for _, row := range rows {
		amount, ok := ParseAmount(row.Amount)
		require.True(t, ok, "amount %q", row.Amount)
		total += amount
	}
	return total
}

func TestNormalizeFinancialsAppendsContingencyForShortfall(t *testing.T) {
	req := Request{
		FundingNeeded: "$100,000",
		FundingUseBreakdown: []AmountRow{
			{Item: "Equipment", Amount: "$50,000"},
			{Item: "Marketing", Amount: "30,000"},
		},
	}
	p := Normalize(nil, req, testNow)

	NormalizeFinancials(p, req)

	assert.Equal(t, []FundingBreakdownRow{
		{Item: "Equipment", Amount: "50,000"},
		{Item: "Marketing", Amount: "30,000"},
		{Item: ContingencyItem, Amount: "20,000"},
	}, p.FinancialPlan.FundingBreakdown)
	assert.Equal(t, 100000.0, breakdownTotal(t, p.FinancialPlan.FundingBreakdown))
}

func TestNormalizeFinancialsExtendsExistingContingency(t *testing.T) {
	req := Request{
		FundingNeeded: "100000",
		FundingUseBreakdown: []AmountRow{
			{Item: "Equipment", Amount: "60,000"},
			{Item: "working capital and contingency", Amount: "10,000"},
		},
	}
	p := Normalize(nil, req, testNow)

	NormalizeFinancials(p, req)

	require.Len(t, p.FinancialPlan.FundingBreakdown, 2)
	assert.Equal(t, "40,000", p.FinancialPlan.FundingBreakdown[1].Amount)
}

func TestNormalizeFinancialsReducesLastRowForSurplus(t *testing.T) {
	req := Request{
		FundingNeeded: "100,000",
		FundingUseBreakdown: []AmountRow{
			{Item: "Equipment", Amount: "70,000"},
			{Item: "Marketing", Amount: "50,000"},
		},
	}
	p := Normalize(nil, req, testNow)

	NormalizeFinancials(p, req)

	assert.Equal(t, []FundingBreakdownRow{
		{Item: "Equipment", Amount: "70,000"},
		{Item: "Marketing", Amount: "30,000"},
	}, p.FinancialPlan.FundingBreakdown)
}

func TestNormalizeFinancialsRemovesZeroedRow(t *testing.T) {
	req := Request{
		FundingNeeded: "100,000",
		FundingUseBreakdown: []AmountRow{
			{Item: "Equipment", Amount: "100,000"},
			{Item: "Marketing", Amount: "20,000"},
		},
	}
	p := Normalize(nil, req, testNow)

	NormalizeFinancials(p, req)

	assert.Equal(t, []FundingBreakdownRow{{Item: "Equipment", Amount: "100,000"}}, p.FinancialPlan.FundingBreakdown)
}

func TestNormalizeFinancialsFallsBackToUtilizationAndContingency(t *testing.T) {
	req := Request{
		FundingNeeded:         "50,000",
		InvestmentUtilization: []AmountRow{{Item: "Inventory", Amount: "50,000"}},
	}
	p := Normalize(nil, req, testNow)
	NormalizeFinancials(p, req)
	assert.Equal(t, []FundingBreakdownRow{{Item: "Inventory", Amount: "50,000"}}, p.FinancialPlan.FundingBreakdown)

	req = Request{FundingNeeded: "50,000"}
	p = Normalize(nil, req, testNow)
	NormalizeFinancials(p, req)
	assert.Equal(t, []FundingBreakdownRow{{Item: ContingencyItem, Amount: "50,000"}}, p.FinancialPlan.FundingBreakdown)
}

func TestNormalizeFinancialsPrefersGeneratedFundingNeeded(t *testing.T) {
	req := Request{FundingNeeded: "80,000"}
	doc := map[string]any{"financialPlan": map[string]any{"fundingNeeded": "$120,000"}}
	p := Normalize(doc, req, testNow)

	NormalizeFinancials(p, req)

	assert.Equal(t, "120,000", p.FinancialPlan.FundingNeeded)
	assert.Equal(t, 120000.0, breakdownTotal(t, p.FinancialPlan.FundingBreakdown))
}

func TestNormalizeFinancialsReconcilesFormBreakdownAgainstGeneratedFigure(t *testing.T) {
	breakdown := []AmountRow{
		{Item: "Equipment", Amount: "60,000"},
		{Item: "Marketing", Amount: "40,000"},
	}

	cases := []struct {
		name      string
		generated string
		want      []FundingBreakdownRow
	}{
		{
			name:      "generated above form",
			generated: "120,000",
			want: []FundingBreakdownRow{
				{Item: "Equipment", Amount: "60,000"},
				{Item: "Marketing", Amount: "40,000"},
				{Item: ContingencyItem, Amount: "20,000"},
			},
		},
		{
			name:      "generated below form",
			generated: "90,000",
			want: []FundingBreakdownRow{
				{Item: "Equipment", Amount: "60,000"},
				{Item: "Marketing", Amount: "30,000"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := Request{FundingNeeded: "100,000", FundingUseBreakdown: breakdown}
			doc := map[string]any{"financialPlan": map[string]any{"fundingNeeded": tc.generated}}
			p := Normalize(doc, req, testNow)

			NormalizeFinancials(p, req)

			assert.Equal(t, tc.generated, p.FinancialPlan.FundingNeeded)
			assert.Equal(t, tc.want, p.FinancialPlan.FundingBreakdown)
			amount, ok := ParseAmount(tc.generated)
			require.True(t, ok)
			assert.Equal(t, amount, breakdownTotal(t, p.FinancialPlan.FundingBreakdown))
		})
	}
}

func TestNormalizeFinancialsSynthesizesUsageOfFunds(t *testing.T) {
	req := Request{
		FundingNeeded: "90,000",
		FundingUseBreakdown: []AmountRow{
			{Item: "Equipment", Amount: "30,000"},
			{Item: "Marketing", Amount: "30,000"},
			{Item: "Hiring", Amount: "30,000"},
		},
	}
	p := Normalize(nil, req, testNow)

	NormalizeFinancials(p, req)

	usage := p.FinancialPlan.UsageOfFunds
	require.Len(t, usage, 3)
	assert.Equal(t, 33.3, usage[0].AllocationPercent)
	assert.Equal(t, 33.3, usage[1].AllocationPercent)
	assert.Equal(t, 33.4, usage[2].AllocationPercent)
	assert.Equal(t, "30,000", usage[2].Amount)
	require.NoError(t, ValidateUsageOfFunds(usage))
}

func TestNormalizeFinancialsKeepsGeneratedUsagePercentages(t *testing.T) {
	req := Request{FundingNeeded: "200,000"}
	doc := map[string]any{"financialPlan": map[string]any{
		"usageOfFunds": []any{
			map[string]any{"department": "Ops", "allocationPercent": 40.0, "amount": "1"},
			map[string]any{"department": "Sales", "allocationPercent": 55.0, "amount": "2"},
		},
	}}
	p := Normalize(doc, req, testNow)

	NormalizeFinancials(p, req)

	assert.Equal(t, "80,000", p.FinancialPlan.UsageOfFunds[0].Amount)
	assert.Equal(t, "110,000", p.FinancialPlan.UsageOfFunds[1].Amount)
	assert.ErrorIs(t, ValidateUsageOfFunds(p.FinancialPlan.UsageOfFunds), ErrUsageOfFunds)
}

func TestNormalizeFinancialsOverwritesOperatingExpenses(t *testing.T) {
	req := Request{MonthlyExpenses: "$8,000"}
	doc := map[string]any{"financialPlan": map[string]any{
		"operatingExpenses": []any{
			map[string]any{"category": "Rent", "monthly": "3,000", "annual": "36,000"},
			map[string]any{"category": "Payroll", "monthly": "5,000"},
		},
	}}
	p := Normalize(doc, req, testNow)

	NormalizeFinancials(p, req)

	assert.Equal(t, []OperatingExpenseRow{
		{Category: "Rent", Monthly: "8,000", Annual: "96,000"},
		{Category: "Payroll", Monthly: "8,000", Annual: "96,000"},
	}, p.FinancialPlan.OperatingExpenses)
}

func TestNormalizeFinancialsSeedsCashFlow(t *testing.T) {
	req := Request{InitialInvestment: "$25,000"}
	doc := map[string]any{"financialPlan": map[string]any{
		"cashFlow": []any{
			map[string]any{"period": "Q1", "beginningCash": "0", "cashIn": "10,000", "cashOut": "4,000", "endingCash": "6,000"},
			map[string]any{"period": "Q2", "cashIn": "12,000", "cashOut": "5,000"},
		},
	}}
	p := Normalize(doc, req, testNow)

	NormalizeFinancials(p, req)

	assert.Equal(t, []CashFlowRow{
		{Period: "Q1", BeginningCash: "25,000", CashIn: "10,000", CashOut: "4,000", EndingCash: "31,000"},
		{Period: "Q2", BeginningCash: "31,000", CashIn: "12,000", CashOut: "5,000", EndingCash: "38,000"},
	}, p.FinancialPlan.CashFlow)
}

func TestNormalizeFinancialsRegeneratesRunwayNarrative(t *testing.T) {
	req := Request{
		FundingNeeded:       "96,000",
		MonthlyExpenses:     "8,000",
		FundingUseBreakdown: []AmountRow{{Item: "Equipment", Amount: "96,000"}},
	}
	doc := map[string]any{"financialPlan": map[string]any{"useOfFundsAndRunway": "Generated text that disagrees."}}
	p := Normalize(doc, req, testNow)

	NormalizeFinancials(p, req)

	want := "**Use of funds:** the requested 96,000 will be allocated as follows, covering about 12 months of runway at 8,000 in monthly expenses.\n- Equipment: 96,000"
	assert.Equal(t, want, p.FinancialPlan.UseOfFundsAndRunway)
}
