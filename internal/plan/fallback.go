package plan

import (
	"fmt"
	"strings"
	"time"
)

// Fallback строит шаблонный план только из данных анкеты. Используется, когда ответ модели
// не удалось получить или разобрать.
func Fallback(req Request, now time.Time) *Plan {
	p := Normalize(nil, req, now)

	name := orDefault(req.BusinessName, "The company")
	industry := orDefault(req.Industry, "its market")
	location := orDefault(firstNonEmpty(req.OperationLocation, req.Location), "its home market")

	p.ExecutiveSummary.BusinessOverview = joinSentences(
		fmt.Sprintf("%s operates in %s and is based in %s.", name, industry, location),
		req.BusinessDescription,
	)
	fill(&p.ExecutiveSummary.MissionStatement, fmt.Sprintf("%s exists to serve its customers with reliable, fairly priced offerings.", name))
	fill(&p.ExecutiveSummary.VisionStatement, fmt.Sprintf("%s aims to become a trusted name in %s.", name, industry))
	fill(&p.ExecutiveSummary.ProblemStatement, "Customers in the target segment lack a convenient, affordable option that fits their needs.")
	fill(&p.ExecutiveSummary.Solution, fmt.Sprintf("%s addresses this gap with a focused offering and direct customer relationships.", name))
	if needed := strings.TrimSpace(p.FinancialPlan.FundingNeeded); needed != "" {
		p.ExecutiveSummary.FundingRequirements = fmt.Sprintf("%s is seeking %s in funding to execute this plan.", name, needed)
	} else {
		p.ExecutiveSummary.FundingRequirements = fmt.Sprintf("%s will fund its launch from founder capital and early revenue.", name)
	}

	p.CompanyOverview.History = fmt.Sprintf("%s was founded to address unmet demand in %s.", name, industry)

	p.Products.Overview = fmt.Sprintf("%s offers products and services designed for its target customers.", name)
	fill(&p.Products.UniqueSellingPoint, req.KeyFeatures)
	fill(&p.Products.UniqueSellingPoint, fmt.Sprintf("%s combines consistent quality with attentive, personal service.", name))
	fill(&p.Products.PricingStrategy, "Pricing is set competitively against comparable offerings, with room for volume discounts.")

	p.MarketAnalysis.IndustryOverview = fmt.Sprintf("The %s sector continues to grow as customer expectations evolve.", industry)
	fill(&p.MarketAnalysis.TargetMarket, "The primary market consists of customers who value quality and convenience.")
	p.MarketAnalysis.MarketSize = "The addressable market is large enough to support sustainable growth."
	p.MarketAnalysis.CompetitiveAnalysis = joinSentences(
		"Competitors include established providers and new entrants.",
		req.Competitors,
	)
	p.MarketAnalysis.BarriersToEntry = "Barriers to entry include brand recognition, customer trust and initial capital requirements."

	p.MarketingSales.MarketingStrategy = "Marketing combines digital channels, referrals and local partnerships."
	p.MarketingSales.SalesStrategy = "Sales are driven through direct outreach and an online presence."
	p.MarketingSales.Channels = []string{"Website", "Social media", "Referrals"}
	p.MarketingSales.CustomerRetention = "Customer retention relies on consistent service quality and regular follow-up."

	p.Operations.OperationsOverview = fmt.Sprintf("Day-to-day operations are run from %s.", location)
	p.Operations.Facilities = "Facilities are sized for the initial scale of operations."
	p.Operations.SupplyChain = "Suppliers are selected for reliability, cost and lead time."
	p.Operations.Technology = "Standard business software supports operations, sales and accounting."
	if len(p.Operations.Milestones) == 0 && p.Operations.Milestone != "" {
		p.Operations.Milestones = []string{p.Operations.Milestone}
	}

	p.Management.ManagementOverview = fmt.Sprintf("%s is led by its founding team.", name)
	p.Management.FoundingTeam = founderSummary(req.Founders)
	p.Management.OrganizationalStructure = "The organization keeps a flat structure during the early stage."
	p.Management.HiringPlan = "Additional staff will be hired as revenue grows."

	p.FinancialPlan.FinancialOverview = "The financial plan is based on the figures provided by the founders."
	p.FinancialPlan.BreakEvenAnalysis = "Break-even is expected once recurring revenue covers monthly operating expenses."
	if len(p.FinancialPlan.UsageOfFunds) == 0 && !hasFundingFigures(p, req) {
		p.FinancialPlan.UsageOfFunds = []UsageOfFundsRow{{
			Department:        GeneralOperationsDepartment,
			AllocationPercent: 100,
			Amount:            "",
			HowUsed:           "Launch and day-to-day operating costs until revenue covers expenses.",
		}}
	}

	p.RiskAnalysis.Overview = "Key risks include slower than expected customer adoption and cost overruns."
	p.RiskAnalysis.MitigationStrategy = "Risks are mitigated through staged spending, close monitoring and a cash reserve."
	p.RiskAnalysis.Risks = []Risk{
		{Risk: "Slow customer adoption", Impact: "High", Mitigation: "Adjust marketing mix and pricing early."},
		{Risk: "Cost overruns", Impact: "Medium", Mitigation: "Track spending monthly against budget."},
	}

	if len(p.SWOT.Opportunities) == 0 {
		p.SWOT.Opportunities = []string{"Growing demand in the target market"}
	}
	if len(p.SWOT.Threats) == 0 {
		p.SWOT.Threats = []string{"Competition from established providers"}
	}

	return p
}

// hasFundingFigures сообщает, сможет ли NormalizeFinancials построить таблицу использования средств.
func hasFundingFigures(p *Plan, req Request) bool {
	if resolveAmount(p.FinancialPlan.FundingNeeded, req.FundingNeeded) > 0 {
		return true
	}

	return len(breakdownFromForm(req.FundingUseBreakdown)) > 0 || len(breakdownFromForm(req.InvestmentUtilization)) > 0
}

func founderSummary(founders []FounderRow) string {
	parts := make([]string, 0, len(founders))
	for _, founder := range founders {
		name := strings.TrimSpace(founder.Name)
		if name == "" {
			continue
		}
		if role := strings.TrimSpace(founder.Role); role != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", name, role))
			continue
		}
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return "The founding team brings hands-on experience in the industry."
	}

	return "The founding team includes " + strings.Join(parts, ", ") + "."
}

func joinSentences(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return strings.Join(out, " ")
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}

	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}

	return ""
}
