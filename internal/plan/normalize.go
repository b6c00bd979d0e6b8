package plan

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	PlaceholderLogoURL = "https://placehold.co/256x256/png?text=Logo"
	preparedDateLayout = "January 2, 2006"

	defaultResources = "Supporting market research, financial assumptions and supplier quotes are available on request."
)

var defaultSupportingDocuments = []string{
	"Founder resumes",
	"Market research summary",
	"Detailed financial projections",
}

// Normalize приводит восстановленный документ к каноническому плану. doc может быть nil.
// Отсутствующие поля получают типизированные значения по умолчанию, затем пустые поля
// дополняются данными анкеты.
func Normalize(doc map[string]any, req Request, now time.Time) *Plan {
	p := &Plan{}

	cover := section(doc, "cover")
	p.Cover = Cover{
		Title:        asString(cover["title"]),
		BusinessName: asString(cover["businessName"]),
		LogoURL:      asString(cover["logoUrl"]),
		PreparedDate: asString(cover["preparedDate"]),
		Tagline:      asString(cover["tagline"]),
	}

	summary := section(doc, "executiveSummary")
	p.ExecutiveSummary = ExecutiveSummary{
		BusinessOverview:    asString(summary["businessOverview"]),
		MissionStatement:    asString(summary["missionStatement"]),
		VisionStatement:     asString(summary["visionStatement"]),
		ProblemStatement:    asString(summary["problemStatement"]),
		Solution:            asString(summary["solution"]),
		FundingRequirements: asString(summary["fundingRequirements"]),
		KeyAchievements:     asStringList(summary["keyAchievements"]),
	}

	company := section(doc, "companyOverview")
	p.CompanyOverview = CompanyOverview{
		BusinessName:   asString(company["businessName"]),
		LegalStructure: asString(company["legalStructure"]),
		Location:       asString(company["location"]),
		FoundingDate:   asString(company["foundingDate"]),
		History:        asString(company["history"]),
		Ownership:      []Ownership{},
	}
	for _, row := range asRows(company["ownership"]) {
		p.CompanyOverview.Ownership = append(p.CompanyOverview.Ownership, Ownership{
			Owner:      asString(row["owner"]),
			Percentage: asString(row["percentage"]),
		})
	}

	products := section(doc, "products")
	p.Products = Products{
		Overview:           asString(products["overview"]),
		UniqueSellingPoint: asString(products["uniqueSellingPoint"]),
		PricingStrategy:    asString(products["pricingStrategy"]),
	}
	for i, slot := range p.Products.Slots() {
		*slot = renderProduct(products[productKey(i)])
	}

	market := section(doc, "marketAnalysis")
	p.MarketAnalysis = MarketAnalysis{
		IndustryOverview:    asString(market["industryOverview"]),
		TargetMarket:        asString(market["targetMarket"]),
		MarketSize:          asString(market["marketSize"]),
		CompetitiveAnalysis: asString(market["competitiveAnalysis"]),
		BarriersToEntry:     asString(market["barriersToEntry"]),
		Trends:              asStringList(market["trends"]),
	}

	marketing := section(doc, "marketingSales")
	p.MarketingSales = MarketingSales{
		MarketingStrategy: asString(marketing["marketingStrategy"]),
		SalesStrategy:     asString(marketing["salesStrategy"]),
		Channels:          asStringList(marketing["channels"]),
		CustomerRetention: asString(marketing["customerRetention"]),
	}

	operations := section(doc, "operations")
	p.Operations = Operations{
		OperationsOverview: asString(operations["operationsOverview"]),
		Facilities:         asString(operations["facilities"]),
		SupplyChain:        asString(operations["supplyChain"]),
		Technology:         asString(operations["technology"]),
		Milestone:          asString(operations["milestone"]),
		Milestones:         asStringList(operations["milestones"]),
	}

	management := section(doc, "management")
	p.Management = Management{
		ManagementOverview:      asString(management["managementOverview"]),
		FoundingTeam:            asString(management["foundingTeam"]),
		OrganizationalStructure: asString(management["organizationalStructure"]),
		HiringPlan:              asString(management["hiringPlan"]),
		Team:                    []TeamMember{},
	}
	for _, row := range asRows(management["team"]) {
		p.Management.Team = append(p.Management.Team, TeamMember{
			Name:       asString(row["name"]),
			Role:       asString(row["role"]),
			Background: asString(row["background"]),
		})
	}

	p.FinancialPlan = normalizeFinancialPlan(section(doc, "financialPlan"))

	risk := section(doc, "riskAnalysis")
	p.RiskAnalysis = RiskAnalysis{
		Overview:           asString(risk["overview"]),
		MitigationStrategy: asString(risk["mitigationStrategy"]),
		Risks:              []Risk{},
	}
	for _, row := range asRows(risk["risks"]) {
		p.RiskAnalysis.Risks = append(p.RiskAnalysis.Risks, Risk{
			Risk:       asString(row["risk"]),
			Impact:     asString(row["impact"]),
			Mitigation: asString(row["mitigation"]),
		})
	}

	swot := section(doc, "swot")
	p.SWOT = SWOT{
		Strengths:     asStringList(swot["strengths"]),
		Weaknesses:    asStringList(swot["weaknesses"]),
		Opportunities: asStringList(swot["opportunities"]),
		Threats:       asStringList(swot["threats"]),
	}

	appendices := section(doc, "appendices")
	p.Appendices = Appendices{
		Resources:           asString(appendices["resources"]),
		Notes:               asString(appendices["notes"]),
		SupportingDocuments: asStringList(appendices["supportingDocuments"]),
		Glossary:            asString(appendices["glossary"]),
	}

	backfill(p, req, now)
	return p
}

func normalizeFinancialPlan(financial map[string]any) FinancialPlan {
	fp := FinancialPlan{
		FinancialOverview:   asString(financial["financialOverview"]),
		FundingNeeded:       asString(financial["fundingNeeded"]),
		FundingReceived:     asString(financial["fundingReceived"]),
		InitialInvestment:   asString(financial["initialInvestment"]),
		MonthlyExpenses:     asString(financial["monthlyExpenses"]),
		UseOfFundsAndRunway: asString(financial["useOfFundsAndRunway"]),
		BreakEvenAnalysis:   asString(financial["breakEvenAnalysis"]),
		FundingBreakdown:    []FundingBreakdownRow{},
		UsageOfFunds:        []UsageOfFundsRow{},
		RevenueForecast:     []RevenueForecastRow{},
		OperatingExpenses:   []OperatingExpenseRow{},
		CashFlow:            []CashFlowRow{},
	}

	for _, row := range asRows(financial["fundingBreakdown"]) {
		fp.FundingBreakdown = append(fp.FundingBreakdown, FundingBreakdownRow{
			Item:   asString(row["item"]),
			Amount: asString(row["amount"]),
		})
	}
	for _, row := range asRows(financial["usageOfFunds"]) {
		fp.UsageOfFunds = append(fp.UsageOfFunds, UsageOfFundsRow{
			Department:        asString(row["department"]),
			AllocationPercent: asNumber(row["allocationPercent"]),
			Amount:            asString(row["amount"]),
			HowUsed:           asString(row["howUsed"]),
		})
	}
	for _, row := range asRows(financial["revenueForecast"]) {
		fp.RevenueForecast = append(fp.RevenueForecast, RevenueForecastRow{
			Year:      asString(row["year"]),
			Revenue:   asString(row["revenue"]),
			Expenses:  asString(row["expenses"]),
			NetIncome: asString(row["netIncome"]),
		})
	}
	for _, row := range asRows(financial["operatingExpenses"]) {
		fp.OperatingExpenses = append(fp.OperatingExpenses, OperatingExpenseRow{
			Category: asString(row["category"]),
			Monthly:  asString(row["monthly"]),
			Annual:   asString(row["annual"]),
		})
	}
	for _, row := range asRows(financial["cashFlow"]) {
		fp.CashFlow = append(fp.CashFlow, CashFlowRow{
			Period:        asString(row["period"]),
			BeginningCash: asString(row["beginningCash"]),
			CashIn:        asString(row["cashIn"]),
			CashOut:       asString(row["cashOut"]),
			EndingCash:    asString(row["endingCash"]),
		})
	}

	return fp
}

// backfill заполняет пустые поля плана данными анкеты.
func backfill(p *Plan, req Request, now time.Time) {
	businessName := strings.TrimSpace(req.BusinessName)

	fill(&p.Cover.BusinessName, businessName)
	fill(&p.Cover.Title, strings.TrimSpace(req.PlanName))
	if businessName != "" {
		fill(&p.Cover.Title, businessName+" Business Plan")
	}
	fill(&p.Cover.Tagline, req.Tagline)
	fill(&p.Cover.PreparedDate, now.Format(preparedDateLayout))
	if !isAbsoluteURL(p.Cover.LogoURL) {
		p.Cover.LogoURL = PlaceholderLogoURL
		if isAbsoluteURL(strings.TrimSpace(req.LogoURL)) {
			p.Cover.LogoURL = strings.TrimSpace(req.LogoURL)
		}
	}

	fill(&p.ExecutiveSummary.MissionStatement, req.Mission)
	fill(&p.ExecutiveSummary.VisionStatement, req.Vision)
	fill(&p.ExecutiveSummary.ProblemStatement, req.ProblemStatement)
	fill(&p.ExecutiveSummary.Solution, req.Solution)
	fillList(&p.ExecutiveSummary.KeyAchievements, req.Achievements)

	fill(&p.CompanyOverview.BusinessName, businessName)
	fill(&p.CompanyOverview.LegalStructure, req.LegalStructure)
	fill(&p.CompanyOverview.Location, req.Location)
	fill(&p.CompanyOverview.FoundingDate, req.FoundingDate)
	if len(p.CompanyOverview.Ownership) == 0 {
		for _, row := range req.Ownership {
			if strings.TrimSpace(row.Owner) == "" {
				continue
			}
			p.CompanyOverview.Ownership = append(p.CompanyOverview.Ownership, Ownership{
				Owner:      strings.TrimSpace(row.Owner),
				Percentage: strings.TrimSpace(row.Percentage),
			})
		}
	}

	fill(&p.Products.UniqueSellingPoint, req.UniqueSellingPoint)
	fill(&p.Products.PricingStrategy, req.PricingModel)
	slots := p.Products.Slots()
	for i, product := range req.Products {
		if i >= len(slots) {
			break
		}
		fill(slots[i], product)
	}

	fill(&p.MarketAnalysis.TargetMarket, req.TargetMarket)
	fill(&p.Operations.Milestone, req.Milestone)

	if len(p.Management.Team) == 0 {
		for _, founder := range req.Founders {
			if strings.TrimSpace(founder.Name) == "" {
				continue
			}
			p.Management.Team = append(p.Management.Team, TeamMember{
				Name:       strings.TrimSpace(founder.Name),
				Role:       strings.TrimSpace(founder.Role),
				Background: strings.TrimSpace(founder.Background),
			})
		}
	}

	fill(&p.FinancialPlan.FundingNeeded, normalizeAmount(req.FundingNeeded))
	fill(&p.FinancialPlan.FundingReceived, normalizeAmount(req.FundingReceived))
	fill(&p.FinancialPlan.InitialInvestment, normalizeAmount(req.InitialInvestment))
	fill(&p.FinancialPlan.MonthlyExpenses, normalizeAmount(req.MonthlyExpenses))

	fillList(&p.SWOT.Strengths, req.Strengths)
	fillList(&p.SWOT.Weaknesses, req.Weaknesses)

	fill(&p.Appendices.Notes, req.Notes)
	fill(&p.Appendices.Resources, defaultResources)
	if len(p.Appendices.SupportingDocuments) == 0 {
		p.Appendices.SupportingDocuments = append([]string{}, defaultSupportingDocuments...)
	}
}

func fill(target *string, value string) {
	if strings.TrimSpace(*target) != "" {
		return
	}
	*target = strings.TrimSpace(value)
}

func fillList(target *[]string, values []string) {
	if len(*target) > 0 {
		return
	}

	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*target = out
}

func isAbsoluteURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}

	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func productKey(index int) string {
	return "product" + strconv.Itoa(index+1)
}
