package plan

import "sort"

// TextField is a narrative field of the plan addressed by its dotted JSON path.
type TextField struct {
	Path string
	ref  func(*Plan) *string
}

func (f TextField) Get(p *Plan) string {
	return *f.ref(p)
}

func (f TextField) Set(p *Plan, value string) {
	*f.ref(p) = value
}

var textFields = map[string]func(*Plan) *string{
	"executiveSummary.businessOverview":    func(p *Plan) *string { return &p.ExecutiveSummary.BusinessOverview },
	"executiveSummary.missionStatement":    func(p *Plan) *string { return &p.ExecutiveSummary.MissionStatement },
	"executiveSummary.visionStatement":     func(p *Plan) *string { return &p.ExecutiveSummary.VisionStatement },
	"executiveSummary.problemStatement":    func(p *Plan) *string { return &p.ExecutiveSummary.ProblemStatement },
	"executiveSummary.solution":            func(p *Plan) *string { return &p.ExecutiveSummary.Solution },
	"executiveSummary.fundingRequirements": func(p *Plan) *string { return &p.ExecutiveSummary.FundingRequirements },

	"companyOverview.history": func(p *Plan) *string { return &p.CompanyOverview.History },

	"products.overview":           func(p *Plan) *string { return &p.Products.Overview },
	"products.uniqueSellingPoint": func(p *Plan) *string { return &p.Products.UniqueSellingPoint },
	"products.pricingStrategy":    func(p *Plan) *string { return &p.Products.PricingStrategy },

	"marketAnalysis.industryOverview":    func(p *Plan) *string { return &p.MarketAnalysis.IndustryOverview },
	"marketAnalysis.targetMarket":        func(p *Plan) *string { return &p.MarketAnalysis.TargetMarket },
	"marketAnalysis.marketSize":          func(p *Plan) *string { return &p.MarketAnalysis.MarketSize },
	"marketAnalysis.competitiveAnalysis": func(p *Plan) *string { return &p.MarketAnalysis.CompetitiveAnalysis },
	"marketAnalysis.barriersToEntry":     func(p *Plan) *string { return &p.MarketAnalysis.BarriersToEntry },

	"marketingSales.marketingStrategy": func(p *Plan) *string { return &p.MarketingSales.MarketingStrategy },
	"marketingSales.salesStrategy":     func(p *Plan) *string { return &p.MarketingSales.SalesStrategy },
	"marketingSales.customerRetention": func(p *Plan) *string { return &p.MarketingSales.CustomerRetention },

	"operations.operationsOverview": func(p *Plan) *string { return &p.Operations.OperationsOverview },
	"operations.facilities":         func(p *Plan) *string { return &p.Operations.Facilities },
	"operations.supplyChain":        func(p *Plan) *string { return &p.Operations.SupplyChain },
	"operations.technology":         func(p *Plan) *string { return &p.Operations.Technology },

	"management.managementOverview":      func(p *Plan) *string { return &p.Management.ManagementOverview },
	"management.foundingTeam":            func(p *Plan) *string { return &p.Management.FoundingTeam },
	"management.organizationalStructure": func(p *Plan) *string { return &p.Management.OrganizationalStructure },
	"management.hiringPlan":              func(p *Plan) *string { return &p.Management.HiringPlan },

	"financialPlan.financialOverview":   func(p *Plan) *string { return &p.FinancialPlan.FinancialOverview },
	"financialPlan.useOfFundsAndRunway": func(p *Plan) *string { return &p.FinancialPlan.UseOfFundsAndRunway },
	"financialPlan.breakEvenAnalysis":   func(p *Plan) *string { return &p.FinancialPlan.BreakEvenAnalysis },

	"riskAnalysis.overview":           func(p *Plan) *string { return &p.RiskAnalysis.Overview },
	"riskAnalysis.mitigationStrategy": func(p *Plan) *string { return &p.RiskAnalysis.MitigationStrategy },

	"appendices.resources": func(p *Plan) *string { return &p.Appendices.Resources },
	"appendices.notes":     func(p *Plan) *string { return &p.Appendices.Notes },
	"appendices.glossary":  func(p *Plan) *string { return &p.Appendices.Glossary },
}

// LookupTextField возвращает поле по пути вида "marketAnalysis.barriersToEntry".
func LookupTextField(path string) (TextField, bool) {
	ref, ok := textFields[path]
	if !ok {
		return TextField{}, false
	}

	return TextField{Path: path, ref: ref}, true
}

// TextFieldPaths возвращает все известные пути в алфавитном порядке.
func TextFieldPaths() []string {
	paths := make([]string, 0, len(textFields))
	for path := range textFields {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return paths
}
