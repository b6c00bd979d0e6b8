package plan

// Plan is the canonical business plan. After Normalize every string leaf is set (possibly empty)
// and every list is non-nil.
type Plan struct {
	Cover            Cover            `json:"cover"`
	ExecutiveSummary ExecutiveSummary `json:"executiveSummary"`
	CompanyOverview  CompanyOverview  `json:"companyOverview"`
	Products         Products         `json:"products"`
	MarketAnalysis   MarketAnalysis   `json:"marketAnalysis"`
	MarketingSales   MarketingSales   `json:"marketingSales"`
	Operations       Operations       `json:"operations"`
	Management       Management       `json:"management"`
	FinancialPlan    FinancialPlan    `json:"financialPlan"`
	RiskAnalysis     RiskAnalysis     `json:"riskAnalysis"`
	SWOT             SWOT             `json:"swot"`
	Appendices       Appendices       `json:"appendices"`
}

type Cover struct {
	Title        string `json:"title"`
	BusinessName string `json:"businessName"`
	LogoURL      string `json:"logoUrl"`
	PreparedDate string `json:"preparedDate"`
	Tagline      string `json:"tagline"`
}

type ExecutiveSummary struct {
	BusinessOverview    string   `json:"businessOverview"`
	MissionStatement    string   `json:"missionStatement"`
	VisionStatement     string   `json:"visionStatement"`
	ProblemStatement    string   `json:"problemStatement"`
	Solution            string   `json:"solution"`
	FundingRequirements string   `json:"fundingRequirements"`
	KeyAchievements     []string `json:"keyAchievements"`
}

type Ownership struct {
	Owner      string `json:"owner"`
	Percentage string `json:"percentage"`
}

type CompanyOverview struct {
	BusinessName   string      `json:"businessName"`
	LegalStructure string      `json:"legalStructure"`
	Location       string      `json:"location"`
	FoundingDate   string      `json:"foundingDate"`
	History        string      `json:"history"`
	Ownership      []Ownership `json:"ownership"`
}

// ProductSlots is the number of product entries a plan carries.
const ProductSlots = 10

type Products struct {
	Overview           string `json:"overview"`
	UniqueSellingPoint string `json:"uniqueSellingPoint"`
	PricingStrategy    string `json:"pricingStrategy"`
	Product1           string `json:"product1"`
	Product2           string `json:"product2"`
	Product3           string `json:"product3"`
	Product4           string `json:"product4"`
	Product5           string `json:"product5"`
	Product6           string `json:"product6"`
	Product7           string `json:"product7"`
	Product8           string `json:"product8"`
	Product9           string `json:"product9"`
	Product10          string `json:"product10"`
}

// Slots возвращает указатели на product1..product10 по порядку.
func (p *Products) Slots() []*string {
	return []*string{
		&p.Product1, &p.Product2, &p.Product3, &p.Product4, &p.Product5,
		&p.Product6, &p.Product7, &p.Product8, &p.Product9, &p.Product10,
	}
}

type MarketAnalysis struct {
	IndustryOverview    string   `json:"industryOverview"`
	TargetMarket        string   `json:"targetMarket"`
	MarketSize          string   `json:"marketSize"`
	CompetitiveAnalysis string   `json:"competitiveAnalysis"`
	BarriersToEntry     string   `json:"barriersToEntry"`
	Trends              []string `json:"trends"`
}

type MarketingSales struct {
	MarketingStrategy string   `json:"marketingStrategy"`
	SalesStrategy     string   `json:"salesStrategy"`
	Channels          []string `json:"channels"`
	CustomerRetention string   `json:"customerRetention"`
}

type Operations struct {
	OperationsOverview string   `json:"operationsOverview"`
	Facilities         string   `json:"facilities"`
	SupplyChain        string   `json:"supplyChain"`
	Technology         string   `json:"technology"`
	Milestone          string   `json:"milestone"`
	Milestones         []string `json:"milestones"`
}

type TeamMember struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Background string `json:"background"`
}

type Management struct {
	ManagementOverview      string       `json:"managementOverview"`
	FoundingTeam            string       `json:"foundingTeam"`
	OrganizationalStructure string       `json:"organizationalStructure"`
	HiringPlan              string       `json:"hiringPlan"`
	Team                    []TeamMember `json:"team"`
}

type FundingBreakdownRow struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
}

// UsageOfFundsRow is one allocation of the requested funding.
type UsageOfFundsRow struct {
	Department        string  `json:"department"`
	AllocationPercent float64 `json:"allocationPercent"`
	Amount            string  `json:"amount"`
	HowUsed           string  `json:"howUsed"`
}

type RevenueForecastRow struct {
	Year      string `json:"year"`
	Revenue   string `json:"revenue"`
	Expenses  string `json:"expenses"`
	NetIncome string `json:"netIncome"`
}

type OperatingExpenseRow struct {
	Category string `json:"category"`
	Monthly  string `json:"monthly"`
	Annual   string `json:"annual"`
}

type CashFlowRow struct {
	Period        string `json:"period"`
	BeginningCash string `json:"beginningCash"`
	CashIn        string `json:"cashIn"`
	CashOut       string `json:"cashOut"`
	EndingCash    string `json:"endingCash"`
}

type FinancialPlan struct {
	FinancialOverview   string                `json:"financialOverview"`
	FundingNeeded       string                `json:"fundingNeeded"`
	FundingReceived     string                `json:"fundingReceived"`
	InitialInvestment   string                `json:"initialInvestment"`
	MonthlyExpenses     string                `json:"monthlyExpenses"`
	UseOfFundsAndRunway string                `json:"useOfFundsAndRunway"`
	BreakEvenAnalysis   string                `json:"breakEvenAnalysis"`
	FundingBreakdown    []FundingBreakdownRow `json:"fundingBreakdown"`
	UsageOfFunds        []UsageOfFundsRow     `json:"usageOfFunds"`
	RevenueForecast     []RevenueForecastRow  `json:"revenueForecast"`
	OperatingExpenses   []OperatingExpenseRow `json:"operatingExpenses"`
	CashFlow            []CashFlowRow         `json:"cashFlow"`
}

type Risk struct {
	Risk       string `json:"risk"`
	Impact     string `json:"impact"`
	Mitigation string `json:"mitigation"`
}

type RiskAnalysis struct {
	Overview           string `json:"overview"`
	MitigationStrategy string `json:"mitigationStrategy"`
	Risks              []Risk `json:"risks"`
}

type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

type Appendices struct {
	Resources           string   `json:"resources"`
	Notes               string   `json:"notes"`
	SupportingDocuments []string `json:"supportingDocuments"`
	Glossary            string   `json:"glossary"`
}
