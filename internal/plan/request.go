package plan

// AmountRow is one free-text `{item, amount}` entry of a form breakdown table.
type AmountRow struct {
	Item   string `json:"item" validate:"max=200"`
	Amount string `json:"amount" validate:"max=64"`
}

type OwnershipRow struct {
	Owner      string `json:"owner" validate:"max=200"`
	Percentage string `json:"percentage" validate:"max=32"`
}

type FounderRow struct {
	Name       string `json:"name" validate:"max=200"`
	Role       string `json:"role" validate:"max=200"`
	Background string `json:"background" validate:"max=2000"`
}

// Request содержит данные анкеты пользователя. Не изменяется во время генерации.
type Request struct {
	PlanName            string `json:"planName" validate:"required,max=200"`
	BusinessName        string `json:"businessName" validate:"required,max=200"`
	Tagline             string `json:"tagline,omitempty" validate:"max=300"`
	LogoURL             string `json:"logoUrl,omitempty" validate:"max=2000"`
	Industry            string `json:"industry,omitempty" validate:"max=200"`
	BusinessDescription string `json:"businessDescription,omitempty" validate:"max=5000"`
	LegalStructure      string `json:"legalStructure,omitempty" validate:"max=200"`
	Location            string `json:"location,omitempty" validate:"max=300"`
	OperationLocation   string `json:"operationLocation,omitempty" validate:"max=300"`
	FoundingDate        string `json:"foundingDate,omitempty" validate:"max=64"`
	Mission             string `json:"mission,omitempty" validate:"max=2000"`
	Vision              string `json:"vision,omitempty" validate:"max=2000"`
	ProblemStatement    string `json:"problemStatement,omitempty" validate:"max=5000"`
	Solution            string `json:"solution,omitempty" validate:"max=5000"`
	TargetMarket        string `json:"targetMarket,omitempty" validate:"max=5000"`
	Competitors         string `json:"competitors,omitempty" validate:"max=5000"`
	UniqueSellingPoint  string `json:"uniqueSellingPoint,omitempty" validate:"max=2000"`
	KeyFeatures         string `json:"keyFeatures,omitempty" validate:"max=2000"`
	PricingModel        string `json:"pricingModel,omitempty" validate:"max=2000"`

	Products     []string       `json:"products,omitempty" validate:"max=10,dive,max=2000"`
	Achievements []string       `json:"achievements,omitempty" validate:"max=20,dive,max=500"`
	Ownership    []OwnershipRow `json:"ownership,omitempty" validate:"max=20,dive"`
	Founders     []FounderRow   `json:"founders,omitempty" validate:"max=20,dive"`
	FounderRole  string         `json:"founderRole,omitempty" validate:"max=200"`
	TeamSize     string         `json:"teamSize,omitempty" validate:"max=32"`

	FundingNeeded         string      `json:"fundingNeeded,omitempty" validate:"max=64"`
	FundingReceived       string      `json:"fundingReceived,omitempty" validate:"max=64"`
	InitialInvestment     string      `json:"initialInvestment,omitempty" validate:"max=64"`
	MonthlyExpenses       string      `json:"monthlyExpenses,omitempty" validate:"max=64"`
	InvestmentUtilization []AmountRow `json:"investmentUtilization,omitempty" validate:"max=30,dive"`
	FundingUseBreakdown   []AmountRow `json:"fundingUseBreakdown,omitempty" validate:"max=30,dive"`

	Milestone  string   `json:"milestone,omitempty" validate:"max=1000"`
	Strengths  []string `json:"strengths,omitempty" validate:"max=20,dive,max=500"`
	Weaknesses []string `json:"weaknesses,omitempty" validate:"max=20,dive,max=500"`
	Notes      string   `json:"notes,omitempty" validate:"max=5000"`
}
