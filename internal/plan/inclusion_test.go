package plan

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforceInclusionsAppendsMissingSentences(t *testing.T) {
	req := sampleRequest()
	req.UniqueSellingPoint = "single-origin beans roasted on site."
	req.InvestmentUtilization = []AmountRow{{Item: "Roaster", Amount: "$15,000"}, {Item: "Fit-out"}}
	p := Normalize(map[string]any{
		"operations": map[string]any{"operationsOverview": "We run a small cafe."},
	}, req, testNow)

	EnforceInclusions(p, req)

	assert.Equal(t, "We run a small cafe. Operations are based in Austin, TX.", p.Operations.OperationsOverview)
	assert.Equal(t, "The founder serves as CEO.", p.Management.FoundingTeam)
	assert.Equal(t, "The current team size is 4.", p.Management.ManagementOverview)
	assert.Equal(t, "The business has already secured 20,000 in funding.", p.ExecutiveSummary.FundingRequirements)
	assert.Equal(t,
		"The business has already secured 20,000 in funding. Planned investment utilization: Roaster (15,000), Fit-out.",
		p.FinancialPlan.FinancialOverview)
	assert.Contains(t, p.Appendices.Resources, "Additional notes: Lease signed in January.")
	assert.Equal(t,
		"single-origin beans roasted on site. Key differentiator: single-origin beans roasted on site.",
		p.Products.UniqueSellingPoint)
}

func TestEnforceInclusionsSkipsPresentSentence(t *testing.T) {
	req := Request{TeamSize: "4"}
	p := Normalize(map[string]any{
		"management": map[string]any{"managementOverview": "The current team size is 4. Leadership is shared."},
	}, req, testNow)

	EnforceInclusions(p, req)

	assert.Equal(t, "The current team size is 4. Leadership is shared.", p.Management.ManagementOverview)
}

func TestEnforceInclusionsIsIdempotent(t *testing.T) {
	req := sampleRequest()
	req.InvestmentUtilization = []AmountRow{{Item: "Roaster", Amount: "$15,000"}}
	req.KeyFeatures = "Locally roasted"
	p := Fallback(req, testNow)
	NormalizeFinancials(p, req)

	EnforceInclusions(p, req)
	once, err := json.Marshal(p)
	require.NoError(t, err)

	EnforceInclusions(p, req)
	twice, err := json.Marshal(p)
	require.NoError(t, err)

	if diff := cmp.Diff(string(once), string(twice)); diff != "" {
		t.Fatalf("second pass changed the plan (-once +twice):\n%s", diff)
	}
}
