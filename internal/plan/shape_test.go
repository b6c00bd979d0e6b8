package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckShapeRejectsNilList(t *testing.T) {
	p := Normalize(nil, Request{}, testNow)
	p.SWOT.Threats = nil

	err := CheckShape(p)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "threats")
}

func TestSchemaListsEveryField(t *testing.T) {
	schema := Schema()

	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	financial, ok := properties["financialPlan"].(map[string]any)
	require.True(t, ok)
	financialProps := financial["properties"].(map[string]any)

	usage := financialProps["usageOfFunds"].(map[string]any)
	assert.Equal(t, "array", usage["type"])
	row := usage["items"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "number"}, row["allocationPercent"])
	assert.Len(t, financial["required"], 12)
}

func TestTextFieldsResolve(t *testing.T) {
	p := Normalize(nil, Request{}, testNow)

	for _, path := range TextFieldPaths() {
		field, ok := LookupTextField(path)
		require.True(t, ok, path)
		field.Set(p, "value for "+path)
		assert.Equal(t, "value for "+path, field.Get(p))
	}

	_, ok := LookupTextField("executiveSummary.unknown")
	assert.False(t, ok)
}
