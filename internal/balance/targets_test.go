package balance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTargets(t *testing.T) {
	targets, err := DefaultTargets()
	require.NoError(t, err)

	assert.Equal(t, 32, targets.Len())

	barriers, ok := targets.Lookup("marketAnalysis.barriersToEntry")
	require.True(t, ok)
	assert.Equal(t, 60, barriers.Min)
	assert.Equal(t, 110, barriers.Max)
	assert.True(t, barriers.Markdown)

	runway, ok := targets.Lookup("financialPlan.useOfFundsAndRunway")
	require.True(t, ok)
	assert.True(t, runway.Deterministic)
}

func TestParseTargetsRejectsBadTables(t *testing.T) {
	cases := map[string]string{
		"unknown path": "targets:\n  - {path: executiveSummary.slogan, min: 1, max: 5}\n",
		"inverted":     "targets:\n  - {path: executiveSummary.solution, min: 10, max: 5}\n",
		"duplicate":    "targets:\n  - {path: executiveSummary.solution, min: 1, max: 5}\n  - {path: executiveSummary.solution, min: 1, max: 5}\n",
		"empty":        "targets: []\n",
		"malformed":    "targets: {",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTargets([]byte(data))
			require.ErrorIs(t, err, ErrInvalidTargets)
		})
	}
}

func TestLoadTargetsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets:\n  - {path: appendices.glossary, min: 5, max: 40}\n"), 0o600))

	targets, err := LoadTargets(path)
	require.NoError(t, err)

	all := targets.All()
	require.Len(t, all, 1)
	assert.Equal(t, "appendices.glossary", all[0].Path)

	_, err = LoadTargets(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
