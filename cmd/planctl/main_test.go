package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetsCommandPrintsEmbeddedTable(t *testing.T) {
	t.Setenv("BALANCE_TARGETS_FILE", "")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"targets"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 33)
	assert.True(t, strings.HasPrefix(lines[0], "FIELD"))
	assert.Contains(t, out.String(), "financialPlan.useOfFundsAndRunway")
}

func TestTargetsCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets:\n  - {path: appendices.glossary, min: 5, max: 40}\n"), 0o600))

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"targets", "--file", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "appendices.glossary")
	assert.NotContains(t, out.String(), "executiveSummary")
}

func TestReadForm(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "form.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"planName": "Seed round", "businessName": "Green Cup Cafe", "fundingNeeded": "100,000"}`), 0o600))
	req, err := readForm(valid)
	require.NoError(t, err)
	assert.Equal(t, "Green Cup Cafe", req.BusinessName)
	assert.Equal(t, "100,000", req.FundingNeeded)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0o600))
	_, err = readForm(empty)
	require.Error(t, err)

	_, err = readForm(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
