package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bestsellers/internal/domain"
)

const sampleCSV = `Name,Author,User Rating,Reviews,Price,Year,Genre
X,Author X,4.0,500,10,2010,Fiction
X,Author X,4.5,1500,12,2011,Fiction
Y,Author Y,3.0,20000,8,2010,Non Fiction
`

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bestsellers.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReport_JSON(t *testing.T) {
	out, _, err := execute(t, "--csv", writeCSV(t))
	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, domain.SourceLoaded, report.Source)
	assert.Equal(t, 3, report.Overview.Records)
	require.Len(t, report.Persistence, 2)
	assert.Equal(t, "X", report.Persistence[0].Title)
	assert.Equal(t, 2, report.Persistence[0].Count)
	assert.Len(t, report.Genres, 2)
}

func TestReport_Filters(t *testing.T) {
	out, _, err := execute(t, "--csv", writeCSV(t), "--year", "2010", "--genre", "fiction")
	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 1, report.Overview.Records)
	assert.Equal(t, []int{2010}, report.Selection.Years)
	require.NotNil(t, report.Overview.MeanRating)
	assert.InDelta(t, 4.0, *report.Overview.MeanRating, 1e-9)
}

func TestReport_PriceRange(t *testing.T) {
	out, _, err := execute(t, "--csv", writeCSV(t), "--max-price", "9")
	require.NoError(t, err)

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 1, report.Overview.Records)
	require.NotNil(t, report.Selection.PriceRange)
	assert.Zero(t, report.Selection.PriceRange.Min)
}

func TestReport_Markdown(t *testing.T) {
	out, _, err := execute(t, "--csv", writeCSV(t), "--format", "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Bestseller analytics report")
	assert.Contains(t, out, "## Most persistent titles")
}

func TestReport_SyntheticFallback(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")

	out, errOut, err := execute(t, "--csv", missing, "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, errOut, "synthetic data")

	var report domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, domain.SourceSynthesized, report.Source)
	assert.Equal(t, 550, report.Overview.Records)
}

func TestReport_Errors(t *testing.T) {
	csvPath := writeCSV(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"--csv", csvPath, "--format", "xml"}},
		{"negative min reviews", []string{"--csv", csvPath, "--min-reviews", "-1"}},
		{"inverted price range", []string{"--csv", csvPath, "--min-price", "20", "--max-price", "10"}},
		{"positional argument", []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
