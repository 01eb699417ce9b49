package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/surfacediff/core/cli"
	"github.com/emenda-labs/surfacediff/core/surface"
)

var (
	referenceDir = filepath.Join("..", "..", "drivers", "golang", "testdata", "reference")
	candidateDir = filepath.Join("..", "..", "drivers", "golang", "testdata", "candidate")
)

func compareOptions(output string) cli.CompareOptions {
	return cli.CompareOptions{
		Reference:      referenceDir,
		Candidate:      candidateDir,
		Output:         output,
		Format:         "text",
		ReferenceLabel: "Reference",
		CandidateLabel: "Candidate",
		Jobs:           1,
	}
}

func TestRunCompare_TextReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "SpecMismatches.txt")
	require.NoError(t, runCompare(context.Background(), cli.GlobalOptions{}, compareOptions(out)))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "Types Not In Candidate:\n\tConfig\n"), text)
	assert.Contains(t, text, "Types Extra In Candidate:\n\tSettings\n")
	assert.Contains(t, text, "static int HelperFunction(int a, int b)")
}

func TestRunCompare_FailOnDiff(t *testing.T) {
	opts := compareOptions(filepath.Join(t.TempDir(), "report.json"))
	opts.Format = "json"
	opts.FailOnDiff = true

	err := runCompare(context.Background(), cli.GlobalOptions{}, opts)
	require.ErrorIs(t, err, cli.ErrDiscrepancies)

	data, readErr := os.ReadFile(opts.Output)
	require.NoError(t, readErr)
	var rep surface.Report
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, []string{"Config"}, rep.TypesNotInCandidate)
}

func TestRunCompare_IdenticalSurfaces(t *testing.T) {
	opts := compareOptions(filepath.Join(t.TempDir(), "report.txt"))
	opts.Candidate = referenceDir
	opts.FailOnDiff = true

	require.NoError(t, runCompare(context.Background(), cli.GlobalOptions{}, opts))
	data, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRunCompare_UnknownSource(t *testing.T) {
	opts := compareOptions(filepath.Join(t.TempDir(), "report.txt"))
	opts.Candidate = "not a source"

	err := runCompare(context.Background(), cli.GlobalOptions{}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Candidate")
}

func TestRunCompare_ExplicitConfigMissing(t *testing.T) {
	opts := compareOptions(filepath.Join(t.TempDir(), "report.txt"))
	err := runCompare(context.Background(), cli.GlobalOptions{ConfigPath: "missing.toml"}, opts)
	assert.Error(t, err)
}

func TestRunSnapshot_ThenCompare(t *testing.T) {
	dir := t.TempDir()
	snapPath := filepath.Join(dir, "reference.msgpack")
	require.NoError(t, runSnapshot(context.Background(), cli.GlobalOptions{}, cli.SnapshotOptions{
		Source: referenceDir,
		Output: snapPath,
	}))

	opts := compareOptions(filepath.Join(dir, "report.txt"))
	opts.Reference = snapPath
	opts.Candidate = referenceDir
	opts.FailOnDiff = true
	require.NoError(t, runCompare(context.Background(), cli.GlobalOptions{}, opts))
}

func TestRunCompare_KeepsRequestedOutputAndFormat(t *testing.T) {
	opts := compareOptions(filepath.Join(t.TempDir(), "report.yaml"))
	opts.Format = "yaml"
	var err error
	opts.Reference, err = filepath.Abs(opts.Reference)
	require.NoError(t, err)
	opts.Candidate, err = filepath.Abs(opts.Candidate)
	require.NoError(t, err)
	t.Chdir(t.TempDir())

	require.NoError(t, runCompare(context.Background(), cli.GlobalOptions{}, opts))

	data, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	var rep surface.Report
	require.NoError(t, yaml.Unmarshal(data, &rep))
	assert.Equal(t, []string{"Settings"}, rep.TypesExtraInCandidate)

	_, err = os.Stat("SpecMismatches.txt")
	assert.True(t, os.IsNotExist(err), "default report file must not be written")
}
