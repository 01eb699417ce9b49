package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	content := `
markers = [", Microsoft.Xna.Framework", ", MonoGame.Framework"]
candidate_label = "FNA"
format = "json"
jobs = 4
rename_hints = true

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{", Microsoft.Xna.Framework", ", MonoGame.Framework"}, cfg.Markers)
	assert.Equal(t, "FNA", cfg.CandidateLabel)
	assert.Equal(t, "Reference", cfg.ReferenceLabel)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 4, cfg.Jobs)
	assert.True(t, cfg.RenameHints)
	assert.False(t, cfg.FailOnDiff)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_DefaultFileAbsent(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Candidate", cfg.CandidateLabel)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_DefaultFilePresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`indexer_name = "this"`), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "this", cfg.IndexerName)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("markers = [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
