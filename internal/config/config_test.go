package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesBuiltInValues(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.ConcurrencyAuto)
	require.True(t, cfg.DedupEnabled)
	require.True(t, cfg.ColorEnabled)
	require.Equal(t, 0, cfg.GraphEdgeLimit)
}

func TestIsystemTableReflectsFields(t *testing.T) {
	cfg := Default()
	cfg.IsystemC = "/c"
	cfg.IsystemCXX = "/cxx"
	table := cfg.IsystemTable()
	require.Equal(t, "/c", table["c"])
	require.Equal(t, "/cxx", table["c++"])
}

func TestMergeOverridesOnlySetFields(t *testing.T) {
	cfg := Default()
	n := 4
	disabled := false
	merged := cfg.Merge(&Override{Concurrency: &n, DedupEnabled: &disabled})

	require.Equal(t, 4, merged.Concurrency)
	require.False(t, merged.ConcurrencyAuto)
	require.False(t, merged.DedupEnabled)
	require.Equal(t, cfg.ColorEnabled, merged.ColorEnabled)
}

func TestMergeConcurrencyAutoWins(t *testing.T) {
	cfg := Default()
	n := 2
	merged := cfg.Merge(&Override{Concurrency: &n})
	require.False(t, merged.ConcurrencyAuto)

	merged2 := cfg.Merge(&Override{Concurrency: &n, ConcurrencyAuto: true})
	require.True(t, merged2.ConcurrencyAuto)
}

func TestMergeNilOverrideIsCopy(t *testing.T) {
	cfg := Default()
	merged := cfg.Merge(nil)
	require.Equal(t, *cfg, *merged)
}

func TestLoadKDLMissingFileReturnsNil(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.Nil(t, cfg)
}

func TestLoadKDLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "concurrency \"auto\"\ndedup #false\ngraph_edge_limit 20\nisystem {\n  c \"/opt/isystem/c\"\n  cxx \"/opt/isystem/cxx\"\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".watchclang.kdl"), []byte(content), 0o644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.True(t, cfg.ConcurrencyAuto)
	require.False(t, cfg.DedupEnabled)
	require.Equal(t, 20, cfg.GraphEdgeLimit)
	require.Equal(t, "/opt/isystem/c", cfg.IsystemC)
	require.Equal(t, "/opt/isystem/cxx", cfg.IsystemCXX)
}
