package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/lore/internal/progress"
)

func TestRepoPathArgDefault(t *testing.T) {
	got, err := repoPathArg(nil)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestRepoPathArgExplicit(t *testing.T) {
	dir := t.TempDir()
	got, err := repoPathArg([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	origFormat, origNoCache := formatFlag, noCache
	t.Cleanup(func() { formatFlag, noCache = origFormat, origNoCache })

	formatFlag = "json"
	noCache = true

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadConfigVerboseFlag(t *testing.T) {
	orig := verbose
	t.Cleanup(func() { verbose = orig })

	verbose = true

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Output.Verbose)
}

func TestStageReporterVerbose(t *testing.T) {
	var buf bytes.Buffer
	tracker := progress.NewTrackerTo(&buf, "Analyzing history", 6)

	stageReporter(tracker, true)(1, 6, "reading commit log")
	assert.Contains(t, buf.String(), "reading commit log")
}

func TestStageReporterQuiet(t *testing.T) {
	var buf bytes.Buffer
	tracker := progress.NewTrackerTo(&buf, "Analyzing history", 6)

	stageReporter(tracker, false)(1, 6, "reading commit log")
	got := buf.String()
	assert.Contains(t, got, "1/6")
	assert.NotContains(t, got, "reading commit log")
}

func TestCommandTreeWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["analyze"])
	assert.True(t, names["cache"])
	assert.True(t, names["version"])

	sub := map[string]bool{}
	for _, c := range analyzeCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, want := range []string{"history", "ownership", "risks", "phases"} {
		assert.True(t, sub[want], "missing analyze subcommand %s", want)
	}
}
