package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var page = filepath.Join("..", "..", "scenario", "testdata", "page.yaml")

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeReports(t *testing.T, out string) []report {
	t.Helper()
	var reports []report
	require.NoError(t, yaml.Unmarshal([]byte(out), &reports))
	return reports
}

func TestLayoutTable(t *testing.T) {
	out, err := run(t, "layout", "--collapsible", page)
	require.NoError(t, err)
	assert.Contains(t, out, "(thread): 12 entries on 10 levels")
	assert.Contains(t, out, "Main Thread")
	assert.Contains(t, out, "onLoad")
	assert.Contains(t, out, "DOMContentLoaded at 12ms")
}

func TestLayoutYAML(t *testing.T) {
	out, err := run(t, "layout", "--collapsible", "--format", "yaml", page, page)
	require.NoError(t, err)
	reports := decodeReports(t, out)
	require.Len(t, reports, 2)
	for _, r := range reports {
		assert.Equal(t, page, r.File)
		assert.Equal(t, "thread", r.Provider)
		assert.Equal(t, 10, r.Levels)
		require.Len(t, r.Entries, 12)
		assert.Len(t, r.Markers, 4)
	}
	assert.Equal(t, reports[0], reports[1])

	first := reports[0].Entries[0]
	assert.Equal(t, "frame", first.Kind)
	assert.Equal(t, "16ms", first.Title)
	assert.Equal(t, "#ffffffff", first.Color)
}

func TestLayoutNetwork(t *testing.T) {
	out, err := run(t, "layout", "--network", "--format", "yaml", page)
	require.NoError(t, err)
	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, "network", r.Provider)
	require.Len(t, r.Entries, 2)
	assert.Equal(t, "https://example.com/app.js", r.Entries[0].Title)
	assert.Equal(t, []int{0, 1}, []int{r.Entries[0].Level, r.Entries[1].Level})

	out, err = run(t, "layout", "--network", "--format", "yaml", "--window-start", "9ms", "--window-end", "20ms", page)
	require.NoError(t, err)
	r = decodeReports(t, out)[0]
	// The first request ends before the window and is parked.
	assert.Equal(t, []int{1, 0}, []int{r.Entries[0].Level, r.Entries[1].Level})
}

func TestLayoutMetrics(t *testing.T) {
	out, err := run(t, "layout", "--collapsible", "--metrics", page)
	require.NoError(t, err)
	assert.Contains(t, out, `tracelayout_entries{provider="thread"} 12`)
	assert.Contains(t, out, `tracelayout_layout_passes_total{provider="thread"} 1`)
}

func TestLayoutEnvironment(t *testing.T) {
	t.Setenv("TRACELAYOUT_FORMAT", "yaml")
	out, err := run(t, "layout", page)
	require.NoError(t, err)
	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	// Header rows are entries of their own.
	assert.Len(t, reports[0].Entries, 16)

	// Flags override the environment.
	out, err = run(t, "layout", "--format", "table", page)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, page))
}

func TestLayoutConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracelayout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\ncollapsible: true\n"), 0o644))
	out, err := run(t, "layout", "--config", path, page)
	require.NoError(t, err)
	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	assert.Len(t, reports[0].Entries, 12)

	_, err = run(t, "layout", "--config", filepath.Join(t.TempDir(), "missing.yaml"), page)
	assert.Error(t, err)
}

func TestLayoutErrors(t *testing.T) {
	_, err := run(t, "layout")
	assert.Error(t, err)

	_, err = run(t, "layout", "--format", "xml", page)
	assert.ErrorContains(t, err, "unknown output format")

	_, err = run(t, "layout", page, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "layout", "--blackbox", "--blackbox-pattern", "[", page)
	assert.Error(t, err)

	_, err = run(t, "--log-format", "xml", "layout", page)
	assert.ErrorContains(t, err, "unknown log format")

	_, err = run(t, "--log-level", "loud", "layout", page)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, filepath.Base(os.Args[0])))

	out, err = run(t, "version", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled with Go version:")
}
