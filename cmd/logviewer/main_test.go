package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogViewer_PrintsFilteredRecords(t *testing.T) {
	dir := t.TempDir()
	records := `{"time":"2026-10-19T08:30:00Z","level":"INFO","msg":"Application started"}` + "\n" +
		`{"time":"2026-10-19T08:30:01Z","level":"DEBUG","msg":"Roadmap changed","event":"MilestoneAdded"}` + "\n" +
		`{"time":"2026-10-19T08:30:02Z","level":"WARN","msg":"Import rejected"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "learnmap.log"), []byte(records), 0644))

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{dir, "--level", "info", "--color", "never"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "INFO  Application started")
	assert.Contains(t, out.String(), "WARN  Import rejected")
	assert.NotContains(t, out.String(), "Roadmap changed")

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(out)
	cmd.SetArgs([]string{dir, "-q", "milestoneadded", "--color", "never"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Roadmap changed\n    event: MilestoneAdded")
	assert.NotContains(t, out.String(), "Application started")
}

func TestLogViewer_Errors(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, cmd.Execute())

	cmd = newRootCmd()
	cmd.SetArgs([]string{t.TempDir(), "--level", "loud"})
	assert.Error(t, cmd.Execute())
}
