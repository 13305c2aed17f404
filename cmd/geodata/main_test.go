package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/dataset"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("PLACES_SOURCE", "file")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "text")

	var buf bytes.Buffer
	prevOut, prevDefault := logOutput, slog.Default()
	logOutput = &buf
	t.Cleanup(func() {
		logOutput = prevOut
		slog.SetDefault(prevDefault)
	})
	return &buf
}

func TestLogsGoToStderr(t *testing.T) {
	assert.Equal(t, os.Stderr, logOutput)
}

func TestRunFailureIsLogged(t *testing.T) {
	buf := captureLogs(t)
	missing := filepath.Join(t.TempDir(), "communes.json")

	code := run([]string{"add-departments", "--file", missing})

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "Command failed")
	assert.Contains(t, buf.String(), "run fetch-from-official-source first")
	assert.NoFileExists(t, missing)
}

func TestRunUnknownCommand(t *testing.T) {
	buf := captureLogs(t)

	assert.Equal(t, 1, run([]string{"no-such-command"}))
	assert.Contains(t, buf.String(), "Command failed")
}

func TestRunAddDepartments(t *testing.T) {
	buf := captureLogs(t)
	path := filepath.Join(t.TempDir(), "communes.json")
	require.NoError(t, dataset.Store(path, []place.Record{
		{Name: "Lille", Postcode: "59000", Department: "59", Type: place.TypeCity},
	}))

	code := run([]string{"add-departments", "--file", path})

	require.Equal(t, 0, code, buf.String())
	assert.Contains(t, buf.String(), "Departments finished")
	assert.NotContains(t, buf.String(), "Command failed")

	records, err := dataset.Load(path)
	require.NoError(t, err)
	assert.Greater(t, len(records), 1)
}
