package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/stamena-trainer/internal/config"
)

func TestNew_WritesFileAndTee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stamena.log")
	var tee bytes.Buffer

	logger, closer, err := New(config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}, &tee)
	require.NoError(t, err)
	logger.Printf("Scheduler: Reset at level %d", 3)
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Scheduler: Reset at level 3")
	assert.Contains(t, tee.String(), "Scheduler: Reset at level 3")
}

func TestNew_WithoutTee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stamena.log")

	logger, closer, err := New(config.LogConfig{File: path}, nil)
	require.NoError(t, err)
	defer closer.Close()
	logger.Printf("hello")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "hello")
}
