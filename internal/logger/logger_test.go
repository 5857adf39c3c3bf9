package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConsoleOnly(t *testing.T) {
	log, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))

	log, err = New(Options{Verbose: true})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNewWritesRotatingFile(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "npubhunter")
	log, err := New(Options{File: prefix})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))

	log.Info("match found", zap.String("npub", "npub1acme"))
	_ = log.Sync()

	files, err := filepath.Glob(prefix + "_*.log")
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"match found"`)
	assert.Contains(t, string(data), `"npub":"npub1acme"`)
}
