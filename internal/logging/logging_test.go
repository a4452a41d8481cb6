package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"info level", false, false},
		{"verbose", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run.out")
			logger, err := New(path, tt.verbose)
			require.NoError(t, err)

			logger.Info("Starting goHF-CASSCF", zap.Int("workers", 3))
			logger.Debug("orbital partition")
			_ = logger.Sync()

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"msg":"Starting goHF-CASSCF"`)
			assert.Contains(t, string(data), `"workers":3`)
			if tt.wantDebug {
				assert.Contains(t, string(data), "orbital partition")
			} else {
				assert.NotContains(t, string(data), "orbital partition")
			}
		})
	}
}

func TestNewAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.out")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	logger, err := New(path, false)
	require.NoError(t, err)
	logger.Info("second run")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "previous run")
	assert.Contains(t, string(data), "second run")
}

func TestNewBadPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "run.out"), false)
	assert.Error(t, err)
}
