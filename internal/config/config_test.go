package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(old)) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "DB_PATH", "RATE_LIMIT", "RATE_WINDOW", "DEFAULT_DISTANCE_THRESHOLD", "DEFAULT_TIME_THRESHOLD"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, 200.0, cfg.DistanceThreshold)
	assert.Equal(t, 20.0, cfg.TimeThreshold)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", ":9090")
	t.Setenv("RATE_WINDOW", "30s")
	t.Setenv("DEFAULT_DISTANCE_THRESHOLD", "50")
	t.Setenv("DEFAULT_TIME_THRESHOLD", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RateWindow)
	assert.Equal(t, 50.0, cfg.DistanceThreshold)
	assert.Equal(t, 10.0, cfg.TimeThreshold)

	t.Setenv("RATE_LIMIT", "many")
	_, err = Load()
	assert.Error(t, err)
}
