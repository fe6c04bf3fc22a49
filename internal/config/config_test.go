package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, time.Duration(0), cfg.Gemini.Timeout)
	assert.Equal(t, "brace_span", cfg.MealPlan.Extraction)
	assert.True(t, cfg.MealPlan.StrictValidation)
	assert.False(t, cfg.MealPlan.LogRawResponse)
	assert.Equal(t, 2500.0, cfg.Goals.WaterML)
	assert.Equal(t, 2000.0, cfg.Goals.Calories)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("gemini:\n  model: gemini-test\n  timeout: 30s\nmealplan:\n  extraction: balanced\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("GEMINI_API_KEY", "secret-key")
	t.Setenv("GOALS_WATER_ML", "3000")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "gemini-test", cfg.Gemini.Model)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "balanced", cfg.MealPlan.Extraction)
	assert.Equal(t, "secret-key", cfg.Gemini.APIKey)
	assert.Equal(t, 3000.0, cfg.Goals.WaterML)
}
