package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 60*time.Minute, cfg.ReminderWindow)
	assert.Equal(t, "whisper-large-v3", cfg.GroqTranscribeModel)
	assert.Equal(t, 3, cfg.SearchResultsPerTerm)
}

func TestLoad_EnvFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("GROQ_API_KEY=from-file\nREMINDER_WINDOW=90\nPORT=9000\n"), 0o600))

	t.Setenv("PORT", "7000")

	cfg, err := Load(envPath)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.GroqAPIKey)
	assert.Equal(t, 90*time.Minute, cfg.ReminderWindow)
	assert.Equal(t, ":7000", cfg.Addr())
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("REMINDER_WINDOW", "soon")
	_, err := Load("")
	require.Error(t, err)
}
