package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LLM_PROVIDER", "LLM_API_KEY", "OPENAI_API_KEY", "DEEPSEEK_API_KEY", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Empty(t, cfg.APIKey)
}

func TestFromEnvReadsValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "deepseek")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "sk-deep")
	t.Setenv("DATABASE_URL", "postgres://localhost/resumes")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "deepseek", cfg.Provider)
	assert.Equal(t, "sk-deep", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/resumes", cfg.DatabaseURL)
}

func TestFromEnvAPIKeyPrecedence(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-generic")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("DEEPSEEK_API_KEY", "sk-deep")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sk-generic", cfg.APIKey)
}

func TestFromEnvRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("PORT", "70000")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestFromEnvRejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"port": 9999, "provider": "deepseek", "api_key": "sk-test"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "deepseek", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile("")
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	cfg := Config{Provider: "deepseek"}
	merged := cfg.Merge(Config{
		Port:     8080,
		Provider: "openai",
		APIKey:   "sk-file",
		Model:    "deepseek-chat",
	})

	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "deepseek", merged.Provider)
	assert.Equal(t, "sk-file", merged.APIKey)
	assert.Equal(t, "deepseek-chat", merged.Model)
}
