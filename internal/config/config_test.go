package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "file", cfg.Results.Backend)
	assert.Equal(t, "output.json", cfg.Results.FilePath)
	assert.Equal(t, "huggingface", cfg.Classifier.Provider)
	assert.Equal(t, "facebook/bart-large-mnli", cfg.Classifier.Model)
	assert.Equal(t, "default", cfg.Index.DefaultName)
	assert.True(t, cfg.Index.Preload)
	assert.Equal(t, 4, cfg.Pipeline.Concurrency)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCINTEL_EMBEDDING_PROVIDER", "hashing")
	t.Setenv("DOCINTEL_EMBEDDING_DIMENSIONS", "64")
	t.Setenv("DOCINTEL_RESULTS_BACKEND", "sqlite")
	t.Setenv("DOCINTEL_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "hashing", cfg.Embedding.Provider)
	assert.Equal(t, 64, cfg.Embedding.Dimensions)
	assert.Equal(t, "sqlite", cfg.Results.Backend)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Port)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docintel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  default_name: archive\npipeline:\n  concurrency: 2\n"), 0o600))
	t.Setenv("DOCINTEL_CONFIG_FILE", path)
	t.Setenv("DOCINTEL_PIPELINE_CONCURRENCY", "8")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "archive", cfg.Index.DefaultName)
	assert.Equal(t, 8, cfg.Pipeline.Concurrency)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("DOCINTEL_STORAGE_BACKEND", "ftp")

	_, err := config.Load()

	assert.ErrorContains(t, err, "storage backend")
}

func TestDBConfig_DSN(t *testing.T) {
	d := config.DBConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", d.DSN())
}
