package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFileValues(t *testing.T) {
	t.Cleanup(func() { fileValues = map[string]string{} })
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		resetFileValues(t)
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "sqlite", cfg.StoreDriver)
		assert.Equal(t, "lifestory.db", cfg.SQLitePath)
		assert.Equal(t, int64(32<<20), cfg.MaxUploadSize)
		assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
		assert.Equal(t, filepath.Join(os.TempDir(), "lifestory-scratch"), cfg.ScratchDir)
		assert.NotEqual(t, cfg.UploadDir, cfg.ScratchDir)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
		assert.False(t, cfg.IsProduction())
		assert.False(t, cfg.CloudinaryEnabled())
	})

	t.Run("environment overrides", func(t *testing.T) {
		resetFileValues(t)
		t.Setenv("PORT", "9000")
		t.Setenv("ENV", " Production ")
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
		t.Setenv("MAX_UPLOAD_MB", "5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.Port)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "postgres", cfg.StoreDriver)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
		assert.Equal(t, int64(5<<20), cfg.MaxUploadSize)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		resetFileValues(t)
		t.Setenv("STORE_DRIVER", "mysql")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects bad upload size", func(t *testing.T) {
		resetFileValues(t)
		t.Setenv("MAX_UPLOAD_MB", "lots")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("config file fills unset values", func(t *testing.T) {
		resetFileValues(t)
		path := filepath.Join(t.TempDir(), "lifestory.yaml")
		require.NoError(t, os.WriteFile(path, []byte("summary_model: local-bart\nport: 7000\n"), 0o644))
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("PORT", "8081")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "local-bart", cfg.SummaryModel)
		assert.Equal(t, "8081", cfg.Port, "environment wins over the file")
	})
}
