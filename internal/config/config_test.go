package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:     AppConfig{Environment: "development"},
			Logger:  LoggerConfig{Level: "info"},
			Data:    DataConfig{BasePath: "/tmp/shelfmark"},
			Catalog: CatalogConfig{MaxResults: 12},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects unknown environment", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "prod"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("log level is case insensitive", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "DEBUG"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects empty data path", func(t *testing.T) {
		cfg := valid()
		cfg.Data.BasePath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects out of range catalog max results", func(t *testing.T) {
		cfg := valid()
		cfg.Catalog.MaxResults = 0
		assert.Error(t, cfg.Validate())

		cfg.Catalog.MaxResults = 50
		assert.Error(t, cfg.Validate())
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("empty path uses default", func(t *testing.T) {
		got, err := expandPath("", "/default/path")
		require.NoError(t, err)
		assert.Equal(t, "/default/path", got)
	})

	t.Run("expands tilde", func(t *testing.T) {
		got, err := expandPath("~/books", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "books"), got)
	})

	t.Run("absolute path is cleaned", func(t *testing.T) {
		got, err := expandPath("/var/lib/../lib/shelfmark", "")
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/shelfmark", got)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		got, err := expandPath("data", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})
}

func TestGetConfigValue(t *testing.T) {
	t.Run("flag takes precedence over env", func(t *testing.T) {
		t.Setenv("SHELFMARK_TEST_KEY", "from-env")
		assert.Equal(t, "from-flag", getConfigValue("from-flag", "SHELFMARK_TEST_KEY", "default"))
	})

	t.Run("env takes precedence over default", func(t *testing.T) {
		t.Setenv("SHELFMARK_TEST_KEY", "from-env")
		assert.Equal(t, "from-env", getConfigValue("", "SHELFMARK_TEST_KEY", "default"))
	})

	t.Run("falls back to default", func(t *testing.T) {
		assert.Equal(t, "default", getConfigValue("", "SHELFMARK_TEST_MISSING", "default"))
	})
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("SHELFMARK_TEST_INT", "42")
	assert.Equal(t, 42, getIntConfigValue("", "SHELFMARK_TEST_INT", 7))

	t.Setenv("SHELFMARK_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getIntConfigValue("", "SHELFMARK_TEST_INT", 7))

	assert.Equal(t, 7, getIntConfigValue("", "SHELFMARK_TEST_INT_MISSING", 7))
}

func TestGetInt64ConfigValue(t *testing.T) {
	t.Setenv("SHELFMARK_TEST_INT64", "9000000000")
	assert.Equal(t, int64(9000000000), getInt64ConfigValue("", "SHELFMARK_TEST_INT64", 1))
}

func TestGetFloatConfigValue(t *testing.T) {
	t.Setenv("SHELFMARK_TEST_FLOAT", "2.5")
	assert.Equal(t, 2.5, getFloatConfigValue("", "SHELFMARK_TEST_FLOAT", 1))

	assert.Equal(t, 1.0, getFloatConfigValue("", "SHELFMARK_TEST_FLOAT_MISSING", 1))
}

func TestParseDurationValue(t *testing.T) {
	t.Run("parses env value", func(t *testing.T) {
		t.Setenv("SHELFMARK_TEST_TIMEOUT", "30s")
		d, err := parseDurationValue("", "SHELFMARK_TEST_TIMEOUT", "15s")
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, d)
	})

	t.Run("falls back to default", func(t *testing.T) {
		d, err := parseDurationValue("", "SHELFMARK_TEST_TIMEOUT_MISSING", "15s")
		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, d)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Setenv("SHELFMARK_TEST_TIMEOUT", "soon")
		_, err := parseDurationValue("", "SHELFMARK_TEST_TIMEOUT", "15s")
		assert.Error(t, err)
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("loads simple file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		content := "# comment\nSHELFMARK_ENVFILE_A=hello\nSHELFMARK_ENVFILE_B=\"quoted\"\n\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		t.Setenv("SHELFMARK_ENVFILE_A", "")
		t.Setenv("SHELFMARK_ENVFILE_B", "")
		os.Unsetenv("SHELFMARK_ENVFILE_A")
		os.Unsetenv("SHELFMARK_ENVFILE_B")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "hello", os.Getenv("SHELFMARK_ENVFILE_A"))
		assert.Equal(t, "quoted", os.Getenv("SHELFMARK_ENVFILE_B"))
	})

	t.Run("real env wins over file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("SHELFMARK_ENVFILE_C=file\n"), 0o600))

		t.Setenv("SHELFMARK_ENVFILE_C", "real")
		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "real", os.Getenv("SHELFMARK_ENVFILE_C"))
	})

	t.Run("rejects malformed line", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("JUSTAKEY\n"), 0o600))
		assert.Error(t, loadEnvFile(path))
	})

	t.Run("missing file returns error", func(t *testing.T) {
		assert.Error(t, loadEnvFile("/nonexistent/.env"))
	})
}
