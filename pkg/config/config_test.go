package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/snowflakedb/gosnowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "LOG_FORMAT", "HISTORY_DRIVER", "HISTORY_DSN",
		"FUZZY_CUTOFF", "ANOMALY_THRESHOLD", "QUERY_TIMEOUT_SECONDS",
		"RAWREADY_LOG_LEVEL", "RAWREADY_HISTORY_DSN",
		"SNOWFLAKE_USER", "POSTGRES_USER",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rawready.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, HistoryConfig{Driver: "sqlite3", DSN: "rawready.db"}, cfg.History)
	assert.Equal(t, 0.85, cfg.FuzzyCutoff)
	assert.Equal(t, 3.0, cfg.AnomalyThreshold)
	assert.Equal(t, 300*time.Second, cfg.QueryTimeout)
	assert.Nil(t, cfg.Snowflake)
	assert.Nil(t, cfg.Postgres)
}

func TestLoadConfigPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log_level: warn
log_format: console
fuzzy_cutoff: 0.9
history:
  dsn: from-file.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 0.9, cfg.FuzzyCutoff)
	assert.Equal(t, "from-file.db", cfg.History.DSN)

	// env beats the file, the prefixed key beats the plain one
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HISTORY_DSN", "plain.db")
	t.Setenv("RAWREADY_HISTORY_DSN", "prefixed.db")

	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "prefixed.db", cfg.History.DSN)
	assert.Equal(t, 0.9, cfg.FuzzyCutoff)
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"HISTORY_DRIVER": "mysql"}},
		{"cutoff above one", map[string]string{"FUZZY_CUTOFF": "1.5"}},
		{"zero threshold", map[string]string{"ANOMALY_THRESHOLD": "0"}},
		{"zero timeout", map[string]string{"QUERY_TIMEOUT_SECONDS": "0"}},
		{"unknown log format", map[string]string{"LOG_FORMAT": "xml"}},
		{"partial snowflake", map[string]string{"SNOWFLAKE_USER": "loader"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigSources(t *testing.T) {
	clearEnv(t)
	t.Setenv("SNOWFLAKE_USER", "loader")
	t.Setenv("SNOWFLAKE_PASSWORD", "secret")
	t.Setenv("SNOWFLAKE_ACCOUNT", "acme-xy123")
	t.Setenv("SNOWFLAKE_WAREHOUSE", "COMPUTE_WH")
	t.Setenv("SNOWFLAKE_DATABASE", "RAW")
	t.Setenv("SNOWFLAKE_AUTHENTICATOR", "jwt")
	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_DB", "history")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("HISTORY_DRIVER", "postgres")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.NotNil(t, cfg.Snowflake)
	assert.Equal(t, "RAW", cfg.Snowflake.Database)
	assert.Equal(t, gosnowflake.AuthTypeJwt, cfg.Snowflake.Authenticator)
	assert.Equal(t, "COMPUTE_WH", cfg.Snowflake.SnowflakeDriverConfig().Warehouse)

	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, 6543, cfg.Postgres.Port)
	assert.Equal(t, "host=localhost port=6543 user=app dbname=history sslmode=disable", cfg.History.DSN)
}

func TestParseAuthenticator(t *testing.T) {
	assert.Equal(t, gosnowflake.AuthTypeOAuth, ParseAuthenticator("oauth"))
	assert.Equal(t, gosnowflake.AuthTypeOkta, ParseAuthenticator("okta"))
	assert.Equal(t, gosnowflake.AuthTypeSnowflake, ParseAuthenticator("unknown"))
}
