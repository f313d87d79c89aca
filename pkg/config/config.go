// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment key read through viper
const EnvPrefix = "RAWREADY"

const defaultHistoryDSN = "rawready.db"

// Config represents the application configuration
type Config struct {
	// Optional SQL sources, set only when their environment is present
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	History HistoryConfig

	// Cleaning defaults applied when a run does not set them
	FuzzyCutoff      float64
	AnomalyThreshold float64
	QueryTimeout     time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// HistoryConfig locates the cleaning history database
type HistoryConfig struct {
	Driver string // postgres or sqlite3
	DSN    string
}

// LoadConfig loads configuration from .env, the environment, an optional
// YAML file and defaults, in that order of precedence. An empty cfgFile
// looks for rawready.yaml in the working directory.
func LoadConfig(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("history.driver", "sqlite3")
	v.SetDefault("fuzzy_cutoff", 0.85)
	v.SetDefault("anomaly_threshold", 3.0)
	v.SetDefault("query_timeout_seconds", 300)

	// Unprefixed keys are accepted too
	for key, env := range map[string]string{
		"log_level":             "LOG_LEVEL",
		"log_format":            "LOG_FORMAT",
		"history.driver":        "HISTORY_DRIVER",
		"history.dsn":           "HISTORY_DSN",
		"fuzzy_cutoff":          "FUZZY_CUTOFF",
		"anomaly_threshold":     "ANOMALY_THRESHOLD",
		"query_timeout_seconds": "QUERY_TIMEOUT_SECONDS",
	} {
		if err := v.BindEnv(key, EnvPrefix+"_"+env, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("rawready")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		History: HistoryConfig{
			Driver: v.GetString("history.driver"),
			DSN:    v.GetString("history.dsn"),
		},
		FuzzyCutoff:      v.GetFloat64("fuzzy_cutoff"),
		AnomalyThreshold: v.GetFloat64("anomaly_threshold"),
		QueryTimeout:     time.Duration(v.GetInt("query_timeout_seconds")) * time.Second,
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
	}

	// Load database configurations
	if os.Getenv("SNOWFLAKE_USER") != "" {
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load Snowflake configuration: %w", err)
		}
		cfg.Snowflake = snowConfig
	}

	if os.Getenv("POSTGRES_USER") != "" {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load PostgreSQL configuration: %w", err)
		}
		cfg.Postgres = pgConfig
	}

	// Without an explicit DSN, postgres history reuses the POSTGRES_* settings
	if cfg.History.DSN == "" {
		switch {
		case cfg.History.Driver == "sqlite3":
			cfg.History.DSN = defaultHistoryDSN
		case cfg.History.Driver == "postgres" && cfg.Postgres != nil:
			cfg.History.DSN = cfg.Postgres.ConnectionString()
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.History.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported history driver %q", c.History.Driver)
	}

	if c.History.DSN == "" {
		return errors.New("history DSN is required")
	}

	if c.FuzzyCutoff <= 0 || c.FuzzyCutoff > 1 {
		return errors.New("fuzzy cutoff must be in (0, 1]")
	}

	if c.AnomalyThreshold <= 0 {
		return errors.New("anomaly threshold must be positive")
	}

	if c.QueryTimeout <= 0 {
		return errors.New("query timeout must be positive")
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := cast.ToIntE(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSeconds)) * time.Second
}
