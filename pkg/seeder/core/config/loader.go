package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

const moduleName = "config"

// EmbeddedConfig carries the raw bytes of the embedded YAML configuration.
type EmbeddedConfig []byte

// ConfigParams defines the dependencies of NewConfigProvider.
type ConfigParams struct {
	fx.In
	EmbeddedConfig EmbeddedConfig
	EnvFilePath    string `name:"envFilePath" optional:"true"`
}

// loadConfig loads configuration from the embedded YAML and the environment.
// Called once at startup.
func loadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Warnf(".env file (%s) not found or could not be loaded: %v", envFilePath, err)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			logger.Debugf(".env file not found or could not be loaded: %v", err)
		}
	}

	cfg := NewConfig()

	// Unmarshal the YAML straight into the defaulted struct: keys absent
	// from the document keep their default, explicit values override it.
	if len(embeddedConfig) > 0 {
		if err := yaml.Unmarshal(embeddedConfig, cfg); err != nil {
			return nil, exception.NewConfigError(moduleName, "failed to unmarshal embedded config", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets operational knobs be overridden without editing the
// YAML. Only scalar settings a developer flips per run are exposed.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TANEMAKI_SOURCE"); v != "" {
		cfg.Tanemaki.Seed.Source = v
	}
	if v := os.Getenv("TANEMAKI_TABLE"); v != "" {
		cfg.Tanemaki.Seed.Table = v
	}
	if v := os.Getenv("TANEMAKI_DELIMITER"); v != "" {
		cfg.Tanemaki.Seed.Delimiter = v
	}
	if v := os.Getenv("TANEMAKI_TRUNCATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tanemaki.Seed.Truncate = b
		} else {
			logger.Warnf("TANEMAKI_TRUNCATE has non-boolean value '%s'; keeping %t", v, cfg.Tanemaki.Seed.Truncate)
		}
	}
	if v := os.Getenv("TANEMAKI_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tanemaki.Seed.ChunkSize = n
		} else {
			logger.Warnf("TANEMAKI_CHUNK_SIZE has non-numeric value '%s'; keeping %d", v, cfg.Tanemaki.Seed.ChunkSize)
		}
	}
	if v := os.Getenv("TANEMAKI_ROW_OFFSET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tanemaki.Seed.RowOffset = n
		} else {
			logger.Warnf("TANEMAKI_ROW_OFFSET has non-numeric value '%s'; keeping %d", v, cfg.Tanemaki.Seed.RowOffset)
		}
	}
	if v := os.Getenv("TANEMAKI_LOG_LEVEL"); v != "" {
		cfg.Tanemaki.System.Logging.Level = v
	}
}

// validate rejects option combinations no run can proceed with.
func validate(cfg *Config) error {
	seed := &cfg.Tanemaki.Seed
	if seed.ChunkSize <= 0 {
		return exception.NewConfigError(moduleName, "chunkSize must be positive", nil)
	}
	if seed.RowOffset < 0 {
		return exception.NewConfigError(moduleName, "rowOffset cannot be negative", nil)
	}
	if seed.Delimiter == "" {
		return exception.NewConfigError(moduleName, "delimiter cannot be empty", nil)
	}
	if !seed.HasHeader && len(seed.ColumnMapping) == 0 {
		return exception.NewConfigError(moduleName, "a headerless source requires columnMapping", nil)
	}
	return nil
}

// DeriveTable resolves the destination table name: the configured name, or
// the source file's base name without extension when none is set.
func DeriveTable(seed SeedConfig) string {
	if seed.Table != "" {
		return seed.Table
	}
	base := filepath.Base(seed.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NewConfigProvider is the fx provider for *Config. It loads the
// configuration and applies the configured log level.
func NewConfigProvider(params ConfigParams) (*Config, error) {
	cfg, err := loadConfig(params.EnvFilePath, params.EmbeddedConfig)
	if err != nil {
		return nil, err
	}

	logger.SetLogLevel(cfg.Tanemaki.System.Logging.Level)
	logger.Debugf("Log level set to: %s", cfg.Tanemaki.System.Logging.Level)

	return cfg, nil
}

// LoadConfig loads configuration outside the fx container, for tests and
// embedding callers.
func LoadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	return loadConfig(envFilePath, embeddedConfig)
}
