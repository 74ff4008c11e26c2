// Package config provides loading and validation of the tanemaki
// configuration from an embedded YAML document, a .env file and
// environment variable overrides.
package config

// Config is the root configuration document.
type Config struct {
	Tanemaki TanemakiConfig `yaml:"tanemaki"`
}

// TanemakiConfig groups all application settings.
type TanemakiConfig struct {
	// Seed holds the per-run seeding options.
	Seed SeedConfig `yaml:"seed"`
	// System holds process-level settings.
	System SystemConfig `yaml:"system"`
	// Database holds the raw connection settings, decoded by the database
	// adapter for the configured type.
	Database map[string]interface{} `yaml:"database"`
	// Migration holds the optional pre-seed migration settings.
	Migration MigrationConfig `yaml:"migration"`
	// Reject holds the optional rejected-row archive settings.
	Reject RejectConfig `yaml:"reject"`
	// Metrics holds the metrics recorder settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// SeedConfig is the immutable option set of one seeding run. It is fully
// populated at load time; nothing mutates it afterwards.
type SeedConfig struct {
	// Source is the path of the delimited file to load.
	Source string `yaml:"source"`
	// Table is the destination table. When empty it is derived from the
	// source file name (base name without extension).
	Table string `yaml:"table"`
	// Truncate deletes all existing rows before the first insert.
	Truncate bool `yaml:"truncate"`
	// HasHeader indicates the first non-empty line is a column header.
	HasHeader bool `yaml:"hasHeader"`
	// Delimiter separates fields within a line.
	Delimiter string `yaml:"delimiter"`
	// ColumnMapping, when set, stands in for the file header: an ordered
	// list of target column names applied positionally.
	ColumnMapping []string `yaml:"columnMapping"`
	// AliasMap renames header columns to target columns.
	AliasMap map[string]string `yaml:"aliasMap"`
	// HashFields lists record keys whose values are replaced by a one-way hash.
	HashFields []string `yaml:"hashFields"`
	// Defaults supplies values for columns the file does not provide.
	Defaults map[string]interface{} `yaml:"defaults"`
	// SkipPrefix marks header columns to exclude from insertion entirely.
	SkipPrefix string `yaml:"skipPrefix"`
	// TimestampPolicy stamps created_at/updated_at on every row. When
	// disabled both columns are set to an explicit NULL instead.
	TimestampPolicy bool `yaml:"timestampPolicy"`
	// RowOffset is the count of leading data rows to discard after the header.
	RowOffset int `yaml:"rowOffset"`
	// ChunkSize bounds the number of records per insert statement.
	ChunkSize int `yaml:"chunkSize"`
}

// SystemConfig holds process-level settings.
type SystemConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR, FATAL.
	Level string `yaml:"level"`
}

// MigrationConfig controls the optional pre-seed schema migration.
type MigrationConfig struct {
	// Enabled runs migrations before the seed when true.
	Enabled bool `yaml:"enabled"`
	// Dir is the local directory containing golang-migrate scripts.
	Dir string `yaml:"dir"`
}

// RejectConfig controls the optional rejected-row archive.
type RejectConfig struct {
	// Enabled archives rejected rows when true.
	Enabled bool `yaml:"enabled"`
	// Path is the parquet file the archive is written to.
	Path string `yaml:"path"`
	// Compression is the parquet compression codec (SNAPPY, GZIP or NONE).
	Compression string `yaml:"compression"`
}

// MetricsConfig controls the metrics recorder.
type MetricsConfig struct {
	// Enabled selects the Prometheus recorder over the no-op recorder.
	Enabled bool `yaml:"enabled"`
}

// NewConfig returns a Config populated with the documented defaults.
// Loading merges the YAML document and environment overrides on top.
func NewConfig() *Config {
	return &Config{
		Tanemaki: TanemakiConfig{
			Seed: SeedConfig{
				Truncate:        true,
				HasHeader:       true,
				Delimiter:       ";",
				HashFields:      []string{"password"},
				SkipPrefix:      "%",
				TimestampPolicy: true,
				RowOffset:       0,
				ChunkSize:       50,
			},
			System: SystemConfig{
				Logging: LoggingConfig{Level: "INFO"},
			},
			Reject: RejectConfig{
				Compression: "SNAPPY",
			},
		},
	}
}
