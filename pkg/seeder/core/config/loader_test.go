// Package config_test provides unit tests for configuration loading.
package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	config "github.com/tigerroll/tanemaki/pkg/seeder/core/config"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
)

func TestLoadConfig_DefaultsApply(t *testing.T) {
	yaml := []byte(`
tanemaki:
  seed:
    source: data/users.csv
`)
	cfg, err := config.LoadConfig("", yaml)
	assert.NoError(t, err)

	seed := cfg.Tanemaki.Seed
	assert.Equal(t, "data/users.csv", seed.Source)
	assert.True(t, seed.Truncate)
	assert.True(t, seed.HasHeader)
	assert.Equal(t, ";", seed.Delimiter)
	assert.Equal(t, []string{"password"}, seed.HashFields)
	assert.Equal(t, "%", seed.SkipPrefix)
	assert.True(t, seed.TimestampPolicy)
	assert.Equal(t, 0, seed.RowOffset)
	assert.Equal(t, 50, seed.ChunkSize)
	assert.Equal(t, "INFO", cfg.Tanemaki.System.Logging.Level)
	assert.Equal(t, "SNAPPY", cfg.Tanemaki.Reject.Compression)
}

func TestLoadConfig_ExplicitFalseOverridesDefault(t *testing.T) {
	yaml := []byte(`
tanemaki:
  seed:
    source: data/users.csv
    truncate: false
    timestampPolicy: false
`)
	cfg, err := config.LoadConfig("", yaml)
	assert.NoError(t, err)
	assert.False(t, cfg.Tanemaki.Seed.Truncate)
	assert.False(t, cfg.Tanemaki.Seed.TimestampPolicy)
	// Untouched defaults survive the merge.
	assert.True(t, cfg.Tanemaki.Seed.HasHeader)
}

func TestLoadConfig_FullSeedSection(t *testing.T) {
	yaml := []byte(`
tanemaki:
  seed:
    source: data/members.txt
    table: members
    delimiter: "|"
    aliasMap:
      mail: email
    hashFields:
      - password
      - token
    defaults:
      role: member
    skipPrefix: "#"
    rowOffset: 2
    chunkSize: 100
`)
	cfg, err := config.LoadConfig("", yaml)
	assert.NoError(t, err)

	seed := cfg.Tanemaki.Seed
	assert.Equal(t, "members", seed.Table)
	assert.Equal(t, "|", seed.Delimiter)
	assert.Equal(t, map[string]string{"mail": "email"}, seed.AliasMap)
	assert.Equal(t, []string{"password", "token"}, seed.HashFields)
	assert.Equal(t, "member", seed.Defaults["role"])
	assert.Equal(t, "#", seed.SkipPrefix)
	assert.Equal(t, 2, seed.RowOffset)
	assert.Equal(t, 100, seed.ChunkSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	yaml := []byte(`
tanemaki:
  seed:
    source: data/users.csv
`)
	t.Setenv("TANEMAKI_SOURCE", "other.csv")
	t.Setenv("TANEMAKI_TABLE", "accounts")
	t.Setenv("TANEMAKI_TRUNCATE", "false")
	t.Setenv("TANEMAKI_CHUNK_SIZE", "10")

	cfg, err := config.LoadConfig("", yaml)
	assert.NoError(t, err)
	assert.Equal(t, "other.csv", cfg.Tanemaki.Seed.Source)
	assert.Equal(t, "accounts", cfg.Tanemaki.Seed.Table)
	assert.False(t, cfg.Tanemaki.Seed.Truncate)
	assert.Equal(t, 10, cfg.Tanemaki.Seed.ChunkSize)
}

func TestLoadConfig_InvalidChunkSize(t *testing.T) {
	yaml := []byte(`
tanemaki:
  seed:
    source: data/users.csv
    chunkSize: 0
`)
	_, err := config.LoadConfig("", yaml)
	assert.Error(t, err)
	assert.True(t, exception.IsConfigError(err))
}

func TestLoadConfig_NegativeRowOffset(t *testing.T) {
	yaml := []byte(`
tanemaki:
  seed:
    source: data/users.csv
    rowOffset: -1
`)
	_, err := config.LoadConfig("", yaml)
	assert.Error(t, err)
	assert.True(t, exception.IsConfigError(err))
}

func TestLoadConfig_HeaderlessRequiresColumnMapping(t *testing.T) {
	yaml := []byte(`
tanemaki:
  seed:
    source: data/users.csv
    hasHeader: false
`)
	_, err := config.LoadConfig("", yaml)
	assert.Error(t, err)
	assert.True(t, exception.IsConfigError(err))
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	_, err := config.LoadConfig("", []byte("tanemaki: [broken"))
	assert.Error(t, err)
	assert.True(t, exception.IsConfigError(err))
}

func TestDeriveTable_ExplicitNameWins(t *testing.T) {
	seed := config.SeedConfig{Source: "data/users.csv", Table: "accounts"}
	assert.Equal(t, "accounts", config.DeriveTable(seed))
}

func TestDeriveTable_FallsBackToSourceBaseName(t *testing.T) {
	seed := config.SeedConfig{Source: "data/users.csv"}
	assert.Equal(t, "users", config.DeriveTable(seed))

	seed = config.SeedConfig{Source: "/abs/path/members.txt"}
	assert.Equal(t, "members", config.DeriveTable(seed))

	seed = config.SeedConfig{Source: "plain"}
	assert.Equal(t, "plain", config.DeriveTable(seed))
}
