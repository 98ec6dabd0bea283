package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "merklestream.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
chunk_size = 1024
hash = "sha256"

[store]
driver = "sqlite"
path = "/tmp/stream.db"

[checkpoint]
enabled = true
issuer = "example.org"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.ChunkSize)
	assert.Equal(t, "sha256", cfg.Hash)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/stream.db", cfg.Store.Path)
	assert.True(t, cfg.Checkpoint.Enabled)
	assert.Equal(t, "example.org", cfg.Checkpoint.Issuer)
	// untouched keys keep their defaults
	assert.Equal(t, "merklestream", cfg.Checkpoint.Subject)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadFile(t *testing.T) {
	_, err := Load(writeConfig(t, "chunk_size = ["))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MERKLESTREAM_CHUNK_SIZE", "7")
	t.Setenv("MERKLESTREAM_HASH", "sha256-typed")

	cfg, err := Load(writeConfig(t, "chunk_size = 1024\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.ChunkSize)
	assert.Equal(t, "sha256-typed", cfg.Hash)

	t.Setenv("MERKLESTREAM_CHUNK_SIZE", "seven")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{"defaults", func(c *Config) {}, nil},
		{"zero chunk", func(c *Config) { c.ChunkSize = 0 }, ErrInvalidChunkSize},
		{"bad hash", func(c *Config) { c.Hash = "md5" }, ErrUnknownHashScheme},
		{"bad driver", func(c *Config) { c.Store.Driver = "postgres" }, ErrUnknownStoreDriver},
		{"sqlite without path", func(c *Config) { c.Store.Driver = DriverSQLite }, ErrStorePathRequired},
		{"sqlite", func(c *Config) { c.Store.Driver = DriverSQLite; c.Store.Path = "x.db" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
