// Package config loads the merklestream command configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/forestrie/go-merklestream/nodehash"
)

var (
	ErrInvalidChunkSize   = errors.New("chunk size must be greater than zero")
	ErrUnknownHashScheme  = errors.New("unknown hash scheme")
	ErrUnknownStoreDriver = errors.New("unknown store driver")
	ErrStorePathRequired  = errors.New("the sqlite store requires a path")
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds the complete command configuration.
type Config struct {
	// ChunkSize is the number of bytes of input in each block. The last block
	// of an input may be shorter.
	ChunkSize int `toml:"chunk_size"`

	// Hash names the node hash scheme, see nodehash.Names
	Hash string `toml:"hash"`

	LogLevel string `toml:"log_level"`

	Store StoreConfig `toml:"store"`

	Checkpoint CheckpointConfig `toml:"checkpoint"`
}

type StoreConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// CheckpointConfig enables signing the stream state once all input is read.
// The signing key is generated for each run and only its public part is
// printed, so these checkpoints are for demonstration and testing.
type CheckpointConfig struct {
	Enabled bool   `toml:"enabled"`
	Issuer  string `toml:"issuer"`
	Subject string `toml:"subject"`
}

func DefaultConfig() *Config {
	return &Config{
		ChunkSize: 64 * 1024,
		Hash:      nodehash.SchemeBLAKE2b,
		LogLevel:  "INFO",
		Store: StoreConfig{
			Driver: DriverMemory,
		},
		Checkpoint: CheckpointConfig{
			Issuer:  "merklestream",
			Subject: "merklestream",
		},
	}
}

// Load reads configuration from path. An empty path, or a path that does not
// exist, gives the default configuration. Environment overrides are applied
// last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("decode TOML: %w", err)
			}
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies MERKLESTREAM_ prefixed environment variables.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("MERKLESTREAM_CHUNK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MERKLESTREAM_CHUNK_SIZE: %w", err)
		}
		c.ChunkSize = n
	}
	if v := os.Getenv("MERKLESTREAM_HASH"); v != "" {
		c.Hash = v
	}
	if v := os.Getenv("MERKLESTREAM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MERKLESTREAM_STORE_DRIVER"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("MERKLESTREAM_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChunkSize, c.ChunkSize)
	}
	if _, err := nodehash.ByName(c.Hash); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownHashScheme, c.Hash)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return ErrStorePathRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.Store.Driver)
	}
	return nil
}
