// Package config loads logsegctl's on-disk configuration via viper, so a
// topic directory and block size can be set once instead of repeated on
// every command-line invocation.
package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the settings logsegctl needs to open and operate a topic.
type Config struct {
	DataDir      string        `mapstructure:"data_dir"`
	BlockSize    uint64        `mapstructure:"block_size"`
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

const (
	defaultBlockSize    = 512
	defaultSyncInterval = time.Second
	minBlockSize        = 10
)

// Load reads configuration from path (any format viper supports: YAML,
// TOML, JSON) and fills in defaults for anything left unset. path may be
// empty, in which case only defaults and environment overrides apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LOGSEG")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "./data")
	v.SetDefault("block_size", defaultBlockSize)
	v.SetDefault("sync_interval", defaultSyncInterval)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "config: reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: decoding config")
	}

	if cfg.BlockSize < minBlockSize {
		return nil, errors.Errorf("config: block_size must be at least %d, got %d", minBlockSize, cfg.BlockSize)
	}

	return &cfg, nil
}
