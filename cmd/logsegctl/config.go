package main

import (
	"github.com/ongniud/logseg/internal/config"
)

// resolveConfig loads the config file, if any, then applies any
// command-line flag overrides on top of it.
func resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if blockSize != 0 {
		cfg.BlockSize = blockSize
	}
	return cfg, nil
}
