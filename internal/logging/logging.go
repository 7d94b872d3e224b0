// Package logging builds the zap loggers used across this module.
package logging

import "go.uber.org/zap"

// New returns a structured logger. In development mode it writes
// human-readable, color-free console output at Debug level and above;
// otherwise it writes JSON at Info level and above, suited for
// collection by a log shipper.
func New(development bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything, used as the default
// when a caller doesn't supply one.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
