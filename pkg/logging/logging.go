// Package logging builds the process logger. Every other package takes an
// injected *zap.Logger and scopes it with Named; only main constructs one.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
)

// New builds the process logger for the given environment. "local" and
// "development" get human-readable console output, anything else structured
// production JSON. Level accepts the zap names (debug, info, warn, error);
// empty keeps the config's default.
func New(env, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" || env == "development" {
		cfg = zap.NewDevelopmentConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, apperrors.Wrapf(err, "parse log level %q", level)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}
