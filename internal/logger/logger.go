package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init replaces zap's global logger with one suited to env.
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch env {
	case "production", "staging":
		l, err = zap.NewProduction()
	case "development", "test", "":
		l, err = zap.NewDevelopment()
	default:
		return fmt.Errorf("unknown environment %q", env)
	}
	if err != nil {
		return fmt.Errorf("failed to build zap logger -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
