package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ajna/ajna-hub/internal/config"
)

// New builds the process logger: JSON output in production, console otherwise.
// An empty level keeps zap's default for the chosen mode.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zcfg.Level = level
	}

	return zcfg.Build()
}
