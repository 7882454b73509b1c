// Package providers contains dependency injection providers for the dojolog server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/dojolog/dojolog-server/internal/config"
	"github.com/dojolog/dojolog-server/internal/logger"
)

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting dojolog server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"syllabus", cfg.Syllabus.Path,
	)

	return log, nil
}
