package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/dojolog/dojolog-server/internal/config"
	"github.com/dojolog/dojolog-server/internal/logger"
	"github.com/dojolog/dojolog-server/internal/store"
	"github.com/dojolog/dojolog-server/internal/store/sqlite"
	"github.com/dojolog/dojolog-server/internal/syllabus"
)

// DatabaseHandle wraps the SQLite form and user store with shutdown capability.
type DatabaseHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *DatabaseHandle) Shutdown() error {
	return h.Close()
}

// ProvideDatabase opens the SQLite database and applies pending migrations.
func ProvideDatabase(i do.Injector) (*DatabaseHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := cfg.Data.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Component("sqlite"))
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &DatabaseHandle{Store: db}, nil
}

// SessionStoreHandle wraps the Badger session store with shutdown capability.
type SessionStoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *SessionStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideSessionStore opens the Badger session store.
func ProvideSessionStore(i do.Injector) (*SessionStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	sessions, err := store.New(cfg.Data.SessionsPath(), log.Component("sessions"))
	if err != nil {
		return nil, err
	}
	return &SessionStoreHandle{Store: sessions}, nil
}

// ProvideSyllabus loads the configured syllabus, or the built-in one when no path is set.
func ProvideSyllabus(i do.Injector) (*syllabus.Syllabus, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	syl, err := syllabus.Load(cfg.Syllabus.Path)
	if err != nil {
		return nil, err
	}

	source := cfg.Syllabus.Path
	if source == "" {
		source = "built-in"
	}
	log.Info("Syllabus loaded", "source", source, "levels", len(syl.Levels()))

	return syl, nil
}
