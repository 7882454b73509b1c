package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/dojolog/dojolog-server/internal/api"
	"github.com/dojolog/dojolog-server/internal/config"
	"github.com/dojolog/dojolog-server/internal/logger"
	"github.com/dojolog/dojolog-server/internal/service"
	"github.com/dojolog/dojolog-server/internal/syllabus"
)

// APIServerHandle wraps the API handler so its background resources stop on shutdown.
type APIServerHandle struct {
	*api.Server
}

// Shutdown implements do.Shutdownable.
func (h *APIServerHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideAPIServer provides the HTTP API handler with every service wired in.
func ProvideAPIServer(i do.Injector) (*APIServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	db := do.MustInvoke[*DatabaseHandle](i)
	sessions := do.MustInvoke[*SessionStoreHandle](i)

	services := &api.Services{
		Auth:         do.MustInvoke[*service.AuthService](i),
		Forms:        do.MustInvoke[*service.FormService](i),
		Ordering:     do.MustInvoke[*service.OrderingIndex](i),
		Availability: do.MustInvoke[*service.AvailabilityResolver](i),
		Progress:     do.MustInvoke[*service.ProgressService](i),
		Pages:        do.MustInvoke[*service.PageService](i),
		Syllabus:     do.MustInvoke[*syllabus.Syllabus](i),
	}

	opts := api.Options{
		CORSOrigins:   cfg.Server.CORSOrigins,
		SecureCookies: cfg.Server.SecureCookies,
		AuthRateLimit: cfg.Auth.RateLimit,
		AccessLog:     !cfg.App.IsProduction(),
		HealthChecks: []api.HealthCheck{
			{Name: "database", Check: db.Ping},
			{Name: "sessions", Check: func(context.Context) error { return sessions.Ping() }},
		},
	}

	return &APIServerHandle{Server: api.NewServer(services, opts, log.Component("api"))}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	handler := do.MustInvoke[*APIServerHandle](i)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
