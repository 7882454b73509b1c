// Package di provides dependency injection configuration for the dojolog server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/dojolog/dojolog-server/internal/auth"
	"github.com/dojolog/dojolog-server/internal/config"
	"github.com/dojolog/dojolog-server/internal/di/providers"
	"github.com/dojolog/dojolog-server/internal/logger"
	"github.com/dojolog/dojolog-server/internal/service"
	"github.com/dojolog/dojolog-server/internal/syllabus"
)

// NewContainer creates the DI container for cfg with all providers registered.
// Nothing is constructed until it is first invoked.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideDatabase)
	do.Provide(injector, providers.ProvideSessionStore)
	do.Provide(injector, providers.ProvideSyllabus)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideHasher)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideFormService)
	do.Provide(injector, providers.ProvideOrderingIndex)
	do.Provide(injector, providers.ProvideAvailabilityResolver)
	do.Provide(injector, providers.ProvideProgressService)
	do.Provide(injector, providers.ProvidePageService)
	do.Provide(injector, providers.ProvideSeeder)

	// Workers
	do.Provide(injector, providers.ProvideSessionGCJob)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes every server component and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	for _, invoke := range []func(do.Injector) error{
		invokeAs[*logger.Logger],
		invokeAs[providers.AuthKey],
		invokeAs[*providers.DatabaseHandle],
		invokeAs[*providers.SessionStoreHandle],
		invokeAs[*syllabus.Syllabus],
		invokeAs[*auth.TokenService],
		invokeAs[*service.AuthService],
		invokeAs[*service.FormService],
		invokeAs[*service.OrderingIndex],
		invokeAs[*service.AvailabilityResolver],
		invokeAs[*service.ProgressService],
		invokeAs[*service.PageService],
		invokeAs[*providers.SessionGCJob],
		invokeAs[*providers.APIServerHandle],
		invokeAs[*providers.HTTPServerHandle],
	} {
		if err := invoke(injector); err != nil {
			return err
		}
	}
	return nil
}

func invokeAs[T any](i do.Injector) error {
	_, err := do.Invoke[T](i)
	return err
}
