package providers

import (
	"github.com/samber/do/v2"

	"github.com/dojolog/dojolog-server/internal/auth"
	"github.com/dojolog/dojolog-server/internal/config"
	"github.com/dojolog/dojolog-server/internal/logger"
	"github.com/dojolog/dojolog-server/internal/service"
	"github.com/dojolog/dojolog-server/internal/syllabus"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	db := do.MustInvoke[*DatabaseHandle](i)
	sessions := do.MustInvoke[*SessionStoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	hasher := do.MustInvoke[*auth.Hasher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(
		db.Store,
		sessions.Store,
		tokens,
		hasher,
		cfg.Auth.SessionDuration,
		log.Component("auth"),
	), nil
}

// ProvideFormService provides the form record store.
func ProvideFormService(i do.Injector) (*service.FormService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFormService(db.Store, log.Component("forms")), nil
}

// ProvideOrderingIndex provides the ordering index over live forms.
func ProvideOrderingIndex(i do.Injector) (*service.OrderingIndex, error) {
	forms := do.MustInvoke[*service.FormService](i)
	return service.NewOrderingIndex(forms), nil
}

// ProvideAvailabilityResolver provides the candidate name resolver.
func ProvideAvailabilityResolver(i do.Injector) (*service.AvailabilityResolver, error) {
	syl := do.MustInvoke[*syllabus.Syllabus](i)
	forms := do.MustInvoke[*service.FormService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAvailabilityResolver(syl, forms, log.Component("availability")), nil
}

// ProvideProgressService provides the progress chart service.
func ProvideProgressService(i do.Injector) (*service.ProgressService, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProgressService(db.Store, log.Component("progress")), nil
}

// ProvidePageService provides the new-form page assembler.
func ProvidePageService(i do.Injector) (*service.PageService, error) {
	syl := do.MustInvoke[*syllabus.Syllabus](i)
	forms := do.MustInvoke[*service.FormService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPageService(syl, forms, log.Component("pages")), nil
}

// ProvideSeeder provides the demo data seeder.
func ProvideSeeder(i do.Injector) (*service.Seeder, error) {
	db := do.MustInvoke[*DatabaseHandle](i)
	authService := do.MustInvoke[*service.AuthService](i)
	formService := do.MustInvoke[*service.FormService](i)
	syl := do.MustInvoke[*syllabus.Syllabus](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSeeder(db.Store, db.Store, authService, formService, syl, log.Component("seed")), nil
}
