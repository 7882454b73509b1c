package api

import (
	"github.com/dojolog/dojolog-server/internal/service"
	"github.com/dojolog/dojolog-server/internal/syllabus"
)

// Services groups the business logic used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth         *service.AuthService
	Forms        *service.FormService
	Ordering     *service.OrderingIndex
	Availability *service.AvailabilityResolver
	Progress     *service.ProgressService
	Pages        *service.PageService // add-form screen payload
	Syllabus     *syllabus.Syllabus
}
