package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kurasimap/KurasiMap/internal/pkg/access"
	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
	"github.com/kurasimap/KurasiMap/internal/pkg/identity"
	"github.com/kurasimap/KurasiMap/internal/pkg/session"
	"github.com/kurasimap/KurasiMap/internal/pkg/statistics"
)

// Deps carries the constructed services into route registration. Everything
// is injected; the router owns no state of its own.
type Deps struct {
	Provider *identity.Client
	Gateway  *gateway.Gateway
	Policy   *access.Policy
	Resolver *session.Resolver
	Stats    *statistics.Service
}

type Router interface {
	InstallRouter(app *fiber.App, deps Deps)
}

func InstallRouter(app *fiber.App, deps Deps) {
	setup(app, deps, NewApiRouter())
}

func setup(app *fiber.App, deps Deps, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app, deps)
	}
}
