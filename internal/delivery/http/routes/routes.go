package routes

import (
	"talentmatch/internal/delivery/http/handler"
	v1 "talentmatch/internal/delivery/http/routes/v1"
	"talentmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	wsh    *ws.Handler
	v1     v1.Deps
}

func NewRegistry(health *handler.HealthHandler, wsh *ws.Handler, deps v1.Deps) *Registry {
	return &Registry{health: health, wsh: wsh, v1: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	if r.wsh != nil {
		app.Get("/ws/matches", r.wsh.HandleMatchesWS)
	}

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.v1)
}
