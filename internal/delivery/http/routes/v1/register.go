package v1

import (
	"talentmatch/internal/delivery/http/handler"
	"talentmatch/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Deps are the prebuilt handlers the v1 API mounts; the app container
// owns construction so routing stays declarative.
type Deps struct {
	Auth   *handler.AuthHandler
	Skills *handler.SkillHandler
	Offers *handler.OfferHandler
	AuthMW *middleware.AuthMiddleware
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	d.Auth.RegisterRoutes(r.Group("/auth"))
	d.Skills.RegisterRoutes(r.Group("/skills"))

	protected := r.Group("", d.AuthMW.Middleware())
	d.Skills.RegisterAdminRoutes(protected.Group("/skills"))
	d.Offers.RegisterRoutes(protected.Group("/offers"))
}
