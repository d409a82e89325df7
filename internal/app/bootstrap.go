package app

import (
	"fmt"
	"strings"

	"talentmatch/internal/delivery/http/handler"
	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/delivery/http/routes"
	v1 "talentmatch/internal/delivery/http/routes/v1"
	"talentmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
	Hub   *ws.Hub
}

// New assembles the fiber app from an already-wired container. The
// websocket hub is returned unstarted; the caller runs it.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	f.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())

	hub := ws.NewHub(c.Logger)
	ws.SetDefaultHub(hub)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Redis),
		ws.NewHandler(hub, c.Logger),
		v1.Deps{
			Auth:   handler.NewAuthHandler(c.AuthUC),
			Skills: handler.NewSkillHandler(c.SkillUC),
			Offers: handler.NewOfferHandler(c.ParseUC, c.MatchUC),
			AuthMW: middleware.NewAuthMiddleware(c.JWT),
		},
	)
	registry.Register(f)

	return &App{Fiber: f, Hub: hub}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
