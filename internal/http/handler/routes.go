package handler

import (
	"github.com/gofiber/fiber/v2"

	"userregistry/internal/http/middleware"
	"userregistry/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, store Pinger, svc service.UserService) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	app.Post("/users", CreateUser(svc))
	app.Get("/users", middleware.CacheControl(listCacheMaxAge), ListUsers(svc))
	app.Get("/users/:ssn", GetUser(svc))
}
