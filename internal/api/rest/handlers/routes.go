package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dteaa/membership_service/internal/api/rest/middleware"
	"github.com/dteaa/membership_service/internal/geo"
	"github.com/dteaa/membership_service/internal/helper"
	"github.com/dteaa/membership_service/internal/services"
)

// SetupRoutes mounts the public geo lookups and the authenticated member and admin routes under /api.
func SetupRoutes(app *fiber.App, svc services.MembershipService, auth helper.Auth, resolver *geo.Resolver) {
	api := app.Group("/api")

	NewGeoHandler(resolver).SetupRoutes(api)

	secured := api.Group("", middleware.AuthMiddleware(auth))
	NewWizardHandler(svc, auth).SetupRoutes(secured)
	NewProfileHandler(svc, auth).SetupRoutes(secured)
	NewAdminHandler(svc, auth).SetupRoutes(secured)
}
