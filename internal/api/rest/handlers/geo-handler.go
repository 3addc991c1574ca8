package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/dteaa/membership_service/internal/geo"
	"github.com/dteaa/membership_service/internal/helper/utils"
)

type GeoHandler struct {
	resolver *geo.Resolver
}

func NewGeoHandler(resolver *geo.Resolver) *GeoHandler {
	return &GeoHandler{resolver: resolver}
}

func (h *GeoHandler) SetupRoutes(router fiber.Router) {
	g := router.Group("/geo")
	g.Get("/countries", h.Countries)
	g.Get("/countries/:country/states", h.States)
	g.Get("/countries/:country/states/:state/cities", h.Cities)
}

func (h *GeoHandler) Countries(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, h.resolver.Countries())
}

// States and Cities answer an empty list for unknown parents.
func (h *GeoHandler) States(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, nonNil(h.resolver.States(param(ctx, "country"))))
}

func (h *GeoHandler) Cities(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, nonNil(h.resolver.Cities(param(ctx, "country"), param(ctx, "state"))))
}

// param returns a URL-decoded route parameter ("Tamil%20Nadu" -> "Tamil Nadu").
func param(ctx *fiber.Ctx, key string) string {
	v, err := url.PathUnescape(ctx.Params(key))
	if err != nil {
		return ctx.Params(key)
	}
	return v
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
