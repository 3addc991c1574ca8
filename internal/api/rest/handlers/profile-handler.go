package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dteaa/membership_service/internal/helper"
	"github.com/dteaa/membership_service/internal/helper/utils"
	"github.com/dteaa/membership_service/internal/repository"
	"github.com/dteaa/membership_service/internal/services"
)

type ProfileHandler struct {
	svc  services.MembershipService
	auth helper.Auth
}

func NewProfileHandler(svc services.MembershipService, auth helper.Auth) *ProfileHandler {
	return &ProfileHandler{svc: svc, auth: auth}
}

func (h *ProfileHandler) SetupRoutes(router fiber.Router) {
	router.Get("/profile/me", h.Me)
	router.Get("/profile/me/card", h.Card)
	router.Get("/directory", h.Directory)
}

func (h *ProfileHandler) Me(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	resp, err := h.svc.GetMyProfile(ctx.UserContext(), user.UserID)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ProfileHandler) Card(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	card, err := h.svc.GetCard(ctx.UserContext(), user.UserID)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, card)
}

// Directory lists verified members: ?q=&year=&limit=&offset=
func (h *ProfileHandler) Directory(ctx *fiber.Ctx) error {
	filter := repository.DirectoryFilter{
		Query:       strings.TrimSpace(ctx.Query("q")),
		PassOutYear: ctx.QueryInt("year", 0),
		Limit:       ctx.QueryInt("limit", 0),
		Offset:      ctx.QueryInt("offset", 0),
	}
	entries, err := h.svc.Directory(ctx.UserContext(), filter)
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, entries)
}
