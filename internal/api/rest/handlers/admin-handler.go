package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dteaa/membership_service/internal/api/rest/middleware"
	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/helper"
	"github.com/dteaa/membership_service/internal/helper/utils"
	"github.com/dteaa/membership_service/internal/services"
)

type AdminHandler struct {
	svc  services.MembershipService
	auth helper.Auth
}

func NewAdminHandler(svc services.MembershipService, auth helper.Auth) *AdminHandler {
	return &AdminHandler{svc: svc, auth: auth}
}

func (h *AdminHandler) SetupRoutes(router fiber.Router) {
	admin := router.Group("/admin", middleware.AdminOnly(h.svc))
	admin.Get("/profiles/pending", h.ListPending)
	admin.Post("/profiles/:userID/verify", h.Verify)
	admin.Post("/profiles/:userID/reject", h.Reject)
	admin.Get("/profiles/:userID/reviews", h.Reviews)
}

func (h *AdminHandler) ListPending(ctx *fiber.Ctx) error {
	rows, err := h.svc.ListPending(ctx.UserContext(), ctx.QueryInt("limit", 0), ctx.QueryInt("offset", 0))
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, rows)
}

func (h *AdminHandler) Verify(ctx *fiber.Ctx) error {
	admin, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err := h.svc.VerifyProfile(ctx.UserContext(), admin.UserID, ctx.Params("userID")); err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Profile verified")
}

func (h *AdminHandler) Reject(ctx *fiber.Ctx) error {
	admin, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var body dto.RejectProfileRequest
	if err := ctx.BodyParser(&body); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "comments are required")
	}
	if err := h.svc.RejectProfile(ctx.UserContext(), admin.UserID, ctx.Params("userID"), body.Comments); err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Profile rejected")
}

func (h *AdminHandler) Reviews(ctx *fiber.Ctx) error {
	logs, err := h.svc.ListReviews(ctx.UserContext(), ctx.Params("userID"))
	if err != nil {
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, logs)
}
