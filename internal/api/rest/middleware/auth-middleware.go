package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dteaa/membership_service/internal/helper"
	"github.com/dteaa/membership_service/internal/helper/utils"
	"github.com/dteaa/membership_service/internal/services"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// cookie first, then the Authorization header
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
		}

		user, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
		}

		ctx.Locals("userID", user.UserID)
		ctx.Locals("user", user)
		return ctx.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly(svc services.MembershipService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID, ok := ctx.Locals("userID").(string)
		if !ok || userID == "" {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
		}

		isAdmin, err := svc.IsAdmin(ctx.UserContext(), userID)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not check admin rights")
		}
		if !isAdmin {
			return utils.ResponseError(ctx, fiber.StatusForbidden, "admin only")
		}
		return ctx.Next()
	}
}
