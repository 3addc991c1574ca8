package utils

import "github.com/gofiber/fiber/v2"

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// ResponseErrorWithData is for refusals the client must render, e.g. a wizard
// sent back to the step that failed.
func ResponseErrorWithData(ctx *fiber.Ctx, status int, msg string, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
		"data":  data,
	})
}

// create a generic response function for success
func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}
