package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dteaa/membership_service/internal/helper"
	"github.com/dteaa/membership_service/internal/helper/utils"
	"github.com/dteaa/membership_service/internal/repository"
	"github.com/dteaa/membership_service/internal/services"
	"github.com/dteaa/membership_service/internal/wizard"
	putils "github.com/dteaa/membership_service/pkg/utils"
)

// statusFor maps service and domain sentinels onto HTTP statuses.
func statusFor(err error) int {
	var alert *services.AlertError
	switch {
	case errors.As(err, &alert), errors.Is(err, services.ErrExternal):
		return fiber.StatusBadGateway
	case errors.Is(err, helper.ErrNoSession), errors.Is(err, helper.ErrInvalidToken), errors.Is(err, helper.ErrMissingToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrWizardNotStarted),
		errors.Is(err, services.ErrNoProfile),
		errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, wizard.ErrEntryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrNotPending),
		errors.Is(err, repository.ErrNotRejected):
		return fiber.StatusConflict
	case errors.Is(err, putils.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, wizard.ErrNotAtLastStep),
		errors.Is(err, wizard.ErrReceiptRequired),
		errors.Is(err, wizard.ErrPassOutYearMissing),
		errors.Is(err, wizard.ErrStepInvalid),
		errors.Is(err, wizard.ErrImmutableField),
		errors.Is(err, services.ErrInvalidImage):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, wizard.ErrUnknownMode),
		errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, wizard.ErrInvalidBool),
		errors.Is(err, wizard.ErrInvalidOption),
		errors.Is(err, wizard.ErrStepOutOfRange),
		errors.Is(err, services.ErrCommentsRequired):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func respondError(ctx *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	return utils.ResponseError(ctx, status, msg)
}
