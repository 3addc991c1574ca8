package handlers

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/helper"
	"github.com/dteaa/membership_service/internal/helper/utils"
	"github.com/dteaa/membership_service/internal/services"
	"github.com/dteaa/membership_service/internal/wizard"
	putils "github.com/dteaa/membership_service/pkg/utils"
)

type WizardHandler struct {
	svc  services.MembershipService
	auth helper.Auth
}

func NewWizardHandler(svc services.MembershipService, auth helper.Auth) *WizardHandler {
	return &WizardHandler{svc: svc, auth: auth}
}

func (h *WizardHandler) SetupRoutes(router fiber.Router) {
	wz := router.Group("/wizard")

	wz.Put("/register/receipt", h.SetReceipt)

	wz.Post("/:mode/start", h.Start)
	wz.Get("/:mode", h.Get)
	wz.Patch("/:mode/field", h.SetField)
	wz.Post("/:mode/next", h.Next)
	wz.Post("/:mode/previous", h.Previous)
	wz.Post("/:mode/jump", h.Jump)

	wz.Post("/:mode/experience/employee", h.AddEmployee)
	wz.Put("/:mode/experience/employee/:id", h.UpdateEmployee)
	wz.Delete("/:mode/experience/employee/:id", h.RemoveEmployee)
	wz.Post("/:mode/experience/entrepreneur", h.AddEntrepreneur)
	wz.Put("/:mode/experience/entrepreneur/:id", h.UpdateEntrepreneur)
	wz.Delete("/:mode/experience/entrepreneur/:id", h.RemoveEntrepreneur)
	wz.Put("/:mode/open-to-work", h.SetOpenToWork)

	wz.Put("/:mode/photo", h.SetPhoto)
	wz.Post("/:mode/submit", h.Submit)
}

// wizardResponse renders the session without attachment bytes.
func wizardResponse(s *wizard.Session, advanced *bool) dto.WizardResponse {
	flow, _ := wizard.FlowFor(s.Mode)
	resp := dto.WizardResponse{
		Mode:     s.Mode,
		Step:     s.Step,
		Errors:   s.Errors,
		Advanced: advanced,
	}
	for _, st := range flow.Steps {
		resp.Steps = append(resp.Steps, dto.WizardStepInfo{Index: st.Index, Name: st.Name})
		if st.Index == s.Step {
			resp.StepName = st.Name
		}
	}
	if s.State != nil {
		view := *s.State
		view.Personal.ProfilePhoto = stripData(view.Personal.ProfilePhoto)
		view.Payment.Receipt = stripData(view.Payment.Receipt)
		resp.State = &view
	}
	return resp
}

func stripData(a *wizard.Attachment) *wizard.Attachment {
	if a == nil {
		return nil
	}
	return &wizard.Attachment{Filename: a.Filename, ContentType: a.ContentType}
}

// request resolves the caller and the :mode param.
func (h *WizardHandler) request(ctx *fiber.Ctx) (dto.CurrentSession, wizard.Mode, error) {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return dto.CurrentSession{}, "", err
	}
	mode, err := wizard.ParseMode(ctx.Params("mode"))
	if err != nil {
		return dto.CurrentSession{}, "", err
	}
	return user, mode, nil
}

// reply sends the session back; a refused operation still carries the session
// so the client can render field errors.
func reply(ctx *fiber.Ctx, session *wizard.Session, err error) error {
	if err != nil {
		if session != nil {
			return utils.ResponseErrorWithData(ctx, statusFor(err), err.Error(), wizardResponse(session, nil))
		}
		return respondError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, wizardResponse(session, nil))
}

func (h *WizardHandler) Start(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	session, err := h.svc.StartWizard(ctx.UserContext(), user, mode)
	return reply(ctx, session, err)
}

func (h *WizardHandler) Get(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	session, err := h.svc.GetWizard(ctx.UserContext(), user, mode)
	return reply(ctx, session, err)
}

func (h *WizardHandler) SetField(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var body dto.SetFieldRequest
	if err := ctx.BodyParser(&body); err != nil || body.Field == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "field is required")
	}
	session, err := h.svc.SetField(ctx.UserContext(), user, mode, body.Field, body.Value)
	return reply(ctx, session, err)
}

func (h *WizardHandler) Next(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	session, advanced, err := h.svc.Next(ctx.UserContext(), user, mode)
	if err != nil {
		return reply(ctx, session, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, wizardResponse(session, &advanced))
}

func (h *WizardHandler) Previous(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	session, err := h.svc.Previous(ctx.UserContext(), user, mode)
	return reply(ctx, session, err)
}

func (h *WizardHandler) Jump(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var body dto.JumpRequest
	if err := ctx.BodyParser(&body); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "step is required")
	}
	session, err := h.svc.JumpTo(ctx.UserContext(), user, mode, body.Step)
	return reply(ctx, session, err)
}

func entryID(ctx *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid entry id")
	}
	return id, nil
}

func (h *WizardHandler) AddEmployee(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var entry wizard.EmployeeEntry
	if err := ctx.BodyParser(&entry); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	session, err := h.svc.AddEmployee(ctx.UserContext(), user, mode, entry)
	return reply(ctx, session, err)
}

func (h *WizardHandler) UpdateEmployee(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	id, err := entryID(ctx)
	if err != nil {
		return requestError(ctx, err)
	}
	var entry wizard.EmployeeEntry
	if err := ctx.BodyParser(&entry); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	session, err := h.svc.UpdateEmployee(ctx.UserContext(), user, mode, id, entry)
	return reply(ctx, session, err)
}

func (h *WizardHandler) RemoveEmployee(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	id, err := entryID(ctx)
	if err != nil {
		return requestError(ctx, err)
	}
	session, err := h.svc.RemoveEmployee(ctx.UserContext(), user, mode, id)
	return reply(ctx, session, err)
}

func (h *WizardHandler) AddEntrepreneur(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var entry wizard.EntrepreneurEntry
	if err := ctx.BodyParser(&entry); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	session, err := h.svc.AddEntrepreneur(ctx.UserContext(), user, mode, entry)
	return reply(ctx, session, err)
}

func (h *WizardHandler) UpdateEntrepreneur(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	id, err := entryID(ctx)
	if err != nil {
		return requestError(ctx, err)
	}
	var entry wizard.EntrepreneurEntry
	if err := ctx.BodyParser(&entry); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	session, err := h.svc.UpdateEntrepreneur(ctx.UserContext(), user, mode, id, entry)
	return reply(ctx, session, err)
}

func (h *WizardHandler) RemoveEntrepreneur(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	id, err := entryID(ctx)
	if err != nil {
		return requestError(ctx, err)
	}
	session, err := h.svc.RemoveEntrepreneur(ctx.UserContext(), user, mode, id)
	return reply(ctx, session, err)
}

func (h *WizardHandler) SetOpenToWork(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	var body dto.OpenToWorkRequest
	if err := ctx.BodyParser(&body); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}
	session, err := h.svc.SetOpenToWork(ctx.UserContext(), user, mode, body.IsOpenToWork, body.Details)
	return reply(ctx, session, err)
}

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// readImage pulls the "file" form field, checking extension and size like the upload forms do.
func readImage(ctx *fiber.Ctx, maxBytes int64) (*wizard.Attachment, error) {
	file, err := ctx.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return nil, fiber.NewError(fiber.StatusBadRequest, "only jpg/jpeg/png/webp allowed")
	}
	if file.Size > maxBytes {
		return nil, putils.ErrTooLarge
	}
	data, err := readFormFile(file, maxBytes)
	if err != nil {
		return nil, err
	}
	return &wizard.Attachment{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func readFormFile(file *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "cannot open uploaded file")
	}
	defer f.Close()
	return putils.ReadAllLimit(f, maxBytes)
}

func (h *WizardHandler) SetPhoto(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	photo, err := readImage(ctx, putils.MaxPhotoBytes)
	if err != nil {
		return requestError(ctx, err)
	}
	session, err := h.svc.SetProfilePhoto(ctx.UserContext(), user, mode, photo)
	return reply(ctx, session, err)
}

func (h *WizardHandler) SetReceipt(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	receipt, err := readImage(ctx, putils.MaxReceiptBytes)
	if err != nil {
		return requestError(ctx, err)
	}
	session, err := h.svc.SetReceipt(ctx.UserContext(), user, receipt)
	return reply(ctx, session, err)
}

// requestError renders input errors raised before the service is called.
func requestError(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return utils.ResponseError(ctx, fe.Code, fe.Message)
	}
	return respondError(ctx, err)
}

func (h *WizardHandler) Submit(ctx *fiber.Ctx) error {
	user, mode, err := h.request(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	resp, session, err := h.svc.Submit(ctx.UserContext(), user, mode)
	if err != nil {
		return reply(ctx, session, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}
