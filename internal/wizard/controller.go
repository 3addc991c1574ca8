package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dteaa/membership_service/internal/logger"
)

var (
	ErrStepOutOfRange     = errors.New("step out of range")
	ErrNotAtLastStep      = errors.New("submit is only allowed from the last step")
	ErrReceiptRequired    = errors.New("payment receipt is required")
	ErrPassOutYearMissing = errors.New("pass out year is missing")
	ErrStepInvalid        = errors.New("a previous step has invalid fields")
)

const ReceiptRequiredMessage = "A payment receipt is required to register."

// Session is the persisted position of one user in one flow.
type Session struct {
	UserID string     `json:"userId"`
	Mode   Mode       `json:"mode"`
	Step   int        `json:"step"`
	State  *FormState `json:"state"`
	Errors Errors     `json:"errors"`
}

func NewSession(userID string, mode Mode) (*Session, error) {
	flow, err := FlowFor(mode)
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID: userID,
		Mode:   mode,
		Step:   flow.First(),
		State:  NewFormState(),
		Errors: Errors{},
	}, nil
}

// DraftSaver persists a recovery snapshot of the state on step advance.
type DraftSaver interface {
	SaveDraft(ctx context.Context, mode Mode, userID string, state *FormState) error
}

// Controller drives a Session through its Flow. Not safe for concurrent use; one
// controller serves one request.
type Controller struct {
	session   *Session
	flow      Flow
	validator *Validator
	drafts    DraftSaver
	log       logger.Logger
}

func NewController(session *Session, validator *Validator, drafts DraftSaver, log logger.Logger) (*Controller, error) {
	flow, err := FlowFor(session.Mode)
	if err != nil {
		return nil, err
	}
	if session.State == nil {
		session.State = NewFormState()
	}
	session.State.Normalize()
	if session.Errors == nil {
		session.Errors = Errors{}
	}
	session.Step = flow.clamp(session.Step)
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Controller{
		session:   session,
		flow:      flow,
		validator: validator,
		drafts:    drafts,
		log:       log,
	}, nil
}

func (c *Controller) Session() *Session { return c.session }
func (c *Controller) Flow() Flow        { return c.flow }
func (c *Controller) State() *FormState { return c.session.State }
func (c *Controller) Errors() Errors    { return c.session.Errors }
func (c *Controller) Step() int         { return c.session.Step }

func (c *Controller) CurrentStep() Step {
	step, _ := c.flow.Step(c.session.Step)
	return step
}

// SetField updates one field and refreshes its error.
func (c *Controller) SetField(f FieldPath, value string) error {
	state := c.session.State
	if err := state.Set(f, value); err != nil {
		return err
	}

	switch f {
	case ContactSameAsPresent:
		for p := PermanentCity; p <= PermanentPincode; p++ {
			c.refresh(p)
		}
	case PresentCountry, PresentState, PermanentCountry, PermanentState:
		c.refresh(f)
		// dependants cleared by the cascade keep an error only if they already had one
		base := PresentCity
		if isPermanent(f) {
			base = PermanentCity
		}
		for p := base; p < f; p++ {
			if _, had := c.session.Errors[p]; had {
				c.refresh(p)
			}
		}
	default:
		c.refresh(f)
	}
	return nil
}

func (c *Controller) refresh(f FieldPath) {
	msg := c.validator.Validate(f, c.session.State.Get(f), c.session.State)
	if msg == "" {
		delete(c.session.Errors, f)
		return
	}
	c.session.Errors[f] = msg
}

// Next validates the current step and advances when it is clean.
func (c *Controller) Next(ctx context.Context) bool {
	step := c.CurrentStep()
	if step.Validates {
		errs := c.validator.ValidateFields(step.Fields, c.session.State)
		if errs.HasAny() {
			c.session.Errors.Clear(step.Fields)
			c.session.Errors.Merge(errs)
			c.log.Debug("step blocked", map[string]interface{}{
				"user_id": c.session.UserID,
				"mode":    string(c.session.Mode),
				"step":    step.Name,
				"errors":  len(errs),
			})
			return false
		}
		c.session.Errors.Clear(step.Fields)
	}

	c.saveDraft(ctx)
	c.session.Step = c.flow.clamp(c.session.Step + 1)
	return true
}

func (c *Controller) saveDraft(ctx context.Context) {
	if c.drafts == nil {
		return
	}
	if err := c.drafts.SaveDraft(ctx, c.session.Mode, c.session.UserID, c.session.State); err != nil {
		c.log.Warn("draft save failed", map[string]interface{}{
			"user_id": c.session.UserID,
			"mode":    string(c.session.Mode),
			"error":   err,
		})
	}
}

func (c *Controller) Previous() {
	c.session.Step = c.flow.clamp(c.session.Step - 1)
}

func (c *Controller) JumpTo(step int) error {
	if _, ok := c.flow.Step(step); !ok {
		return fmt.Errorf("%w: %d", ErrStepOutOfRange, step)
	}
	c.session.Step = step
	return nil
}

// PrepareSubmit is the terminal gate. On refusal no collaborator has been called.
func (c *Controller) PrepareSubmit() error {
	if c.session.Step != c.flow.Last() {
		return ErrNotAtLastStep
	}

	state := c.session.State
	if c.flow.RequiresReceipt {
		if state.Payment.Receipt.Empty() {
			c.session.Errors[PaymentReceipt] = ReceiptRequiredMessage
			return ErrReceiptRequired
		}
		delete(c.session.Errors, PaymentReceipt)
	}

	if strings.TrimSpace(state.Personal.PassOutYear) == "" {
		c.session.Step = c.flow.First()
		c.session.Errors[PersonalPassOutYear] = c.validator.Validate(PersonalPassOutYear, "", state)
		return ErrPassOutYearMissing
	}

	for _, step := range c.flow.Steps {
		if !step.Validates {
			continue
		}
		errs := c.validator.ValidateFields(step.Fields, state)
		if errs.HasAny() {
			c.session.Errors.Clear(step.Fields)
			c.session.Errors.Merge(errs)
			c.session.Step = step.Index
			return fmt.Errorf("%w: %s", ErrStepInvalid, step.Name)
		}
	}
	return nil
}
