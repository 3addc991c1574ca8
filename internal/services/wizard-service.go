package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/metrics"
	"github.com/dteaa/membership_service/internal/repository"
	"github.com/dteaa/membership_service/internal/wizard"
)

// StartWizard resumes a live session or opens a new one.
//
// Registration is refused while a pending or verified profile exists; a rejected profile
// is loaded back into the form for resubmission. Otherwise the recovery draft is used when
// one parses. Edit requires a stored profile and always hydrates from it.
func (s *membershipService) StartWizard(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*wizard.Session, error) {
	existing, err := s.findProfile(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	var state *wizard.FormState
	switch mode {
	case wizard.ModeRegister:
		if existing != nil && existing.Status != domain.ProfileStatusRejected {
			return nil, ErrAlreadyRegistered
		}
	case wizard.ModeEdit:
		if existing == nil {
			return nil, ErrNoProfile
		}
	default:
		return nil, wizard.ErrUnknownMode
	}

	if session, err := s.sessions.LoadSession(ctx, mode, user.UserID); err != nil {
		s.log.Warn("session unavailable", map[string]interface{}{"user_id": user.UserID, "error": err})
	} else if session != nil {
		return session, nil
	}

	switch {
	case existing != nil:
		state = FormStateFromProfile(existing)
	default:
		state = s.sessions.LoadDraft(ctx, mode, user.UserID)
	}

	session, err := wizard.NewSession(user.UserID, mode)
	if err != nil {
		return nil, err
	}
	if state != nil {
		session.State = state
	}
	session.State.Prefill(user.Email, user.DisplayName)

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, alert("Could not start the form. Please try again.", err)
	}
	s.log.Info("wizard started", map[string]interface{}{"user_id": user.UserID, "mode": string(mode), "hydrated": state != nil})
	return session, nil
}

func (s *membershipService) GetWizard(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*wizard.Session, error) {
	session, err := s.loadSession(ctx, user, mode)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *membershipService) SetField(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, field, value string) (*wizard.Session, error) {
	path, err := wizard.ParseFieldPath(field)
	if err != nil {
		return nil, err
	}
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		return c.SetField(path, value)
	})
}

func (s *membershipService) Next(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*wizard.Session, bool, error) {
	var advanced bool
	session, err := s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		advanced = c.Next(ctx)
		return nil
	})
	outcome := "blocked"
	if advanced {
		outcome = "advanced"
	}
	metrics.WizardTransitions.WithLabelValues(string(mode), "next", outcome).Inc()
	return session, advanced, err
}

func (s *membershipService) Previous(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*wizard.Session, error) {
	metrics.WizardTransitions.WithLabelValues(string(mode), "previous", "moved").Inc()
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		c.Previous()
		return nil
	})
}

func (s *membershipService) JumpTo(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, step int) (*wizard.Session, error) {
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		return c.JumpTo(step)
	})
}

func (s *membershipService) AddEmployee(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, entry wizard.EmployeeEntry) (*wizard.Session, error) {
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		c.AddEmployee(entry)
		return nil
	})
}

func (s *membershipService) UpdateEmployee(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, id int64, entry wizard.EmployeeEntry) (*wizard.Session, error) {
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		return c.UpdateEmployee(id, entry)
	})
}

func (s *membershipService) RemoveEmployee(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, id int64) (*wizard.Session, error) {
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		return c.RemoveEmployee(id)
	})
}

func (s *membershipService) AddEntrepreneur(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, entry wizard.EntrepreneurEntry) (*wizard.Session, error) {
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		c.AddEntrepreneur(entry)
		return nil
	})
}

func (s *membershipService) UpdateEntrepreneur(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, id int64, entry wizard.EntrepreneurEntry) (*wizard.Session, error) {
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		return c.UpdateEntrepreneur(id, entry)
	})
}

func (s *membershipService) RemoveEntrepreneur(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, id int64) (*wizard.Session, error) {
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		return c.RemoveEntrepreneur(id)
	})
}

func (s *membershipService) SetOpenToWork(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, open bool, details *wizard.OpenToWorkDetails) (*wizard.Session, error) {
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		c.SetOpenToWork(open, details)
		return nil
	})
}

func (s *membershipService) SetProfilePhoto(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, photo *wizard.Attachment) (*wizard.Session, error) {
	return s.withController(ctx, user, mode, func(c *wizard.Controller) error {
		c.SetProfilePhoto(photo)
		return nil
	})
}

func (s *membershipService) SetReceipt(ctx context.Context, user dto.CurrentSession, receipt *wizard.Attachment) (*wizard.Session, error) {
	return s.withController(ctx, user, wizard.ModeRegister, func(c *wizard.Controller) error {
		c.SetReceipt(receipt)
		return nil
	})
}

func (s *membershipService) loadSession(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*wizard.Session, error) {
	if _, err := wizard.FlowFor(mode); err != nil {
		return nil, err
	}
	session, err := s.sessions.LoadSession(ctx, mode, user.UserID)
	if err != nil {
		return nil, alert("Could not load the form. Please try again.", err)
	}
	if session == nil {
		return nil, ErrWizardNotStarted
	}
	return session, nil
}

func (s *membershipService) controllerFor(session *wizard.Session) (*wizard.Controller, error) {
	return wizard.NewController(session, s.validator, s.sessions, s.log)
}

// withController loads the session, applies fn and persists the result. The session is
// saved even when fn fails, since a refused operation may still have attached errors.
func (s *membershipService) withController(ctx context.Context, user dto.CurrentSession, mode wizard.Mode, fn func(c *wizard.Controller) error) (*wizard.Session, error) {
	session, err := s.loadSession(ctx, user, mode)
	if err != nil {
		return nil, err
	}
	c, err := s.controllerFor(session)
	if err != nil {
		return nil, err
	}

	opErr := fn(c)
	if err := s.sessions.SaveSession(ctx, c.Session()); err != nil {
		return nil, alert("Could not save your changes. Please try again.", err)
	}
	return c.Session(), opErr
}

// findProfile returns nil without error when the user has no profile.
func (s *membershipService) findProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, alert("Could not load your profile. Please try again.", fmt.Errorf("find profile: %w", err))
	}
	return profile, nil
}
