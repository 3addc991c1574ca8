package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/metrics"
	"github.com/dteaa/membership_service/internal/repository"
	"github.com/dteaa/membership_service/internal/wizard"
	"github.com/dteaa/membership_service/pkg/utils"
)

const (
	maxAlumniIDAttempts = 5

	msgUploadFailed = "Failed to upload your files. Please try again."
	msgSaveFailed   = "Could not save your registration. Please try again."
	msgUpdateFailed = "Could not save your profile changes. Please try again."
)

type uploadedObject struct {
	bucket string
	path   string
}

// Submit runs the terminal gate and, when it passes, persists the form.
// On success the session and draft are gone; on any refusal or failure the session is
// saved in its current position so the member can retry.
func (s *membershipService) Submit(ctx context.Context, user dto.CurrentSession, mode wizard.Mode) (*dto.SubmitResponse, *wizard.Session, error) {
	start := time.Now()
	defer func() {
		metrics.SubmitDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}()

	session, err := s.loadSession(ctx, user, mode)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.controllerFor(session)
	if err != nil {
		return nil, nil, err
	}

	var resp *dto.SubmitResponse
	if err = c.PrepareSubmit(); err == nil {
		if mode == wizard.ModeRegister {
			resp, err = s.submitRegistration(ctx, user, c)
		} else {
			resp, err = s.submitEdit(ctx, user, c)
		}
	}

	if err != nil {
		metrics.Submissions.WithLabelValues(string(mode), outcomeOf(err)).Inc()
		if saveErr := s.sessions.SaveSession(ctx, c.Session()); saveErr != nil {
			s.log.Warn("session save after failed submit", map[string]interface{}{"user_id": user.UserID, "error": saveErr})
		}
		return nil, c.Session(), err
	}

	metrics.Submissions.WithLabelValues(string(mode), "ok").Inc()
	if err := s.sessions.DeleteSession(ctx, mode, user.UserID); err != nil {
		s.log.Warn("session cleanup failed", map[string]interface{}{"user_id": user.UserID, "error": err})
	}
	if err := s.sessions.DeleteDraft(ctx, mode, user.UserID); err != nil {
		s.log.Warn("draft cleanup failed", map[string]interface{}{"user_id": user.UserID, "error": err})
	}
	return resp, nil, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrExternal):
		return "external_error"
	case errors.Is(err, wizard.ErrReceiptRequired):
		return "missing_receipt"
	default:
		return "refused"
	}
}

func (s *membershipService) submitRegistration(ctx context.Context, user dto.CurrentSession, c *wizard.Controller) (*dto.SubmitResponse, error) {
	existing, err := s.findProfile(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != domain.ProfileStatusRejected {
		return nil, ErrAlreadyRegistered
	}

	state := c.State()
	receipt, err := utils.NormalizeToJPG(state.Payment.Receipt.Data, utils.ReceiptMaxWidth, utils.DefaultQuality)
	if err != nil {
		c.Errors()[wizard.PaymentReceipt] = ErrInvalidImage.Error()
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	var uploaded []uploadedObject
	receiptPath := fmt.Sprintf("receipts/%s/%s.jpg", user.UserID, uuid.NewString())
	receiptURL, err := s.store.Upload(ctx, s.buckets.Receipts, receiptPath, receipt)
	if err != nil {
		return nil, alert(msgUploadFailed, err)
	}
	uploaded = append(uploaded, uploadedObject{s.buckets.Receipts, receiptPath})

	photoURL, photo, err := s.uploadPhoto(ctx, user.UserID, state)
	if err != nil {
		s.removeUploaded(ctx, uploaded)
		return nil, err
	}
	if photo != nil {
		uploaded = append(uploaded, *photo)
	}

	profile := ProfileFromFormState(user.UserID, state)
	profile.Status = domain.ProfileStatusPending
	profile.PaymentReceiptURL = receiptURL
	if photoURL != "" {
		profile.Personal.ProfilePhotoURL = photoURL
	}

	if existing != nil {
		profile.AlumniID = existing.AlumniID
		err = s.repo.Resubmit(ctx, profile)
	} else {
		err = s.insertWithAlumniID(ctx, profile, strconv.Itoa(profile.Personal.PassOutYear))
	}
	if err != nil {
		s.removeUploaded(ctx, uploaded)
		s.log.Error("registration write failed", map[string]interface{}{"user_id": user.UserID, "error": err})
		return nil, alert(msgSaveFailed, err)
	}

	s.log.Info("registration submitted", map[string]interface{}{
		"user_id":     user.UserID,
		"alumni_id":   profile.AlumniID,
		"resubmitted": existing != nil,
	})
	s.publish(dto.EventProfileSubmitted, user.UserID, profile.Email, firstName(profile), profile.AlumniID, "")
	return &dto.SubmitResponse{AlumniID: profile.AlumniID, Status: string(domain.ProfileStatusPending)}, nil
}

// insertWithAlumniID draws a fresh alumni id until the insert does not collide.
func (s *membershipService) insertWithAlumniID(ctx context.Context, profile *domain.Profile, year string) error {
	var err error
	for attempt := 0; attempt < maxAlumniIDAttempts; attempt++ {
		profile.AlumniID = s.newAlumniID(year)
		err = s.repo.Insert(ctx, profile)
		if !errors.Is(err, repository.ErrDuplicateAlumniID) {
			return err
		}
		s.log.Debug("alumni id collision", map[string]interface{}{"alumni_id": profile.AlumniID, "attempt": attempt})
	}
	return err
}

func (s *membershipService) submitEdit(ctx context.Context, user dto.CurrentSession, c *wizard.Controller) (*dto.SubmitResponse, error) {
	existing, err := s.findProfile(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNoProfile
	}

	state := c.State()
	photoURL, photo, err := s.uploadPhoto(ctx, user.UserID, state)
	if err != nil {
		return nil, err
	}

	profile := ProfileFromFormState(user.UserID, state)
	profile.Email = existing.Email
	if photoURL != "" {
		profile.Personal.ProfilePhotoURL = photoURL
	}

	if err := s.repo.ReplaceSections(ctx, profile); err != nil {
		if photo != nil {
			s.removeUploaded(ctx, []uploadedObject{*photo})
		}
		s.log.Error("profile update failed", map[string]interface{}{"user_id": user.UserID, "error": err})
		return nil, alert(msgUpdateFailed, err)
	}

	s.log.Info("profile updated", map[string]interface{}{"user_id": user.UserID})
	return &dto.SubmitResponse{AlumniID: existing.AlumniID, Status: string(existing.Status)}, nil
}

// uploadPhoto stores a newly attached profile photo. No attachment is a no-op.
func (s *membershipService) uploadPhoto(ctx context.Context, userID string, state *wizard.FormState) (string, *uploadedObject, error) {
	if state.Personal.ProfilePhoto.Empty() {
		return "", nil, nil
	}
	photo, err := utils.NormalizeToJPG(state.Personal.ProfilePhoto.Data, utils.PhotoMaxWidth, utils.DefaultQuality)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	path := fmt.Sprintf("photos/%s/%s.jpg", userID, uuid.NewString())
	url, err := s.store.Upload(ctx, s.buckets.Photos, path, photo)
	if err != nil {
		return "", nil, alert(msgUploadFailed, err)
	}
	return url, &uploadedObject{s.buckets.Photos, path}, nil
}

// removeUploaded is best-effort cleanup after a failed write.
func (s *membershipService) removeUploaded(ctx context.Context, objects []uploadedObject) {
	byBucket := map[string][]string{}
	for _, o := range objects {
		byBucket[o.bucket] = append(byBucket[o.bucket], o.path)
	}
	for bucket, paths := range byBucket {
		if err := s.store.Remove(ctx, bucket, paths); err != nil {
			s.log.Warn("orphaned upload", map[string]interface{}{"bucket": bucket, "paths": paths, "error": err})
		}
	}
}
