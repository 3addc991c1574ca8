package services

import (
	"context"
	"strings"
	"time"

	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/metrics"
)

func (s *membershipService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.adminRepo.IsAdmin(ctx, userID)
}

func (s *membershipService) ListPending(ctx context.Context, limit, offset int) ([]dto.PendingProfileResponse, error) {
	limit, offset = page(limit, offset)
	profiles, err := s.repo.ListByStatus(ctx, domain.ProfileStatusPending, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PendingProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		row := dto.PendingProfileResponse{
			UserID:      p.ID,
			AlumniID:    p.AlumniID,
			Email:       p.Email,
			ReceiptURL:  p.PaymentReceiptURL,
			SubmittedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if p.Personal != nil {
			row.FirstName = p.Personal.FirstName
			row.LastName = p.Personal.LastName
			row.PassOutYear = p.Personal.PassOutYear
		}
		out = append(out, row)
	}
	return out, nil
}

// VerifyProfile moves pending to verified. Any other status is refused with
// repository.ErrNotPending.
func (s *membershipService) VerifyProfile(ctx context.Context, adminID, userID string) error {
	if err := s.repo.Verify(ctx, userID, adminID, s.now()); err != nil {
		metrics.Reviews.WithLabelValues("verify_refused").Inc()
		return err
	}
	metrics.Reviews.WithLabelValues("verified").Inc()
	s.log.Info("profile verified", map[string]interface{}{"user_id": userID, "admin_id": adminID})
	s.notifyReview(ctx, dto.EventProfileVerified, userID, "")
	return nil
}

func (s *membershipService) RejectProfile(ctx context.Context, adminID, userID, comments string) error {
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return ErrCommentsRequired
	}
	if err := s.repo.Reject(ctx, userID, adminID, comments); err != nil {
		metrics.Reviews.WithLabelValues("reject_refused").Inc()
		return err
	}
	metrics.Reviews.WithLabelValues("rejected").Inc()
	s.log.Info("profile rejected", map[string]interface{}{"user_id": userID, "admin_id": adminID})
	s.notifyReview(ctx, dto.EventProfileRejected, userID, comments)
	return nil
}

func (s *membershipService) notifyReview(ctx context.Context, eventType, userID, comments string) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn("review event skipped", map[string]interface{}{"user_id": userID, "error": err})
		return
	}
	s.publish(eventType, userID, profile.Email, firstName(profile), profile.AlumniID, comments)
}

// ListReviews returns the review history of a profile, newest first.
func (s *membershipService) ListReviews(ctx context.Context, userID string) ([]domain.ReviewLog, error) {
	return s.adminRepo.ListReviews(ctx, userID)
}
