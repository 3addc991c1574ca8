package services

import (
	"context"

	"github.com/dteaa/membership_service/internal/completeness"
	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/dto"
	"github.com/dteaa/membership_service/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *membershipService) GetMyProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	profile, err := s.findProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoProfile
	}
	return &dto.ProfileResponse{
		Profile:      profile,
		Completeness: completeness.Calculate(profile),
	}, nil
}

// GetCard returns the membership card fields. Unverified members get the card with
// their current status so the client can watermark it.
func (s *membershipService) GetCard(ctx context.Context, userID string) (*dto.CardResponse, error) {
	profile, err := s.findProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNoProfile
	}

	card := &dto.CardResponse{
		AlumniID: profile.AlumniID,
		FullName: fullName(profile),
		Email:    profile.Email,
		Status:   string(profile.Status),
	}
	if p := profile.Personal; p != nil {
		card.PassOutYear = p.PassOutYear
		card.BloodGroup = p.BloodGroup
		card.ProfilePhotoURL = p.ProfilePhotoURL
	}
	if c := profile.Contact; c != nil {
		card.Mobile = c.Mobile
		card.City = c.PresentCity
	}
	if profile.Status == domain.ProfileStatusVerified && profile.VerifiedAt != nil {
		card.ValidFrom = profile.VerifiedAt.Format("2006-01-02")
	}
	return card, nil
}

func (s *membershipService) Directory(ctx context.Context, filter repository.DirectoryFilter) ([]dto.DirectoryEntry, error) {
	filter.Limit, filter.Offset = page(filter.Limit, filter.Offset)

	profiles, err := s.repo.ListDirectory(ctx, filter)
	if err != nil {
		return nil, alert("Could not load the directory. Please try again.", err)
	}
	entries := make([]dto.DirectoryEntry, 0, len(profiles))
	for i := range profiles {
		entries = append(entries, DirectoryEntryFor(&profiles[i]))
	}
	return entries, nil
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
