package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dteaa/membership_service/internal/completeness"
	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/repository"
	"github.com/dteaa/membership_service/internal/wizard"
)

func TestMapper_RoundTrip(t *testing.T) {
	st := completeState()
	st.Personal.HighestQualification = "Master's Degree"
	st.Personal.Specialization = " Thermal "
	st.Experience.Employee = []wizard.EmployeeEntry{{ID: 7, CompanyName: "Acme", Designation: "Engineer", IsCurrentEmployer: true}}
	st.Experience.Entrepreneur = []wizard.EntrepreneurEntry{{ID: 9, CompanyName: "Forge", NatureOfBusiness: "Castings"}}
	st.Experience.IsOpenToWork = true
	st.Experience.OpenToWorkDetails.TechnicalSkills = "CAD"
	st.Privacy.ShowPhone = true

	p := ProfileFromFormState("user-1", st)
	assert.Equal(t, 1999, p.Personal.PassOutYear)
	assert.Equal(t, "Thermal", p.Personal.Specialization)
	assert.Equal(t, "Engineer", p.Employees[0].Position)

	back := FormStateFromProfile(p)
	assert.Equal(t, "1999", back.Personal.PassOutYear)
	assert.Equal(t, st.Contact, back.Contact)
	assert.Equal(t, st.Experience.Employee, back.Experience.Employee)
	assert.Equal(t, st.Experience.Entrepreneur, back.Experience.Entrepreneur)
	assert.True(t, back.Experience.IsOpenToWork)
	assert.Equal(t, "CAD", back.Experience.OpenToWorkDetails.TechnicalSkills)
	assert.Equal(t, st.Privacy, back.Privacy)
}

func TestMapper_DropsSpecializationForDiploma(t *testing.T) {
	st := completeState()
	st.Personal.Specialization = "left over"
	p := ProfileFromFormState("user-1", st)
	assert.Empty(t, p.Personal.Specialization)
}

func TestDirectoryEntryFor_Masks(t *testing.T) {
	p := &domain.Profile{
		ID:        "user-1",
		AlumniID:  "DTEAA-1999-0001",
		Email:     "asha@example.com",
		Personal:  &domain.PersonalDetails{FirstName: "Asha", LastName: "Rani", PassOutYear: 1999},
		Contact:   &domain.ContactDetails{Mobile: "+919043672733", PresentCity: "Chennai"},
		Employees: []domain.EmployeeExperience{{CompanyName: "Old", Position: "Intern"}, {CompanyName: "Acme", Position: "Lead", IsCurrentEmployer: true}},
	}

	entry := DirectoryEntryFor(p)
	assert.Equal(t, "Asha Rani", entry.FullName)
	assert.Equal(t, "asha@example.com", entry.Email, "email is shown by default")
	assert.Empty(t, entry.Mobile)
	assert.Empty(t, entry.Company)
	assert.Empty(t, entry.City)

	p.Privacy = &domain.PrivacySettings{ShowPhone: true, ShowCompany: true, ShowLocation: true}
	entry = DirectoryEntryFor(p)
	assert.Empty(t, entry.Email)
	assert.Equal(t, "+919043672733", entry.Mobile)
	assert.Equal(t, "Acme", entry.Company)
	assert.Equal(t, "Lead", entry.Designation)
	assert.Equal(t, "Chennai", entry.City)
}

func TestDirectory_ClampsPage(t *testing.T) {
	h := newHarness(t)
	h.repo.directory = []domain.Profile{{ID: "a"}, {ID: "b"}}

	entries, err := h.svc.Directory(context.Background(), repository.DirectoryFilter{Limit: 500, Offset: -3})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, maxPageSize, h.repo.lastFilter.Limit)
	assert.Equal(t, 0, h.repo.lastFilter.Offset)
}

func TestGetMyProfile(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.GetMyProfile(context.Background(), testUser.UserID)
	assert.ErrorIs(t, err, ErrNoProfile)

	h.repo.profiles[testUser.UserID] = ProfileFromFormState(testUser.UserID, completeState())
	resp, err := h.svc.GetMyProfile(context.Background(), testUser.UserID)
	require.NoError(t, err)
	assert.Equal(t, completeness.Calculate(resp.Profile), resp.Completeness)
	assert.Greater(t, resp.Completeness.Percentage, 0)
}

func TestGetCard_ValidFromOnlyWhenVerified(t *testing.T) {
	h := newHarness(t)
	p := ProfileFromFormState(testUser.UserID, completeState())
	p.AlumniID = "DTEAA-1999-0001"
	p.Status = domain.ProfileStatusPending
	h.repo.profiles[testUser.UserID] = p

	card, err := h.svc.GetCard(context.Background(), testUser.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rani", card.FullName)
	assert.Empty(t, card.ValidFrom)

	at := time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC)
	p.Status = domain.ProfileStatusVerified
	p.VerifiedAt = &at
	card, err = h.svc.GetCard(context.Background(), testUser.UserID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04", card.ValidFrom)
	assert.Equal(t, "verified", card.Status)
}
